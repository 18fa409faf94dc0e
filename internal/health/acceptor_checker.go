package health

import (
	"context"
	"time"
)

// AcceptorProbe 轮询协程暴露的链路状态
type AcceptorProbe interface {
	// Online 最近一次轮询交换是否成功
	Online() bool
}

// AcceptorChecker 纸币接收器链路健康检查器
type AcceptorChecker struct {
	probe AcceptorProbe
}

// NewAcceptorChecker 创建接收器链路检查器
func NewAcceptorChecker(probe AcceptorProbe) *AcceptorChecker {
	return &AcceptorChecker{probe: probe}
}

// Name 返回检查器名称
func (c *AcceptorChecker) Name() string {
	return "acceptor"
}

// Check 执行健康检查。链路断开视为降级而非不健康：
// HTTP 查询接口仍可基于缓存与数据库继续服务。
func (c *AcceptorChecker) Check(_ context.Context) CheckResult {
	start := time.Now()

	if !c.probe.Online() {
		return CheckResult{
			Status:  StatusDegraded,
			Message: "acceptor not responding",
			Latency: time.Since(start),
		}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: "ok",
		Latency: time.Since(start),
	}
}
