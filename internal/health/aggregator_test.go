package health

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// stubChecker 返回固定结果的检查器
type stubChecker struct {
	name   string
	status Status
	calls  atomic.Int32
	delay  time.Duration
}

func (s *stubChecker) Name() string { return s.name }

func (s *stubChecker) Check(_ context.Context) CheckResult {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return CheckResult{Status: s.status, Message: "stub", Latency: s.delay}
}

// fakeProbe 模拟轮询链路状态
type fakeProbe struct{ online bool }

func (f *fakeProbe) Online() bool { return f.online }

// TestAggregator_AcceptorLinkReadiness 测试串口链路断开时的就绪语义：
// 整体降级，但查询接口仍可服务，readiness 保持就绪。
func TestAggregator_AcceptorLinkReadiness(t *testing.T) {
	ctx := context.Background()
	probe := &fakeProbe{online: false}
	agg := NewAggregator(&stubChecker{name: "database", status: StatusHealthy})
	agg.AddChecker(NewAcceptorChecker(probe))

	if got := agg.OverallStatus(ctx); got != StatusDegraded {
		t.Fatalf("离线链路期望StatusDegraded，实际: %v", got)
	}
	if !agg.Ready(ctx) {
		t.Error("链路降级时readiness应保持就绪")
	}

	results := agg.CheckAll(ctx)
	if got := results["acceptor"].Message; got != "acceptor not responding" {
		t.Errorf("降级原因不符，实际: %q", got)
	}

	// 链路恢复后整体回到健康
	probe.online = true
	if got := agg.OverallStatus(ctx); got != StatusHealthy {
		t.Errorf("链路恢复后期望StatusHealthy，实际: %v", got)
	}
}

// TestAggregator_UnhealthyDominates 测试不健康优先于降级
func TestAggregator_UnhealthyDominates(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator(
		&stubChecker{name: "database", status: StatusUnhealthy},
		NewAcceptorChecker(&fakeProbe{online: false}),
	)

	if got := agg.OverallStatus(ctx); got != StatusUnhealthy {
		t.Fatalf("期望StatusUnhealthy，实际: %v", got)
	}
	if agg.Ready(ctx) {
		t.Error("存在不健康组件时不应就绪")
	}
	if !agg.Alive() {
		t.Error("liveness与组件健康无关，应始终存活")
	}
}

// TestAggregator_NoCheckers 测试空聚合器默认健康
func TestAggregator_NoCheckers(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator()

	if got := agg.OverallStatus(ctx); got != StatusHealthy {
		t.Errorf("期望StatusHealthy，实际: %v", got)
	}
	if !agg.Ready(ctx) {
		t.Error("空聚合器应就绪")
	}
}

// TestAggregator_ChecksRunConcurrently 测试各检查器并发执行且各跑一次
func TestAggregator_ChecksRunConcurrently(t *testing.T) {
	slow := 30 * time.Millisecond
	checkers := []*stubChecker{
		{name: "c1", status: StatusHealthy, delay: slow},
		{name: "c2", status: StatusHealthy, delay: slow},
		{name: "c3", status: StatusHealthy, delay: slow},
	}
	agg := NewAggregator()
	for _, c := range checkers {
		agg.AddChecker(c)
	}

	start := time.Now()
	results := agg.CheckAll(context.Background())
	elapsed := time.Since(start)

	if len(results) != 3 {
		t.Fatalf("期望3个结果，实际: %d", len(results))
	}
	for _, c := range checkers {
		if got := c.calls.Load(); got != 1 {
			t.Errorf("%s: 期望执行1次，实际: %d", c.name, got)
		}
	}
	// 串行执行至少 3×30ms，并发应明显低于该值
	if elapsed >= 3*slow {
		t.Errorf("检查未并发执行，耗时: %v", elapsed)
	}
}

// TestAcceptorChecker 测试链路检查器的状态映射
func TestAcceptorChecker(t *testing.T) {
	c := NewAcceptorChecker(&fakeProbe{online: true})
	if got := c.Check(context.Background()); got.Status != StatusHealthy {
		t.Errorf("在线期望StatusHealthy，实际: %v", got.Status)
	}

	c = NewAcceptorChecker(&fakeProbe{online: false})
	got := c.Check(context.Background())
	if got.Status != StatusDegraded {
		t.Errorf("离线期望StatusDegraded，实际: %v", got.Status)
	}
	if got.Message != "acceptor not responding" {
		t.Errorf("降级原因不符，实际: %q", got.Message)
	}
	if c.Name() != "acceptor" {
		t.Errorf("检查器名称不符: %q", c.Name())
	}
}
