package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry 创建自定义 Prometheus Registry，并注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 Prometheus 指标 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// AppMetrics 自定义业务指标
type AppMetrics struct {
	PollTotal         *prometheus.CounterVec // labels: result=ok|timeout|error
	ReplyTotal        *prometheus.CounterVec // labels: type
	DecodeErrorTotal  *prometheus.CounterVec // labels: reason=checksum|framing|truncated|unknown
	SequenceMismatch  prometheus.Counter     // 应答翻转位不符次数
	CreditTotal       *prometheus.CounterVec // labels: currency
	CreditAmountTotal *prometheus.CounterVec // labels: currency，按币值累加
	DeviceOnline      prometheus.Gauge       // 设备在线（最近一次轮询成功）
	PollLatency       prometheus.Histogram   // 命令发出到应答解析完成
}

// NewAppMetrics 注册并返回业务指标
func NewAppMetrics(reg *prometheus.Registry) *AppMetrics {
	m := &AppMetrics{
		PollTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acceptor_poll_total",
			Help: "Poll exchanges by result.",
		}, []string{"result"}),
		ReplyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acceptor_reply_total",
			Help: "Device replies by message type.",
		}, []string{"type"}),
		DecodeErrorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acceptor_decode_error_total",
			Help: "Frame decode failures by reason.",
		}, []string{"reason"}),
		SequenceMismatch: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "acceptor_sequence_mismatch_total",
			Help: "Replies echoing a stale toggle bit.",
		}),
		CreditTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acceptor_credit_total",
			Help: "Stacked banknotes by currency.",
		}, []string{"currency"}),
		CreditAmountTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acceptor_credit_amount_total",
			Help: "Accumulated credited value by currency.",
		}, []string{"currency"}),
		DeviceOnline: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "acceptor_online",
			Help: "Whether the last poll exchange succeeded.",
		}),
		PollLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "acceptor_poll_latency_seconds",
			Help:    "Latency of a full poll exchange.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}
	reg.MustRegister(
		m.PollTotal, m.ReplyTotal, m.DecodeErrorTotal, m.SequenceMismatch,
		m.CreditTotal, m.CreditAmountTotal, m.DeviceOnline, m.PollLatency,
	)
	return m
}
