// Package metrics 提供基于Prometheus的指标收集
//
// 指标分三类：
// - Counter: 只增不减（请求总数、下单总数、拒绝总数）
// - Gauge: 瞬时值（处理中请求数、熔断器状态）
// - Histogram: 分布（请求耗时，自动算P50/P90/P99）
//
// 指标通过/metrics端点暴露，由Prometheus定期抓取。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method（GET/POST）、path、status（200/404/409）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 下单业务指标

	// OrdersCreatedTotal 下单成功总数
	OrdersCreatedTotal prometheus.Counter

	// OrdersRejectedTotal 下单被拒总数
	// 标签：reason（insufficient_stock/invalid_promotion/empty_cart/conflict/other）
	OrdersRejectedTotal *prometheus.CounterVec

	// OrdersCancelledTotal 订单取消总数（含库存回补）
	OrdersCancelledTotal prometheus.Counter

	// OrderCreationDuration 下单事务耗时
	OrderCreationDuration prometheus.Histogram

	// 库存指标

	// StockDecrementsTotal 线上库存扣减总数
	// 标签：result（success/insufficient）
	StockDecrementsTotal *prometheus.CounterVec

	// TransfersTotal 仓库→门店调拨总数
	// 标签：result（success/insufficient/failure）
	TransfersTotal *prometheus.CounterVec

	// 优惠码指标

	// PromoRedemptionsTotal 优惠码核销总数
	PromoRedemptionsTotal prometheus.Counter

	// PromoRejectionsTotal 优惠码校验失败总数
	// 标签：reason（inactive/not_started/expired/min_subtotal/exhausted）
	PromoRejectionsTotal *prometheus.CounterVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数
	// 标签：exchange、routing_key
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagePublishFailures 消息发布失败总数
	MessagePublishFailures prometheus.Counter
)

// InitMetrics 初始化所有Prometheus指标
// 必须在程序启动时调用一次，注册所有指标到默认Registry
func InitMetrics() {
	if initialized {
		return
	}
	initialized = true

	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 下单业务指标
	OrdersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "下单成功总数",
		},
	)

	OrdersRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_rejected_total",
			Help: "下单被拒总数",
		},
		[]string{"reason"},
	)

	OrdersCancelledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_cancelled_total",
			Help: "订单取消总数",
		},
	)

	OrderCreationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "order_creation_duration_seconds",
			Help:    "下单事务耗时（秒）",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	// 库存指标
	StockDecrementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_decrements_total",
			Help: "线上库存扣减总数",
		},
		[]string{"result"},
	)

	TransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_transfers_total",
			Help: "仓库到门店调拨总数",
		},
		[]string{"result"},
	)

	// 优惠码指标
	PromoRedemptionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "promo_redemptions_total",
			Help: "优惠码核销总数",
		},
	)

	PromoRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_rejections_total",
			Help: "优惠码校验失败总数",
		},
		[]string{"reason"},
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)

	MessagePublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "message_publish_failures_total",
			Help: "消息发布失败总数",
		},
	)
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}
