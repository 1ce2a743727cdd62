// Package event 领域事件发布
//
// 下单、取消、调拨完成后向RabbitMQ发布事件，通知/报表等下游订阅。
// 发布走熔断器：MQ持续不可用时快速失败，不拖慢主流程。
// 事件发布失败只记日志和指标——一致性由数据库事务保证，不靠消息。
package event

import (
	"log"
	"time"

	"github.com/luoyang/bookmall/pkg/circuitbreaker"
	"github.com/luoyang/bookmall/pkg/metrics"
	"github.com/luoyang/bookmall/pkg/mq"
)

// 路由键约定(topic exchange)
const (
	RoutingKeyOrderCreated     = "order.created"
	RoutingKeyOrderCancelled   = "order.cancelled"
	RoutingKeyStockTransferred = "stock.transferred"
	RoutingKeyLowStock         = "stock.low"
)

// OrderCreatedEvent 下单成功事件
type OrderCreatedEvent struct {
	OrderID   uint      `json:"order_id"`
	OrderNo   string    `json:"order_no"`
	UserID    uint      `json:"user_id"`
	Total     int64     `json:"total"`
	PromoCode string    `json:"promo_code,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderCancelledEvent 订单取消事件（库存已回补）
type OrderCancelledEvent struct {
	OrderID     uint      `json:"order_id"`
	OrderNo     string    `json:"order_no"`
	UserID      uint      `json:"user_id"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// StockTransferredEvent 调拨完成事件
type StockTransferredEvent struct {
	TransferID      uint      `json:"transfer_id"`
	FromWarehouseID uint      `json:"from_warehouse_id"`
	ToStoreID       uint      `json:"to_store_id"`
	BookID          uint      `json:"book_id"`
	Quantity        int       `json:"quantity"`
	CreatedAt       time.Time `json:"created_at"`
}

// LowStockEvent 网点库存跌破阈值事件（触发补货提醒）
type LowStockEvent struct {
	StoreID   uint `json:"store_id"`
	BookID    uint `json:"book_id"`
	Stock     int  `json:"stock"`
	Threshold int  `json:"threshold"`
}

// Publisher 领域事件发布器
// publisher为nil时（MQ未启用）所有方法静默跳过
type Publisher struct {
	publisher *mq.Publisher
	breaker   *circuitbreaker.CircuitBreaker
	exchange  string
}

// NewPublisher 创建事件发布器
// mqPublisher可以为nil（配置中MQ未启用）
func NewPublisher(mqPublisher *mq.Publisher, exchange string) *Publisher {
	breaker := circuitbreaker.NewCircuitBreaker("mq-publish", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("熔断器[%s]状态切换: %s → %s", name, from, to)
		metrics.SetGaugeVec(metrics.CircuitBreakerState,
			map[string]string{"name": name}, float64(to))
	})

	return &Publisher{
		publisher: mqPublisher,
		breaker:   breaker,
		exchange:  exchange,
	}
}

// OrderCreated 发布下单成功事件
func (p *Publisher) OrderCreated(evt OrderCreatedEvent) {
	p.publish(RoutingKeyOrderCreated, evt)
}

// OrderCancelled 发布订单取消事件
func (p *Publisher) OrderCancelled(evt OrderCancelledEvent) {
	p.publish(RoutingKeyOrderCancelled, evt)
}

// StockTransferred 发布调拨完成事件
func (p *Publisher) StockTransferred(evt StockTransferredEvent) {
	p.publish(RoutingKeyStockTransferred, evt)
}

// LowStock 发布低库存告警事件
func (p *Publisher) LowStock(evt LowStockEvent) {
	p.publish(RoutingKeyLowStock, evt)
}

// publish 经熔断器发布，失败只记录
func (p *Publisher) publish(routingKey string, message interface{}) {
	if p == nil || p.publisher == nil {
		return
	}

	err := p.breaker.Execute(func() error {
		return p.publisher.Publish(routingKey, message)
	})

	if err != nil {
		metrics.MessagePublishFailures.Inc()
		metrics.IncCounterVec(metrics.CircuitBreakerRequests,
			map[string]string{"name": "mq-publish", "result": "failure"})
		log.Printf("事件发布失败(不影响主流程): key=%s, err=%v", routingKey, err)
		return
	}

	metrics.IncCounterVec(metrics.MessagesPublishedTotal,
		map[string]string{"exchange": p.exchange, "routing_key": routingKey})
	metrics.IncCounterVec(metrics.CircuitBreakerRequests,
		map[string]string{"name": "mq-publish", "result": "success"})
}
