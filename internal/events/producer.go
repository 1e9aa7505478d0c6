package events

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"strings"
	"time"

	"vendormart/internal/domain"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// OrderStatusChanged is published after every successful status transition,
// including the initial pending on creation. Consumers must tolerate
// duplicates; delivery is best effort.
type OrderStatusChanged struct {
	EventID    string             `json:"event_id"`
	OrderID    string             `json:"order_id"`
	UserID     string             `json:"user_id"`
	VendorID   string             `json:"vendor_id,omitempty"`
	Status     domain.OrderStatus `json:"status"`
	TotalCents int64              `json:"total_cents"`
	Timestamp  time.Time          `json:"timestamp"`
}

// Producer publishes order lifecycle events.
type Producer interface {
	PublishStatusChange(ctx context.Context, ev OrderStatusChanged) error
	Close() error
}

type kafkaProducer struct {
	writer *kafka.Writer
	logger *log.Logger
}

// NewKafkaProducer returns a Producer writing to the given topic. Brokers
// is a comma-separated list.
func NewKafkaProducer(brokers, topic string, logger *log.Logger) Producer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &kafkaProducer{writer: writer, logger: logger}
}

func (p *kafkaProducer) PublishStatusChange(ctx context.Context, ev OrderStatusChanged) error {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.OrderID),
		Value: data,
	})
	if err != nil {
		p.logger.Printf("events: publish order=%s status=%s error=%v", ev.OrderID, ev.Status, err)
		return err
	}
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

// NopProducer drops every event; used when no brokers are configured.
type NopProducer struct{}

func (NopProducer) PublishStatusChange(context.Context, OrderStatusChanged) error { return nil }
func (NopProducer) Close() error                                                  { return nil }
