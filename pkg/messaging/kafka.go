package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

type KafkaProducer struct {
	brokers []string
	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

func NewKafkaProducer(brokers []string) *KafkaProducer {
	return &KafkaProducer{
		brokers: brokers,
		writers: make(map[string]*kafka.Writer),
	}
}

func (kp *KafkaProducer) getWriter(topic string) *kafka.Writer {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	if writer, exists := kp.writers[topic]; exists {
		return writer
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(kp.brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
	kp.writers[topic] = writer
	return writer
}

// SendMessage JSON-encodes value and writes it keyed by key, so events for the
// same key land on the same partition.
func (kp *KafkaProducer) SendMessage(ctx context.Context, topic, key string, value interface{}) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: jsonData,
	}
	return kp.getWriter(topic).WriteMessages(ctx, message)
}

func (kp *KafkaProducer) Close() error {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	var firstErr error
	for topic, writer := range kp.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(kp.writers, topic)
	}
	return firstErr
}

// Event types for async processing
const (
	OrderPlaced = "order_placed"
)

type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	SessionID  string    `json:"session_id"`
	VendorID   string    `json:"vendor_id"`
	ItemCount  int       `json:"item_count"`
	Total      float64   `json:"total"`
	OccurredAt time.Time `json:"occurred_at"`
}
