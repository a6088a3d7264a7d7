// Package events publishes rental lifecycle events to Kafka for
// downstream consumers. Publication is best effort and never blocks a
// request path on broker availability.
package events

import (
	"time"

	"github.com/IBM/sarama"
	jsoniter "github.com/json-iterator/go"

	"peerrent-backend/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Event is the envelope written to the lifecycle topic.
type Event struct {
	Type            string    `json:"type"`
	RentalRequestID int32     `json:"rental_request_id"`
	ProductID       int32     `json:"product_id"`
	Status          string    `json:"status"`
	OccurredOn      time.Time `json:"occurred_on"`
}

// Producer publishes lifecycle events.
type Producer interface {
	Publish(event Event)
	Close() error
}

type saramaProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewSaramaProducer(brokers []string, topic string) (Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Timeout = 5 * time.Second
	prod, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}
	return &saramaProducer{producer: prod, topic: topic}, nil
}

func (p *saramaProducer) Publish(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to encode lifecycle event", "type", event.Type, "error", err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Type),
		Value: sarama.ByteEncoder(payload),
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		logger.Error("failed to publish lifecycle event", "topic", p.topic, "type", event.Type, "error", err)
		return
	}
	logger.Debug("lifecycle event published", "topic", p.topic, "partition", partition, "offset", offset, "type", event.Type)
}

func (p *saramaProducer) Close() error {
	return p.producer.Close()
}

// NopProducer discards events. Used when no brokers are configured.
type NopProducer struct{}

func (NopProducer) Publish(event Event) {}
func (NopProducer) Close() error        { return nil }
