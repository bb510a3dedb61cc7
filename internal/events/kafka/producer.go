package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CloudEvent defines the structure for CloudEvents v1.0 as carried on the
// platform event bus.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         *string     `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            interface{} `json:"data,omitempty"`
}

// EventType is a string alias for CloudEvent type strings.
type EventType string

const (
	cloudEventSpecVersion     = "1.0"
	cloudEventDataContentType = "application/json"
)

// Producer publishes CloudEvents to Kafka through a sarama sync producer.
type Producer struct {
	producer sarama.SyncProducer
	logger   *zap.Logger
	source   string
}

// NewProducer connects a sync producer to the given brokers. source identifies
// this service in the CloudEvent envelope, e.g. "/nln/auth-service".
func NewProducer(brokers []string, logger *zap.Logger, source string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		logger:   logger,
		source:   source,
	}, nil
}

// PublishCloudEvent wraps the payload in a CloudEvent envelope and sends it to
// the topic. The subject, when present, doubles as the partition key so events
// for one account stay ordered.
func (p *Producer) PublishCloudEvent(ctx context.Context, topic string, eventType EventType, subject *string, payload interface{}) error {
	event := CloudEvent{
		SpecVersion:     cloudEventSpecVersion,
		Type:            string(eventType),
		Source:          p.source,
		Subject:         subject,
		ID:              uuid.NewString(),
		Time:            time.Now().UTC(),
		DataContentType: cloudEventDataContentType,
		Data:            payload,
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal cloud event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(eventJSON),
	}
	if subject != nil && *subject != "" {
		msg.Key = sarama.StringEncoder(*subject)
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to publish cloud event %s: %w", event.ID, err)
	}

	p.logger.Debug("published cloud event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(eventType)),
		zap.String("topic", topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

// Close shuts down the underlying sarama producer.
func (p *Producer) Close() error {
	return p.producer.Close()
}
