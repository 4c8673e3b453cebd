package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/trogers1052/scenario-risk-service/internal/models"
)

// Producer handles publishing run events to Kafka
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishScenarioRun publishes a completed scenario run
func (p *Producer) PublishScenarioRun(ctx context.Context, rec *models.ScenarioHistoryRecord) error {
	event := models.RunEvent{
		EventType: models.EventScenarioRun,
		Record:    rec,
		SessionID: rec.SessionID,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, rec.ID, event)
}

// PublishBacktestRun publishes a completed backtest run
func (p *Producer) PublishBacktestRun(ctx context.Context, rec *models.ScenarioHistoryRecord) error {
	event := models.RunEvent{
		EventType: models.EventBacktestRun,
		Record:    rec,
		SessionID: rec.SessionID,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, rec.ID, event)
}

// PublishHistoryCleared publishes a bulk history clear
func (p *Producer) PublishHistoryCleared(ctx context.Context, sessionID string) error {
	event := models.RunEvent{
		EventType: models.EventHistoryCleared,
		SessionID: sessionID,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, sessionID, event)
}

func (p *Producer) publish(ctx context.Context, key string, event models.RunEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
