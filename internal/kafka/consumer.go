package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/trogers1052/scenario-risk-service/internal/models"
)

// PositionSink receives externally managed position snapshots.
type PositionSink interface {
	ReplaceAll(positions []models.Position)
}

// Consumer ingests position snapshots from Kafka. Each snapshot message
// replaces the whole in-memory portfolio, so losing or re-reading a
// message is harmless.
type Consumer struct {
	reader *kafka.Reader
	sink   PositionSink
	logger *zap.Logger
}

// NewConsumer creates a new Kafka consumer for position snapshots
func NewConsumer(brokers []string, topic, groupID string, sink PositionSink, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.LastOffset,
		CommitInterval: time.Second,
	})

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Consumer{
		reader: reader,
		sink:   sink,
		logger: logger,
	}
}

// Start begins consuming messages from Kafka
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("starting kafka consumer", zap.String("topic", c.reader.Config().Topic))

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("kafka consumer shutting down")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil // Context cancelled, normal shutdown
				}
				c.logger.Error("failed to read message", zap.Error(err))
				continue
			}

			if err := c.processMessage(msg); err != nil {
				c.logger.Error("failed to process message", zap.Error(err))
				// Continue processing other messages
			}
		}
	}
}

// processMessage handles a single Kafka message
func (c *Consumer) processMessage(msg kafka.Message) error {
	var snapshot models.PositionSnapshot
	if err := json.Unmarshal(msg.Value, &snapshot); err != nil {
		return fmt.Errorf("failed to unmarshal position snapshot: %w", err)
	}

	if snapshot.EventType != "POSITION_SNAPSHOT" {
		c.logger.Debug("ignoring event type", zap.String("event_type", snapshot.EventType))
		return nil
	}

	c.sink.ReplaceAll(snapshot.Positions)

	c.logger.Info("replaced portfolio from snapshot",
		zap.Int("positions", len(snapshot.Positions)),
		zap.String("source", snapshot.Source),
		zap.Int64("offset", msg.Offset))

	return nil
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}
