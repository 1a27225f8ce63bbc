package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/trogers1052/limitup-lab/internal/models"
)

// BarRepository defines the interface for daily-bar database operations
type BarRepository interface {
	UpsertDailyBar(bar *models.DailyBar) error
	UpsertInstrument(inst *models.Instrument) error
}

// Consumer handles consuming daily-bar events from Kafka.
// It only keeps the canonical bar/instrument tables current; labeling runs
// are triggered separately through the API and read whatever is stored.
type Consumer struct {
	reader *kafka.Reader
	repo   BarRepository
}

// NewConsumer creates a new Kafka consumer for bar events
func NewConsumer(brokers []string, topic, groupID string, repo BarRepository) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader: reader,
		repo:   repo,
	}
}

// Start begins consuming messages from Kafka
func (c *Consumer) Start(ctx context.Context) error {
	log.Printf("Starting Kafka consumer for topic: %s", c.reader.Config().Topic)

	for {
		select {
		case <-ctx.Done():
			log.Println("Kafka consumer shutting down...")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil // Context cancelled, normal shutdown
				}
				log.Printf("Error reading message: %v", err)
				continue
			}

			if err := c.processMessage(msg); err != nil {
				log.Printf("Error processing message: %v", err)
				// Continue processing other messages
			}
		}
	}
}

// processMessage handles a single Kafka message
func (c *Consumer) processMessage(msg kafka.Message) error {
	var event models.BarEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal bar event: %w", err)
	}

	switch event.EventType {
	case models.EventBarUpserted:
		if event.Bar == nil {
			return fmt.Errorf("bar event for %s carries no bar", event.TsCode)
		}
		if err := c.repo.UpsertDailyBar(event.Bar); err != nil {
			return fmt.Errorf("failed to store bar %s %s: %w", event.Bar.TsCode, event.Bar.TradeDate, err)
		}
	case models.EventInstrumentUpserted:
		if event.Instrument == nil {
			return fmt.Errorf("instrument event for %s carries no instrument", event.TsCode)
		}
		if err := c.repo.UpsertInstrument(event.Instrument); err != nil {
			return fmt.Errorf("failed to store instrument %s: %w", event.Instrument.TsCode, err)
		}
	default:
		log.Printf("Ignoring event type: %s", event.EventType)
	}
	return nil
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}
