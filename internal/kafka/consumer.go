package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/parkingsystem/internal/logging"
	"github.com/segmentio/kafka-go"
)

type TicketEventHandler func(ctx context.Context, event TicketEvent) error

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume decodes ticket events until ctx is done or the handler fails.
// Undecodable messages are logged and skipped.
func (c *Consumer) Consume(ctx context.Context, handler TicketEventHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}

		if err := HandleMessage(ctx, msg, handler); err != nil {
			return err
		}
	}
}

func HandleMessage(ctx context.Context, msg kafka.Message, handler TicketEventHandler) error {
	var event TicketEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logging.Warnf(ctx, "skip message at offset %d on %s: %v", msg.Offset, msg.Topic, err)
		return nil
	}
	if err := handler(ctx, event); err != nil {
		return fmt.Errorf("handle %s for ticket %d: %w", event.Type, event.TicketID, err)
	}
	return nil
}
