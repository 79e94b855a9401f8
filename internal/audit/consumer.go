package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"admitly/pkg/logger"

	"github.com/IBM/sarama"
)

// EventConsumer ingests scan events published by other gate servers into
// the local audit store, so each venue server holds the full admission
// trail regardless of which gate recorded it.
type EventConsumer interface {
	Start(ctx context.Context) error
	Stop() error
}

// ConsumerConfig contains configuration for the Kafka event consumer
type ConsumerConfig struct {
	Brokers          []string
	GroupID          string
	Topic            string
	SessionTimeoutMs int
	HeartbeatMs      int
	OffsetOldest     bool
}

// DefaultConsumerConfig returns a default consumer configuration
func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:          []string{"localhost:9092"},
		GroupID:          "admitly-audit-ingest",
		Topic:            "scan-events",
		SessionTimeoutMs: 30000,
		HeartbeatMs:      3000,
		OffsetOldest:     true,
	}
}

// KafkaEventConsumer consumes scan events from Kafka into the audit store
type KafkaEventConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	store         Store
	logger        *logger.Logger
	cancel        context.CancelFunc
}

// NewKafkaEventConsumer creates a new Kafka event consumer
func NewKafkaEventConsumer(config *ConsumerConfig, store Store) (EventConsumer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = 1 * time.Second

	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &KafkaEventConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		store:         store,
		logger:        logger.GetDefault(),
	}, nil
}

// Start begins consuming in a background goroutine until the context ends.
func (c *KafkaEventConsumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		for err := range c.consumerGroup.Errors() {
			c.logger.Error("audit consumer error", slog.String("error", err.Error()))
		}
	}()

	go func() {
		handler := &ingestHandler{store: c.store, logger: c.logger}
		for {
			if err := c.consumerGroup.Consume(ctx, []string{c.config.Topic}, handler); err != nil {
				c.logger.Error("audit consume failed", slog.String("error", err.Error()))
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	return nil
}

// Stop shuts down the consumer
func (c *KafkaEventConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return c.consumerGroup.Close()
}

// ingestHandler implements sarama.ConsumerGroupHandler
type ingestHandler struct {
	store  Store
	logger *logger.Logger
}

func (h *ingestHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *ingestHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *ingestHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		event, err := FromJSON(message.Value)
		if err != nil {
			// A malformed event is dropped rather than wedging the
			// partition.
			h.logger.Error("dropping malformed scan event", slog.String("error", err.Error()))
			session.MarkMessage(message, "")
			continue
		}

		if err := h.store.Append(session.Context(), event); err != nil {
			h.logger.Error("failed to ingest scan event",
				slog.String("ticket_code", event.TicketCode),
				slog.String("error", err.Error()),
			)
			// Do not mark; the message is redelivered.
			continue
		}
		session.MarkMessage(message, "")
	}
	return nil
}
