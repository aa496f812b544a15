package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/Alicia-Alexia/sub-manager/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// Topics for subscription lifecycle events.
const (
	TopicSubscriptionCreated   = "subscription_created"
	TopicSubscriptionRenewed   = "subscription_renewed"
	TopicSubscriptionCancelled = "subscription_cancelled"
)

// Producer defines the interface for publishing subscription events.
type Producer interface {
	// PublishSubscriptionEvent sends a lifecycle event for one
	// subscription. The message key is the subscription ID, so all events
	// for one subscription land in the same partition.
	PublishSubscriptionEvent(ctx context.Context, topic string, subscription *domain.Subscription) error
	// Close shuts the producer down.
	Close() error
}

// kafkaProducer implements Producer using segmentio/kafka-go.
type kafkaProducer struct {
	writer *kafka.Writer
	log    *logger.Logger
}

// NewKafkaProducer creates and configures a new Kafka producer.
func NewKafkaProducer(brokers []string, log *logger.Logger) (Producer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are not configured")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	log.Infow("Kafka producer initialized", "brokers", brokers)

	return &kafkaProducer{
		writer: writer,
		log:    log,
	}, nil
}

// PublishSubscriptionEvent marshals the subscription to JSON and writes it
// to the given topic.
func (k *kafkaProducer) PublishSubscriptionEvent(ctx context.Context, topic string, subscription *domain.Subscription) error {
	messageKey := []byte(strconv.FormatInt(subscription.ID, 10))

	messageValue, err := json.Marshal(subscription)
	if err != nil {
		k.log.Errorw("Failed to marshal subscription for Kafka", "error", err, "subscriptionID", subscription.ID, "topic", topic)
		return fmt.Errorf("kafka: failed to marshal message data: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   messageKey,
		Value: messageValue,
		Time:  time.Now(),
	}

	writeCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := k.writer.WriteMessages(writeCtx, message); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			k.log.Errorw("Kafka write timeout exceeded", "error", err, "topic", topic, "subscriptionID", subscription.ID)
			return fmt.Errorf("kafka: write timeout: %w", err)
		}
		k.log.Errorw("Failed to write message to Kafka", "error", err, "topic", topic, "subscriptionID", subscription.ID)
		return fmt.Errorf("kafka: failed to write message: %w", err)
	}

	k.log.Debugw("Published message to Kafka", "topic", topic, "subscriptionID", subscription.ID)
	return nil
}

// Close closes the Kafka writer.
func (k *kafkaProducer) Close() error {
	if err := k.writer.Close(); err != nil {
		k.log.Errorw("Failed to close Kafka writer", "error", err)
		return fmt.Errorf("kafka: failed to close writer: %w", err)
	}
	return nil
}
