package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"

	"loksangam/internal/config"
	"loksangam/internal/logger"
	"loksangam/internal/models"
)

// Producer streams registration and verification events. A disabled
// producer logs and drops every message, so the broker is optional in
// development.
type Producer struct {
	writer  *kafka.Writer
	topics  config.TopicConfig
	enabled bool
	logger  *logger.Logger
}

func NewProducer(cfg config.KafkaConfig, log *logger.Logger) *Producer {
	p := &Producer{topics: cfg.Topics, enabled: cfg.Enabled, logger: log}
	if !cfg.Enabled {
		return p
	}
	p.writer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return p
}

// PublishRegistrationCreated streams a newly issued registration.
func (p *Producer) PublishRegistrationCreated(ctx context.Context, reg models.Registration) error {
	return p.publish(ctx, p.topics.RegistrationCreated, strconv.FormatInt(reg.RegistrationID, 10), reg)
}

// PublishEventVerified streams an admin verification.
func (p *Producer) PublishEventVerified(ctx context.Context, event models.Event) error {
	return p.publish(ctx, p.topics.EventVerified, strconv.FormatInt(event.ID, 10), event)
}

func (p *Producer) publish(ctx context.Context, topic, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload for %s: %w", topic, err)
	}

	if !p.enabled {
		if p.logger != nil {
			p.logger.Debug("KAFKA", fmt.Sprintf("Publishing disabled, dropping message for %s", topic))
		}
		return nil
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("write to %s: %w", topic, err)
	}
	if p.logger != nil {
		p.logger.Info("KAFKA", fmt.Sprintf("Published %s to %s", key, topic))
	}
	return nil
}

// EnsureTopicsExist creates the producer's topics on the broker when
// they are missing. Safe to call when publishing is disabled.
func (p *Producer) EnsureTopicsExist(brokers []string) error {
	if !p.enabled {
		return nil
	}

	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("resolve controller: %w", err)
	}
	controllerConn, err := kafka.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer controllerConn.Close()

	for _, topic := range []string{p.topics.RegistrationCreated, p.topics.EventVerified} {
		err := controllerConn.CreateTopics(kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
		if err != nil && p.logger != nil {
			p.logger.Warn("KAFKA", fmt.Sprintf("Creating topic %s: %v", topic, err))
		}
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
