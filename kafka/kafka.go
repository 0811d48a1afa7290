package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"showcase/config"
	"showcase/logger"
	"showcase/models"
)

// Publisher writes showcase events to the events topic.
type Publisher struct {
	w *kafka.Writer
}

func NewPublisher(cfg config.KafkaConfig) *Publisher {
	logger.Info("kafka publisher configured", logger.FieldKV("topic", cfg.EventsTopic), logger.FieldKV("broker", cfg.Broker))
	return &Publisher{w: &kafka.Writer{
		Addr:         kafka.TCP(cfg.Broker),
		Topic:        cfg.EventsTopic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
	}}
}

// Publish writes ev keyed by session so one viewer's events stay ordered.
func (p *Publisher) Publish(ctx context.Context, ev models.ShowcaseEvent) error {
	msg, err := encodeEvent(ev)
	if err != nil {
		return err
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error { return p.w.Close() }

func encodeEvent(ev models.ShowcaseEvent) (kafka.Message, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal event: %w", err)
	}
	return kafka.Message{Key: []byte(ev.SessionID), Value: b}, nil
}

// Reloader is notified when a showcase's catalog changed upstream.
type Reloader interface {
	Reload(ctx context.Context, showcase string) error
}

// CatalogReader consumes catalog change notifications until ctx is cancelled.
func CatalogReader(ctx context.Context, cfg config.KafkaConfig, r Reloader) {
	logger.Info("starting kafka catalog reader", logger.FieldKV("topic", cfg.CatalogTopic))
	kr := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Broker},
		Topic:    cfg.CatalogTopic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 1e6,
	})
	defer func() {
		if err := kr.Close(); err != nil {
			logger.Error("kafka reader close failed", err)
		}
	}()

	for {
		m, err := kr.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				logger.Info("kafka catalog reader stopped")
				return
			}
			logger.Error("kafka read error", err)
			select {
			case <-time.After(time.Second):
				continue
			case <-ctx.Done():
				return
			}
		}
		logger.Debug("catalog change read", logger.FieldKV("partition", m.Partition), logger.FieldKV("offset", m.Offset))

		change, err := decodeCatalogChange(m.Value)
		if err != nil {
			logger.Error("invalid catalog change", err, logger.FieldKV("offset", m.Offset))
			continue
		}
		if err := r.Reload(ctx, change.Showcase); err != nil {
			logger.Error("catalog reload failed", err, logger.FieldKV("showcase", change.Showcase))
		}
	}
}

func decodeCatalogChange(b []byte) (models.CatalogChange, error) {
	var c models.CatalogChange
	if err := json.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("unmarshal catalog change: %w", err)
	}
	if c.Showcase == "" {
		return c, errors.New("catalog change without showcase")
	}
	return c, nil
}
