package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"vodpress/internal/config"
)

// Publisher delivers job completion messages to the downstream consumer.
type Publisher interface {
	PublishCompletion(ctx context.Context, baseName string) error
	Close() error
}

// NewPublisher builds a publisher backed by redis when notifications are
// enabled. Otherwise a noop implementation is returned.
func NewPublisher(cfg config.Notify) Publisher {
	if !cfg.Enabled || strings.TrimSpace(cfg.RedisAddr) == "" {
		return noopPublisher{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return &redisPublisher{
		client:  client,
		channel: cfg.Topic,
	}
}

type redisPublisher struct {
	client  *redis.Client
	channel string
}

func (p *redisPublisher) PublishCompletion(ctx context.Context, baseName string) error {
	body, err := completionPayload(baseName)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}
	return nil
}

func (p *redisPublisher) Close() error {
	return p.client.Close()
}

// completionPayload renders the UTF-8 JSON message consumed downstream.
func completionPayload(baseName string) ([]byte, error) {
	msg := struct {
		Message string `json:"message"`
	}{
		Message: fmt.Sprintf("Processing completed for %s", baseName),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode notification: %w", err)
	}
	return body, nil
}

type noopPublisher struct{}

func (noopPublisher) PublishCompletion(context.Context, string) error { return nil }
func (noopPublisher) Close() error                                    { return nil }
