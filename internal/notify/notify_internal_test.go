package notify

import (
	"context"
	"testing"

	"vodpress/internal/config"
)

func TestCompletionPayloadShape(t *testing.T) {
	body, err := completionPayload("movie")
	if err != nil {
		t.Fatalf("completionPayload returned error: %v", err)
	}
	want := `{"message":"Processing completed for movie"}`
	if string(body) != want {
		t.Fatalf("unexpected payload %s, want %s", body, want)
	}
}

func TestNewPublisherReturnsNoopWhenDisabled(t *testing.T) {
	pub := NewPublisher(config.Notify{Enabled: false, RedisAddr: "127.0.0.1:6379"})
	if _, ok := pub.(noopPublisher); !ok {
		t.Fatalf("expected noop publisher, got %T", pub)
	}
	if err := pub.PublishCompletion(context.Background(), "movie"); err != nil {
		t.Fatalf("noop publish should not error: %v", err)
	}
}

func TestNewPublisherReturnsNoopWithoutAddr(t *testing.T) {
	pub := NewPublisher(config.Notify{Enabled: true, RedisAddr: "  "})
	if _, ok := pub.(noopPublisher); !ok {
		t.Fatalf("expected noop publisher, got %T", pub)
	}
}
