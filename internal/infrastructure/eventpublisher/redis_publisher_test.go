package eventpublisher

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/accountpro/bookkeeper/internal/domain"
)

func TestRedisStreamPublisherAddsEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	pub := NewRedisStreamPublisher(client, "bookkeeper:events", 1000)
	event := domain.NewOutboxEvent("evt-1", domain.AggregateTypeVoucher, "v1", domain.EventTypeVoucherCreated,
		domain.VoucherCreatedEvent{VoucherID: "v1", VoucherNumber: 1, Date: "2024-03-01", TotalAmount: "1000.00", LineCount: 2},
		time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))

	if err := pub.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	entries, err := client.XRange(context.Background(), "bookkeeper:events", "-", "+").Result()
	if err != nil {
		t.Fatalf("xrange failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one stream entry, got %d", len(entries))
	}

	values := entries[0].Values
	if values["event_type"] != domain.EventTypeVoucherCreated || values["aggregate_id"] != "v1" {
		t.Fatalf("unexpected entry values %#v", values)
	}
}

func TestLogPublisherNeverFails(t *testing.T) {
	pub := NewLogPublisher(zerolog.Nop())
	if err := pub.Publish(context.Background(), &domain.OutboxEvent{ID: "evt"}); err != nil {
		t.Fatalf("log publisher returned error: %v", err)
	}
}
