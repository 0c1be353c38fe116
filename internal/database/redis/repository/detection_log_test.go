package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"botwatch/internal/core"
	"botwatch/internal/dto"
	"botwatch/internal/telemetry"

	"github.com/redis/go-redis/v9"
)

func TestDecodeRows(t *testing.T) {
	record := dto.DetectionRecord{
		IP:        "9.9.9.9",
		UserAgent: "Claude-User",
		Keywords:  `["bot","detection","automation","claude"]`,
		BotType:   core.BotClaude,
		Detected:  true,
	}
	payload, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	rows, err := decodeRows([]string{string(payload)})
	if err != nil {
		t.Fatalf("decodeRows() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if rows[0]["Bot Type"] != "Claude" || rows[0]["Detected"] != "true" || rows[0]["Keywords"] != record.Keywords {
		t.Errorf("row = %#v", rows[0])
	}

	empty, err := decodeRows(nil)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("decodeRows(nil) = %#v, %v", empty, err)
	}

	if _, err := decodeRows([]string{"not json"}); err == nil {
		t.Error("decodeRows() should reject malformed items")
	}
}

func TestUnreachableRedisSurfacesErrors(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	trace, _, _ := telemetry.NewTrace(nil)
	repo := NewDetectionLogRepositoryWithClient(trace, rdb, "botwatch:test")
	ctx := context.Background()

	if err := repo.Append(ctx, dto.DetectionRecord{IP: "1.1.1.1"}); err == nil {
		t.Error("Append() should fail without a server")
	}
	if _, err := repo.ReadAll(ctx); err == nil {
		t.Error("ReadAll() should fail without a server")
	}
	if _, err := repo.Count(ctx); err == nil {
		t.Error("Count() should fail without a server")
	}
	if got := repo.Describe(); got != "redis:botwatch:test" {
		t.Errorf("Describe() = %q", got)
	}
}
