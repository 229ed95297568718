package store

import (
	"context"
	"testing"
	"time"
)

func TestOpenPG_ParentAlreadyCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{PG: PGConfig{
		// 127.0.0.1:1 is a closed port; the pool is lazy so Open succeeds and ping fails
		URL:            "postgres://u:p@127.0.0.1:1/db?sslmode=disable",
		ConnectRetries: 3,
		PingTimeout:    100 * time.Millisecond,
	}}

	start := time.Now()
	txr, err := openPG(ctx, cfg, &Store{})
	if err == nil || txr != nil {
		t.Fatalf("expected error and nil runner, got %v %T", err, txr)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("canceled parent should fail fast")
	}
}

func TestOpenPG_GivesUpAfterRetries(t *testing.T) {
	t.Parallel()

	cfg := Config{PG: PGConfig{
		URL:            "postgres://u:p@127.0.0.1:1/db?sslmode=disable",
		ConnectRetries: 2,
		PingTimeout:    100 * time.Millisecond,
	}}

	_, err := openPG(context.Background(), cfg, &Store{})
	if err == nil {
		t.Fatalf("expected ping failure")
	}
}
