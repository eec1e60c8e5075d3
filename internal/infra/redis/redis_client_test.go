//go:build !integration

package redis

import (
	"testing"

	"nyc-subway-trivia/internal/config"
)

func TestClientOptions(t *testing.T) {
	t.Run("host and port", func(t *testing.T) {
		opts, err := clientOptions(&config.RedisConfig{URL: "cache:6379", Password: "pw", DB: 2})
		if err != nil {
			t.Fatalf("clientOptions: %v", err)
		}
		if opts.Addr != "cache:6379" || opts.Password != "pw" || opts.DB != 2 {
			t.Errorf("unexpected options: addr=%s db=%d", opts.Addr, opts.DB)
		}
	})

	t.Run("redis url", func(t *testing.T) {
		opts, err := clientOptions(&config.RedisConfig{URL: "redis://:secret@cache:6380/3"})
		if err != nil {
			t.Fatalf("clientOptions: %v", err)
		}
		if opts.Addr != "cache:6380" || opts.Password != "secret" || opts.DB != 3 {
			t.Errorf("unexpected options: addr=%s db=%d", opts.Addr, opts.DB)
		}
	})

	t.Run("url without credentials takes them from config", func(t *testing.T) {
		opts, err := clientOptions(&config.RedisConfig{URL: "redis://cache:6379", Password: "pw", DB: 1})
		if err != nil {
			t.Fatalf("clientOptions: %v", err)
		}
		if opts.Addr != "cache:6379" || opts.Password != "pw" || opts.DB != 1 {
			t.Errorf("unexpected options: addr=%s db=%d", opts.Addr, opts.DB)
		}
	})

	t.Run("bad scheme is an error", func(t *testing.T) {
		if _, err := clientOptions(&config.RedisConfig{URL: "http://cache:6379"}); err == nil {
			t.Error("expected an error for a non-redis scheme")
		}
	})
}
