package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexander-kolodka/crestic-docs/internal/config"
	"github.com/alexander-kolodka/crestic-docs/internal/logger"
	"github.com/alicebob/miniredis/v2"
)

func testOptions(addr string) Options {
	return Options{
		Addr:           addr,
		DialTimeout:    100 * time.Millisecond,
		ReadTimeout:    100 * time.Millisecond,
		WriteTimeout:   100 * time.Millisecond,
		PoolSize:       2,
		ConnectTimeout: 300 * time.Millisecond,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), testOptions(mr.Addr()), logger.NewNop())
	if err != nil {
		t.Fatalf("Connect() = %v", err)
	}
	defer func() { _ = client.Close() }()

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Errorf("client should be usable: %v", err)
	}
}

func TestConnectTimeout(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	start := time.Now()
	_, err := Connect(context.Background(), testOptions(addr), logger.NewNop())
	if err == nil {
		t.Fatal("Connect() should fail against a closed server")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Connect() took %v, should give up after ConnectTimeout", elapsed)
	}
}

func TestConnectCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := testOptions("127.0.0.1:1")
	opts.ConnectTimeout = time.Minute
	if _, err := Connect(ctx, opts, logger.NewNop()); err == nil {
		t.Fatal("Connect() should fail on a canceled context")
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := (Options{}).Validate(); !errors.Is(err, ErrDisabled) {
		t.Errorf("Validate() without address = %v, want ErrDisabled", err)
	}

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{name: "connect timeout", mutate: func(o *Options) { o.ConnectTimeout = 0 }},
		{name: "retry interval", mutate: func(o *Options) { o.RetryInterval = 0 }},
		{name: "max wait", mutate: func(o *Options) { o.MaxWait = -1 }},
		{name: "ping timeout", mutate: func(o *Options) { o.PingTimeout = 0 }},
		{name: "warn threshold", mutate: func(o *Options) { o.WarnThreshold = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions("localhost:6379")
			tt.mutate(&opts)
			if err := opts.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		RedisAddr:           "redis:6379",
		RedisDB:             2,
		RedisPoolSize:       7,
		RedisConnectTimeout: time.Second,
	}
	opts := OptionsFromConfig(cfg)
	if opts.Addr != "redis:6379" || opts.DB != 2 || opts.PoolSize != 7 || opts.ConnectTimeout != time.Second {
		t.Errorf("OptionsFromConfig() = %+v", opts)
	}
}

func TestNextWait(t *testing.T) {
	if got := nextWait(2*time.Second, 10*time.Second); got != 4*time.Second {
		t.Errorf("nextWait() = %v, want 4s", got)
	}
	if got := nextWait(8*time.Second, 10*time.Second); got != 10*time.Second {
		t.Errorf("nextWait() = %v, want cap 10s", got)
	}
}
