package redis

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"
)

func TestCache_PrefixIsNormalized(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	defer func() { _ = rdb.Close() }()

	c := New(rdb, WithPrefix(" reels: "))
	if got := c.key("token"); got != "reels:token" {
		t.Fatalf("expected reels:token, got %q", got)
	}

	plain := New(rdb)
	if got := plain.key("token"); got != "token" {
		t.Fatalf("expected no prefix, got %q", got)
	}
}

func TestOpen_RequiresAddr(t *testing.T) {
	if _, _, err := Open(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error without addr")
	}
}
