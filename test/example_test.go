package test

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	tokenrot "github.com/tokenrot/tokenrot"
)

// ExampleNew demonstrates manager construction with production-style
// dependencies.
func ExampleNew() {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})

	manager, err := tokenrot.New().
		WithRedis(rdb).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		log.Fatal(err)
	}
	defer manager.Close()
}

// ExampleManager_Rotate shows a typical rotation call with structured
// error handling. ErrTokenReuse means the family has already been
// revoked; the caller should force re-authentication.
func ExampleManager_Rotate() {
	var manager *tokenrot.Manager
	const presented = "token-from-client"

	rotated, err := manager.Rotate(context.Background(), presented)
	switch {
	case errors.Is(err, tokenrot.ErrTokenReuse):
		fmt.Println("stolen or replayed token; session family revoked")
	case errors.Is(err, tokenrot.ErrInvalidToken):
		fmt.Println("unknown or expired token")
	case errors.Is(err, tokenrot.ErrStoreUnavailable):
		fmt.Println("retry later; do not treat as auth failure")
	case err == nil:
		fmt.Println("new token:", rotated.RefreshToken)
	}
}

// ExampleManager_ListSessions shows rendering a user's active devices.
func ExampleManager_ListSessions() {
	var manager *tokenrot.Manager

	sessions, err := manager.ListSessions(context.Background(), "user-1")
	if err != nil {
		log.Fatal(err)
	}
	for _, s := range sessions {
		fmt.Printf("%s last used %s\n", s.DeviceInfo, s.LastUsedAt)
	}
}
