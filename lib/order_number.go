package lib

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateOrderNumber generates an order number in the format:
// <prefix>-<unix timestamp>-<3 random digits>, e.g. BTC-1735689600-042.
// Uniqueness is best-effort; the unique index on orders.order_number turns a
// collision into a retryable conflict.
func GenerateOrderNumber(prefix string) string {
	// Use a local rand.Source + rand.Rand for thread safety
	src := rand.NewSource(time.Now().UnixNano())
	r := rand.New(src)

	return fmt.Sprintf("%s-%d-%03d", prefix, time.Now().Unix(), r.Intn(1000))
}
