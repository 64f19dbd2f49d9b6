package redisx

import "time"

const (
	// Cache of an order's current status: order_status:{order_id}
	KeyOrderStatus = "order_status:%s"

	// Dedup for event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Idempotent placement shortcut: idem:order:place:{external_id} -> order_id
	KeyIdemOrderPlace = "idem:order:place:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
	TTLIdempotency = 24 * time.Hour
)
