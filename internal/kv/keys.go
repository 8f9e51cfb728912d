package kv

import "time"

const (
	// Cart dan mirror stok disimpan utuh per key (blob JSON, last-write-wins).
	KeyCart     = "cart"
	KeyProducts = "products"

	// Channel notifikasi perubahan cart/mirror antar view.
	ChannelCartSync = "cart.sync"

	// Dedup event processing di backoffice: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Cache status order: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%d"
)

var (
	TTLDedup       = 48 * time.Hour
	TTLStatusCache = 5 * time.Minute
)
