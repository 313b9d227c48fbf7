package redisx

import "time"

const (
	// Set product id yang kelihatan di sync pass sekarang (TTL pendek, safety net).
	KeyProductsIncoming = "coffee.products:incoming"
	// Set product id yang pernah dibuatkan item lokal (permanen).
	KeyProductsCreated = "coffee.products:created"
	// Set product id yang sedang dijual vendor. Invariant: vendor ⊆ created.
	KeyProductsVendor = "coffee.products:vendor"
	// Hash product id -> product JSON terakhir yang kita lihat.
	KeyProductDetails = "coffee.products:details"

	// Mapping dua arah product <-> local item.
	// product.to.items: field product id -> JSON array of item class ids.
	// item.to.product:  field item class id -> product id.
	KeyProductToItems = "coffee.products:product.to.items"
	KeyItemToProduct  = "coffee.products:item.to.product"

	// Hash player id -> terminal access token (permanen, last write wins).
	KeyPlayerTokens = "coffee.players:tokens"
	// Set player id yang sedang online; diisi oleh session layer game server.
	KeyPlayersOnline = "coffee.players:online"

	// Readiness cache per token: coffee.ready:{token} -> "1"/"0"
	KeyReadiness = "coffee.ready:%s"

	// Order pipeline lists. Producer LPUSH ke requests; external worker RPOP,
	// lalu push tepat satu record ke success atau failure.
	KeyOrderRequests = "coffee.orders:requests"
	KeyOrderSuccess  = "coffee.orders:success"
	KeyOrderFailure  = "coffee.orders:failure"
)

var (
	TTLIncoming  = 10 * time.Minute
	TTLReadiness = time.Hour
)
