package terminal

// Wire shapes dari Terminal API. Semua list response dibungkus {"data": [...]}.

type Variant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"` // minor units (cents)
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Variants    []Variant `json:"variants"`
}

type ProductResponse struct {
	Data []Product `json:"data"`
}

type Card struct {
	ID string `json:"id"`
}

type CardResponse struct {
	Data []Card `json:"data"`
}

type Address struct {
	ID string `json:"id"`
}

type AddressResponse struct {
	Data []Address `json:"data"`
}

type Profile struct {
	User struct {
		ID string `json:"id"`
	} `json:"user"`
}

type ProfileResponse struct {
	Data Profile `json:"data"`
}

// OrderRequest is the body the fulfilment worker POSTs to /order.
// The producer side only serializes it into the job payload.
type OrderRequest struct {
	CardID    string         `json:"cardID"`
	AddressID string         `json:"addressID"`
	Variants  map[string]int `json:"variants"` // variant id -> qty
}
