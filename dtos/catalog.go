package dtos

// Product is a catalogue product as listed by the backend.
type Product struct {
	ID          int64   `json:"Id"`
	Name        string  `json:"Name"`
	Description string  `json:"Description"`
	Price       float64 `json:"Price"`
	Stock       int     `json:"Stock"`
	Category    string  `json:"Category"`
	Image       string  `json:"Image,omitempty"`
}

// CartLine is one product line in a customer's cart.
type CartLine struct {
	ID         int64    `json:"Id"`
	CustomerID int64    `json:"CustomerId"`
	ProductID  int64    `json:"ProductId"`
	Quantity   int      `json:"Quantity"`
	Product    *Product `json:"Product,omitempty"`
}

// Address is a customer's delivery address.
type Address struct {
	ID         int64  `json:"Id,omitempty"`
	CustomerID int64  `json:"CustomerId"`
	Line1      string `json:"Line1"`
	Line2      string `json:"Line2,omitempty"`
	City       string `json:"City"`
	Postcode   string `json:"Postcode"`
	IsDefault  bool   `json:"IsDefault"`
}
