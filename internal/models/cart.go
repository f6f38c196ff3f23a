package models

// Variation is an optional product option selected in the cart (e.g. a
// hamper size). When present its price supersedes the base product price.
type Variation struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// CartItem is one client-owned cart line. Carts are ephemeral and are passed
// into checkout explicitly; the server never keeps cart state between requests.
type CartItem struct {
	ProductID string     `json:"product_id"`
	Name      string     `json:"name"`
	Price     int64      `json:"price"`
	Quantity  int        `json:"quantity" validate:"gte=1"`
	Category  string     `json:"category"`
	Thumbnail string     `json:"thumbnail,omitempty"`
	Variation *Variation `json:"variation,omitempty"`
}

// UnitPrice resolves the variation-or-base price once so downstream code
// never branches on whether a variation was selected.
func (i CartItem) UnitPrice() int64 {
	if i.Variation != nil {
		return i.Variation.Price
	}
	return i.Price
}

// Snapshot freezes the cart line into an order line item. The variation name,
// when present, is folded into the item name so the snapshot is self-describing.
func (i CartItem) Snapshot() OrderItem {
	name := i.Name
	if i.Variation != nil && i.Variation.Name != "" {
		name = i.Name + " (" + i.Variation.Name + ")"
	}
	return OrderItem{
		ProductID: i.ProductID,
		Name:      name,
		Category:  i.Category,
		UnitPrice: i.UnitPrice(),
		Quantity:  i.Quantity,
		Thumbnail: i.Thumbnail,
	}
}

// Cart is the aggregate handed to the checkout orchestrator.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Subtotal is the pre-discount total in whole rupees.
func (c Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.UnitPrice() * int64(item.Quantity)
	}
	return total
}

// ItemCount is the sum of line quantities.
func (c Cart) ItemCount() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Snapshot freezes every line for persistence with an order.
func (c Cart) Snapshot() []OrderItem {
	items := make([]OrderItem, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, item.Snapshot())
	}
	return items
}

// CustomerForm is the shipping form collected at checkout. It is validated
// before any network call is made.
type CustomerForm struct {
	Name    string `json:"name" validate:"required,max=100"`
	Phone   string `json:"phone" validate:"required,len=10,numeric"`
	Address string `json:"address" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
}
