// Package cart holds per-visitor shopping carts.
package cart

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrLineNotFound = errors.New("cart line not found")

// Item is one cart line. LineID is distinct from ProductID so the same
// product can sit in the cart twice with different options.
type Item struct {
	LineID    string            `json:"lineId"`
	ProductID string            `json:"productId"`
	Name      string            `json:"name"`
	Price     float64           `json:"price"`
	Quantity  int               `json:"quantity"`
	SKU       string            `json:"sku,omitempty"`
	InStock   bool              `json:"inStock"`
	Options   map[string]string `json:"options,omitempty"`
}

// Cart is a single visitor's cart. Lines are only mutated through
// UpdateQuantity and Remove; Items returns copies.
type Cart struct {
	mu    sync.Mutex
	items []Item
}

type AddInput struct {
	ProductID string
	Name      string
	Price     float64
	Quantity  int
	SKU       string
	InStock   bool
	Options   map[string]string
}

func (c *Cart) Add(input AddInput) Item {
	quantity := input.Quantity
	if quantity < 1 {
		quantity = 1
	}

	item := Item{
		LineID:    uuid.NewString(),
		ProductID: input.ProductID,
		Name:      input.Name,
		Price:     input.Price,
		Quantity:  quantity,
		SKU:       input.SKU,
		InStock:   input.InStock,
		Options:   cloneOptions(input.Options),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
	return item
}

func (c *Cart) UpdateQuantity(lineID string, quantity int) error {
	if quantity < 1 {
		return errors.New("quantity must be at least 1")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].LineID == lineID {
			c.items[i].Quantity = quantity
			return nil
		}
	}
	return ErrLineNotFound
}

func (c *Cart) Remove(lineID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].LineID == lineID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]Item, len(c.items))
	for i, item := range c.items {
		items[i] = item
		items[i].Options = cloneOptions(item.Options)
	}
	return items
}

func (c *Cart) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var subtotal float64
	for _, item := range c.items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return subtotal
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

func cloneOptions(options map[string]string) map[string]string {
	if options == nil {
		return nil
	}
	cloned := make(map[string]string, len(options))
	for k, v := range options {
		cloned[k] = v
	}
	return cloned
}
