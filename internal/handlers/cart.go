package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/maplewick/storefront/internal/cart"
)

type cartResponse struct {
	Items    []cart.Item `json:"items"`
	Subtotal float64     `json:"subtotal"`
}

func cartPayload(c *cart.Cart) cartResponse {
	return cartResponse{Items: c.Items(), Subtotal: c.Subtotal()}
}

// Cart returns the visitor's cart contents.
func (h *Handlers) Cart(w http.ResponseWriter, r *http.Request) {
	c := h.carts.Get(h.visitorID(w, r))
	h.respondJSON(w, r, http.StatusOK, cartPayload(c))
}

type addToCartRequest struct {
	ProductID string            `json:"productId"`
	Quantity  int               `json:"quantity"`
	Options   map[string]string `json:"options"`
}

// AddToCart adds a catalog product to the visitor's cart. The product is
// looked up server-side so the client cannot set its own prices.
func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		h.respondError(w, r, http.StatusBadRequest, "productId is required")
		return
	}

	products, err := h.catalog.Products(r.Context())
	if err != nil {
		h.respondUpstreamError(w, r, err)
		return
	}

	for _, product := range products {
		if product.ID != req.ProductID {
			continue
		}
		if !product.InStock {
			h.respondError(w, r, http.StatusConflict, "This item is currently out of stock.")
			return
		}

		c := h.carts.Get(h.visitorID(w, r))
		c.Add(cart.AddInput{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  req.Quantity,
			SKU:       product.SKU,
			InStock:   product.InStock,
			Options:   req.Options,
		})
		h.respondJSON(w, r, http.StatusCreated, cartPayload(c))
		return
	}

	h.respondError(w, r, http.StatusNotFound, "product not found")
}

type updateCartLineRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartLine changes the quantity of a cart line.
func (h *Handlers) UpdateCartLine(w http.ResponseWriter, r *http.Request) {
	var req updateCartLineRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	c := h.carts.Get(h.visitorID(w, r))
	if err := c.UpdateQuantity(mux.Vars(r)["lineID"], req.Quantity); err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			h.respondError(w, r, http.StatusNotFound, "cart line not found")
			return
		}
		h.respondError(w, r, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	h.respondJSON(w, r, http.StatusOK, cartPayload(c))
}

// RemoveCartLine deletes a cart line.
func (h *Handlers) RemoveCartLine(w http.ResponseWriter, r *http.Request) {
	c := h.carts.Get(h.visitorID(w, r))
	if err := c.Remove(mux.Vars(r)["lineID"]); err != nil {
		h.respondError(w, r, http.StatusNotFound, "cart line not found")
		return
	}
	h.respondJSON(w, r, http.StatusOK, cartPayload(c))
}

// ClearCart empties the visitor's cart.
func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	c := h.carts.Get(h.visitorID(w, r))
	c.Clear()
	h.respondJSON(w, r, http.StatusOK, cartPayload(c))
}
