package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/CampiteliRafael/cartEcommerce/pkg/logger"
	"github.com/shopspring/decimal"
)

const DefaultPollInterval = 30 * time.Second

// CartAPI is the part of Client the mirror talks to.
type CartAPI interface {
	GetCart(ctx context.Context) (*Cart, error)
	AddItem(ctx context.Context, productID string, quantity int) (*Cart, error)
	UpdateItem(ctx context.Context, productID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, productID string) (*Cart, error)
	ClearCart(ctx context.Context) (*Cart, error)
}

// Mirror keeps a local copy of the user's cart. Mutations are applied locally
// first, then replaced by the server's answer or rolled back when the call
// fails. The copy is also refreshed by polling.
//
// version counts local writes; a server answer is only applied when no other
// write happened since the request was sent, so a slow response never
// overwrites newer state.
type Mirror struct {
	api CartAPI
	log *logger.Logger

	mu      sync.RWMutex
	cart    *Cart
	version uint64
}

func NewMirror(api CartAPI, log *logger.Logger) *Mirror {
	if log == nil {
		log = logger.NewNop()
	}
	return &Mirror{api: api, log: log}
}

// Snapshot returns a copy of the local cart, or nil before the first load.
func (m *Mirror) Snapshot() *Cart {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cart.clone()
}

func (m *Mirror) TotalItems() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cart == nil {
		return 0
	}
	return m.cart.TotalItems
}

func (m *Mirror) TotalPrice() decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cart == nil {
		return decimal.Zero
	}
	return m.cart.TotalPrice
}

// Refresh replaces the local copy with the server's cart. A 401 drops the
// local copy since the session is gone.
func (m *Mirror) Refresh(ctx context.Context) error {
	m.mu.RLock()
	version := m.version
	m.mu.RUnlock()

	cart, err := m.api.GetCart(ctx)
	if err != nil {
		if IsStatus(err, http.StatusUnauthorized) {
			m.mu.Lock()
			m.cart = nil
			m.version++
			m.mu.Unlock()
		}
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.version == version {
		m.cart = cart
		m.version++
	}
	return nil
}

// Run refreshes right away and then every interval until ctx is done.
func (m *Mirror) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	if err := m.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
		m.log.WithError(err).Warn("cart refresh failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := m.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
				m.log.WithError(err).Warn("cart refresh failed")
			}
		}
	}
}

// Add merges quantity into the line for product, creating it when missing.
func (m *Mirror) Add(ctx context.Context, product Product, quantity int) error {
	return m.mutate(ctx,
		func(c *Cart) {
			if i := c.indexOf(product.ID); i >= 0 {
				c.Items[i].Quantity += quantity
				return
			}
			p := product
			c.Items = append(c.Items, CartItem{
				ProductID: product.ID,
				Product:   &p,
				Quantity:  quantity,
				Price:     product.Price,
			})
		},
		func(ctx context.Context) (*Cart, error) {
			return m.api.AddItem(ctx, product.ID, quantity)
		},
	)
}

// Update sets the line quantity. A quantity below one removes the line.
func (m *Mirror) Update(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return m.Remove(ctx, productID)
	}
	return m.mutate(ctx,
		func(c *Cart) {
			if i := c.indexOf(productID); i >= 0 {
				c.Items[i].Quantity = quantity
			}
		},
		func(ctx context.Context) (*Cart, error) {
			return m.api.UpdateItem(ctx, productID, quantity)
		},
	)
}

func (m *Mirror) Remove(ctx context.Context, productID string) error {
	return m.mutate(ctx,
		func(c *Cart) {
			if i := c.indexOf(productID); i >= 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			}
		},
		func(ctx context.Context) (*Cart, error) {
			return m.api.RemoveItem(ctx, productID)
		},
	)
}

func (m *Mirror) Clear(ctx context.Context) error {
	return m.mutate(ctx,
		func(c *Cart) { c.Items = []CartItem{} },
		func(ctx context.Context) (*Cart, error) { return m.api.ClearCart(ctx) },
	)
}

func (m *Mirror) mutate(ctx context.Context, local func(*Cart), remote func(context.Context) (*Cart, error)) error {
	m.mu.Lock()
	prev := m.cart
	next := prev.clone()
	if next == nil {
		next = &Cart{Items: []CartItem{}}
	}
	local(next)
	next.recalc()
	m.cart = next
	m.version++
	version := m.version
	m.mu.Unlock()

	cart, err := remote(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.version != version {
		// a newer write owns the local copy now
		return err
	}
	if err != nil {
		m.cart = prev
		m.version++
		return err
	}
	m.cart = cart
	m.version++
	return nil
}
