package http

import (
	"context"
	"sync"
	"time"

	"github.com/CampiteliRafael/cartEcommerce/internal/auth"
	"github.com/CampiteliRafael/cartEcommerce/internal/domain"
	"github.com/CampiteliRafael/cartEcommerce/internal/service"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type cartCall struct {
	op        string
	userID    string
	productID string
	quantity  int
}

type mockCartEngine struct {
	m     sync.RWMutex
	calls []cartCall
	err   error
}

func (m *mockCartEngine) record(c cartCall) (*domain.CartView, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.calls = append(m.calls, c)
	if m.err != nil {
		return nil, m.err
	}
	view := &domain.CartView{UserID: c.userID, Items: []domain.LineView{}, TotalPrice: decimal.Zero}
	if c.productID != "" && c.quantity > 0 {
		view.Items = append(view.Items, domain.LineView{ProductID: c.productID, Quantity: c.quantity, Price: 10})
		view.TotalItems = c.quantity
		view.TotalPrice = decimal.NewFromInt(int64(10 * c.quantity))
	}
	return view, nil
}

func (m *mockCartEngine) GetCart(_ context.Context, userID string) (*domain.CartView, error) {
	return m.record(cartCall{op: "get", userID: userID})
}

func (m *mockCartEngine) AddItem(_ context.Context, userID, productID string, quantity int) (*domain.CartView, error) {
	return m.record(cartCall{op: "add", userID: userID, productID: productID, quantity: quantity})
}

func (m *mockCartEngine) UpdateItemQuantity(_ context.Context, userID, productID string, quantity int) (*domain.CartView, error) {
	return m.record(cartCall{op: "update", userID: userID, productID: productID, quantity: quantity})
}

func (m *mockCartEngine) RemoveItem(_ context.Context, userID, productID string) (*domain.CartView, error) {
	return m.record(cartCall{op: "remove", userID: userID, productID: productID})
}

func (m *mockCartEngine) ClearCart(_ context.Context, userID string) (*domain.CartView, error) {
	return m.record(cartCall{op: "clear", userID: userID})
}

func (m *mockCartEngine) lastCall() (cartCall, bool) {
	m.m.RLock()
	defer m.m.RUnlock()
	if len(m.calls) == 0 {
		return cartCall{}, false
	}
	return m.calls[len(m.calls)-1], true
}

func (m *mockCartEngine) callCount() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return len(m.calls)
}

type mockCatalog struct {
	products []*domain.Product
	err      error
}

func (m *mockCatalog) ListProducts(context.Context) ([]*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *mockCatalog) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.products {
		if p.ID.Hex() == id {
			return p, nil
		}
	}
	return nil, service.ErrProductNotFound
}

type mockUsers struct {
	m         sync.RWMutex
	user      *domain.User
	tokens    *auth.TokenManager
	err       error
	registers []service.RegisterInput
}

func (m *mockUsers) Register(_ context.Context, in service.RegisterInput) (*domain.User, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.registers = append(m.registers, in)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.User{
		ID:           primitive.NewObjectID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: "$2a$10$secret",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

func (m *mockUsers) Login(_ context.Context, email, password string) (*service.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil || email != m.user.Email || password != "Secret@123" {
		return nil, service.ErrInvalidCredentials
	}
	token, exp, err := m.tokens.Sign(m.user)
	if err != nil {
		return nil, err
	}
	return &service.Session{Token: token, ExpiresAt: exp, User: m.user}, nil
}

func (m *mockUsers) Me(_ context.Context, userID string) (*domain.User, error) {
	if m.user == nil || m.user.ID.Hex() != userID {
		return nil, service.ErrUserNotFound
	}
	return m.user, nil
}
