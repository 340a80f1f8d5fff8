package repository

import (
	"context"
	"errors"

	"github.com/CampiteliRafael/cartEcommerce/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	cartsCollection    = "carts"
	productsCollection = "products"
	usersCollection    = "users"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
)

// CartRepository defines the interface for cart data operations.
// Every mutation is a single atomic document update and returns the cart as
// it is after the update.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	// AddItem increments the line for item.ProductID by item.Quantity, or
	// appends item when the cart has no such line. The cart is created if missing.
	AddItem(ctx context.Context, userID string, item domain.CartItem) (*domain.Cart, error)
	// SetItemQuantity sets an existing line to quantity. Returns ErrItemNotFound
	// when either the cart or the line is missing.
	SetItemQuantity(ctx context.Context, userID string, productID primitive.ObjectID, quantity int) (*domain.Cart, error)
	// RemoveItem pulls an existing line. Returns ErrItemNotFound when either the
	// cart or the line is missing.
	RemoveItem(ctx context.Context, userID string, productID primitive.ObjectID) (*domain.Cart, error)
	// ClearItems empties the cart without deleting it.
	ClearItems(ctx context.Context, userID string) (*domain.Cart, error)
}

// ProductRepository is the read side of the catalog plus the seeding hook.
type ProductRepository interface {
	GetProduct(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Product, error)
	ReplaceAll(ctx context.Context, products []domain.Product) ([]*domain.Product, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}
