package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartView is a cart with its line items joined to product details.
type CartView struct {
	ID         string          `json:"id,omitempty"`
	UserID     string          `json:"user"`
	Items      []LineView      `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CreatedAt  *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time      `json:"updatedAt,omitempty"`
}

// LineView is a line item for display. Product is nil when the referenced
// product no longer exists in the catalog.
type LineView struct {
	ProductID string   `json:"productId"`
	Product   *Product `json:"product"`
	Quantity  int      `json:"quantity"`
	Price     float64  `json:"price"`
}

// Subtotal is the snapshot price times the quantity.
func (l LineView) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Expand joins the cart's items with the given products. Totals always come
// from the stored price snapshots, never from the current catalog price.
func (c *Cart) Expand(products map[primitive.ObjectID]Product) *CartView {
	view := &CartView{
		UserID:     c.UserID,
		Items:      make([]LineView, 0, len(c.Items)),
		TotalPrice: decimal.Zero,
	}
	if !c.ID.IsZero() {
		view.ID = c.ID.Hex()
	}
	if !c.CreatedAt.IsZero() {
		createdAt := c.CreatedAt
		view.CreatedAt = &createdAt
	}
	if !c.UpdatedAt.IsZero() {
		updatedAt := c.UpdatedAt
		view.UpdatedAt = &updatedAt
	}

	for _, item := range c.Items {
		line := LineView{
			ProductID: item.ProductID.Hex(),
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
		if p, ok := products[item.ProductID]; ok {
			line.Product = &p
		}
		view.Items = append(view.Items, line)
		view.TotalItems += item.Quantity
		view.TotalPrice = view.TotalPrice.Add(line.Subtotal())
	}

	return view
}
