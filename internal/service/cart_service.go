package service

import (
	"context"
	"errors"
	"time"

	"github.com/CampiteliRafael/cartEcommerce/internal/cache"
	"github.com/CampiteliRafael/cartEcommerce/internal/domain"
	"github.com/CampiteliRafael/cartEcommerce/internal/events"
	"github.com/CampiteliRafael/cartEcommerce/internal/metrics"
	"github.com/CampiteliRafael/cartEcommerce/internal/repository"
	"github.com/CampiteliRafael/cartEcommerce/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"
)

const sideEffectTimeout = 2 * time.Second

// CartService is the only writer of cart documents. Every method returns the
// cart expanded with product details.
type CartService struct {
	carts     repository.CartRepository
	products  repository.ProductRepository
	cache     cache.CartCache
	publisher events.Publisher
	log       *logger.Logger
	metrics   *metrics.Metrics
	sfg       singleflight.Group // Prevents cache stampede
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, cache cache.CartCache, opts ...Option) *CartService {
	o := buildOptions(opts)
	return &CartService{
		carts:     carts,
		products:  products,
		cache:     cache,
		publisher: o.publisher,
		log:       o.log,
		metrics:   o.metrics,
	}
}

// GetCart never fails for a user without a cart; it returns an empty one.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.CartView, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		s.record("get_cart", err)
		return nil, err
	}

	view, err := s.expand(ctx, cart)
	s.record("get_cart", err)
	return view, err
}

func (s *CartService) loadCart(ctx context.Context, userID string) (*domain.Cart, error) {
	// one caller giving up must not fail the others sharing the flight
	flightCtx := context.WithoutCancel(ctx)

	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cart, err := s.cache.Get(flightCtx, userID)
		if err == nil {
			s.metrics.RecordCacheLookup("hit")
			return cart, nil
		}

		if errors.Is(err, cache.ErrCacheMiss) {
			s.metrics.RecordCacheLookup("miss")
		} else {
			s.metrics.RecordCacheLookup("error")
			s.log.WithContext(ctx).WithError(err).Warn("cache get failed")
		}

		cart, err = s.carts.GetCart(flightCtx, userID)
		if errors.Is(err, repository.ErrCartNotFound) {
			return domain.EmptyCart(userID), nil
		}
		if err != nil {
			return nil, internalError("failed to load cart", err)
		}

		// Set keeps a newer cart written by a concurrent mutation
		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
			defer cancel()
			if errSet := s.cache.Set(setCtx, userID, cart); errSet != nil {
				s.log.WithError(errSet).WithField("user_id", userID).Warn("cache set failed")
			}
		}()

		return cart, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem adds quantity units of productID, merging into an existing line.
// The line keeps the price it was first added at.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.CartView, error) {
	view, err := s.addItem(ctx, userID, productID, quantity)
	s.record("add_item", err)
	return view, err
}

func (s *CartService) addItem(ctx context.Context, userID, productID string, quantity int) (*domain.CartView, error) {
	if quantity < 1 {
		return nil, validationError("quantity must be at least 1")
	}

	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	product, err := s.products.GetProduct(ctx, pid)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, internalError("failed to look up product", err)
	}

	cart, err := s.carts.AddItem(ctx, userID, domain.CartItem{
		ProductID: pid,
		Quantity:  quantity,
		Price:     product.Price,
	})
	if err != nil {
		return nil, internalError("failed to add item", err)
	}

	line, _ := cart.Item(pid)
	s.afterMutation(ctx, cart, events.NewCartEvent(events.ItemAdded, userID, productID, line.Quantity))

	return s.expand(ctx, cart)
}

// UpdateItemQuantity sets the line to exactly quantity. A quantity of zero or
// less removes the line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.CartView, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	view, err := s.updateItemQuantity(ctx, userID, productID, quantity)
	s.record("update_item", err)
	return view, err
}

func (s *CartService) updateItemQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.CartView, error) {
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, ErrItemNotInCart
	}

	cart, err := s.carts.SetItemQuantity(ctx, userID, pid, quantity)
	if errors.Is(err, repository.ErrItemNotFound) {
		return nil, ErrItemNotInCart
	}
	if err != nil {
		return nil, internalError("failed to update item", err)
	}

	s.afterMutation(ctx, cart, events.NewCartEvent(events.ItemUpdated, userID, productID, quantity))

	return s.expand(ctx, cart)
}

// RemoveItem drops the line. A missing cart and a missing line are both
// reported as ErrItemNotInCart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.CartView, error) {
	view, err := s.removeItem(ctx, userID, productID)
	s.record("remove_item", err)
	return view, err
}

func (s *CartService) removeItem(ctx context.Context, userID, productID string) (*domain.CartView, error) {
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, ErrItemNotInCart
	}

	cart, err := s.carts.RemoveItem(ctx, userID, pid)
	if errors.Is(err, repository.ErrItemNotFound) {
		return nil, ErrItemNotInCart
	}
	if err != nil {
		return nil, internalError("failed to remove item", err)
	}

	s.afterMutation(ctx, cart, events.NewCartEvent(events.ItemRemoved, userID, productID, 0))

	return s.expand(ctx, cart)
}

// ClearCart empties the cart but keeps the document.
func (s *CartService) ClearCart(ctx context.Context, userID string) (*domain.CartView, error) {
	view, err := s.clearCart(ctx, userID)
	s.record("clear_cart", err)
	return view, err
}

func (s *CartService) clearCart(ctx context.Context, userID string) (*domain.CartView, error) {
	cart, err := s.carts.ClearItems(ctx, userID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return domain.EmptyCart(userID).Expand(nil), nil
	}
	if err != nil {
		return nil, internalError("failed to clear cart", err)
	}

	s.afterMutation(ctx, cart, events.NewCartEvent(events.CartCleared, userID, "", 0))

	return s.expand(ctx, cart)
}

func (s *CartService) expand(ctx context.Context, cart *domain.Cart) (*domain.CartView, error) {
	ids := cart.ProductIDs()
	if len(ids) == 0 {
		return cart.Expand(nil), nil
	}

	found, err := s.products.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, internalError("failed to load cart products", err)
	}

	byID := make(map[primitive.ObjectID]domain.Product, len(found))
	for _, p := range found {
		byID[p.ID] = *p
	}
	return cart.Expand(byID), nil
}

// afterMutation refreshes the cached cart and publishes the event. Neither
// step can fail the operation; the write is already committed.
func (s *CartService) afterMutation(ctx context.Context, cart *domain.Cart, event events.CartEvent) {
	entry := s.log.WithContext(ctx).WithField("user_id", event.UserID)

	// readers arriving from now on must not join a flight that read the old cart
	s.sfg.Forget(event.UserID)

	bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if err := s.cache.Set(bgCtx, event.UserID, cart); err != nil {
		entry.WithError(err).Warn("cache refresh failed, invalidating")
		if errDel := s.cache.Delete(bgCtx, event.UserID); errDel != nil {
			entry.WithError(errDel).Warn("cache invalidate failed")
		}
	}

	err := s.publisher.Publish(bgCtx, event)
	s.metrics.RecordEvent(string(event.Type), err == nil)
	if err != nil {
		entry.WithError(err).WithField("event_type", event.Type).Warn("publish cart event failed")
	}
}

func (s *CartService) record(operation string, err error) {
	result := "ok"
	if err != nil {
		result = KindOf(err).String()
	}
	s.metrics.RecordCartOperation(operation, result)
}
