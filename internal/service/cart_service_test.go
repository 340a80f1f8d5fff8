package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/CampiteliRafael/cartEcommerce/internal/domain"
	"github.com/CampiteliRafael/cartEcommerce/internal/events"
	"github.com/CampiteliRafael/cartEcommerce/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type cartFixture struct {
	sut       *CartService
	carts     *mockCartRepository
	products  *mockProductRepository
	cache     *mockCache
	publisher *mockPublisher
	mouse     *domain.Product
	keyboard  *domain.Product
}

func newCartFixture() *cartFixture {
	mouse := &domain.Product{ID: primitive.NewObjectID(), Name: "Mouse", Price: 10.4, Stock: 5}
	keyboard := &domain.Product{ID: primitive.NewObjectID(), Name: "Keyboard", Price: 25, Stock: 3}

	f := &cartFixture{
		carts:     newMockCartRepository(),
		products:  newMockProductRepository(mouse, keyboard),
		cache:     newMockCache(),
		publisher: &mockPublisher{},
		mouse:     mouse,
		keyboard:  keyboard,
	}
	f.sut = NewCartService(f.carts, f.products, f.cache,
		WithPublisher(f.publisher),
		WithMetrics(metrics.New()),
	)
	return f
}

func TestGetCart_NoCartIsEmpty(t *testing.T) {
	f := newCartFixture()

	view, err := f.sut.GetCart(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, "u2", view.UserID)
	assert.NotNil(t, view.Items)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0, view.TotalItems)
	assert.True(t, view.TotalPrice.IsZero())
}

func TestGetCart_Success(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.sut.AddItem(ctx, "u1", f.mouse.ID.Hex(), 2)
	require.NoError(t, err)

	view, err := f.sut.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, f.mouse.ID.Hex(), view.Items[0].ProductID)
	require.NotNil(t, view.Items[0].Product)
	assert.Equal(t, "Mouse", view.Items[0].Product.Name)
	assert.Equal(t, 2, view.TotalItems)
	assert.Equal(t, "20.8", view.TotalPrice.String())

	require.Eventually(t, func() bool {
		return f.cache.getCart("u1") != nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cart was not set in cache")
}

func TestGetCart_CacheHit(t *testing.T) {
	f := newCartFixture()
	f.carts.err = errors.New("repo must not be called")
	f.cache.carts["u1"] = &domain.Cart{
		UserID: "u1",
		Items:  []domain.CartItem{{ProductID: f.keyboard.ID, Quantity: 3, Price: 25}},
	}

	view, err := f.sut.GetCart(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.Equal(t, 0, f.carts.getCalls)
}

func TestGetCart_CacheErrorFallsBackToRepo(t *testing.T) {
	f := newCartFixture()
	_, err := f.carts.AddItem(context.Background(), "u1", domain.CartItem{ProductID: f.mouse.ID, Quantity: 1, Price: 10.4})
	require.NoError(t, err)
	f.cache.err = errors.New("redis down")

	view, err := f.sut.GetCart(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)
}

func TestGetCart_RepoError(t *testing.T) {
	f := newCartFixture()
	f.carts.err = fmt.Errorf("database error")

	view, err := f.sut.GetCart(context.Background(), "u1")
	require.ErrorContains(t, err, "database error")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Nil(t, view)
	assert.Nil(t, f.cache.getCart("u1"))
}

func TestAddItem_MergesRepeatedAdds(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.sut.AddItem(ctx, "u1", f.mouse.ID.Hex(), 2)
	require.NoError(t, err)
	view, err := f.sut.AddItem(ctx, "u1", f.mouse.ID.Hex(), 3)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
}

func TestAddItem_SameArgumentsTwiceDoubles(t *testing.T) {
	for _, qty := range []int{1, 4, 17} {
		t.Run(fmt.Sprint(qty), func(t *testing.T) {
			f := newCartFixture()
			ctx := context.Background()

			_, err := f.sut.AddItem(ctx, "u1", f.keyboard.ID.Hex(), qty)
			require.NoError(t, err)
			view, err := f.sut.AddItem(ctx, "u1", f.keyboard.ID.Hex(), qty)
			require.NoError(t, err)

			require.Len(t, view.Items, 1)
			assert.Equal(t, 2*qty, view.Items[0].Quantity)
		})
	}
}

func TestAddItem_UnknownProduct(t *testing.T) {
	f := newCartFixture()

	for _, id := range []string{primitive.NewObjectID().Hex(), "nonexistent"} {
		view, err := f.sut.AddItem(context.Background(), "u1", id, 1)
		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.Equal(t, KindNotFound, KindOf(err))
		assert.Nil(t, view)
	}

	_, exists := f.carts.cart("u1")
	assert.False(t, exists, "cart must not be created")
	assert.Empty(t, f.publisher.types())
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	f := newCartFixture()

	_, err := f.sut.AddItem(context.Background(), "u1", f.mouse.ID.Hex(), 0)
	assert.Equal(t, KindValidation, KindOf(err))

	_, exists := f.carts.cart("u1")
	assert.False(t, exists)
}

func TestAddItem_PriceSnapshot(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.sut.AddItem(ctx, "u1", f.mouse.ID.Hex(), 1)
	require.NoError(t, err)

	f.products.setPrice(f.mouse.ID, 99)

	view, err := f.sut.AddItem(ctx, "u1", f.mouse.ID.Hex(), 1)
	require.NoError(t, err)
	assert.Equal(t, 10.4, view.Items[0].Price)
	assert.Equal(t, "20.8", view.TotalPrice.String())
	assert.Equal(t, float64(99), view.Items[0].Product.Price)
}

func TestGetCart_DeletedProductStaysInCart(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.sut.AddItem(ctx, "u1", f.mouse.ID.Hex(), 2)
	require.NoError(t, err)
	f.products.delete(f.mouse.ID)
	f.cache.carts = map[string]*domain.Cart{}

	view, err := f.sut.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Nil(t, view.Items[0].Product)
	assert.Equal(t, "20.8", view.TotalPrice.String())
}

func TestUpdateItemQuantity_AbsoluteSet(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.sut.AddItem(ctx, "u1", f.mouse.ID.Hex(), 1)
	require.NoError(t, err)

	view, err := f.sut.UpdateItemQuantity(ctx, "u1", f.mouse.ID.Hex(), 7)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 7, view.Items[0].Quantity)
}

func TestUpdateItemQuantity_NotFound(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	// no cart at all
	_, errNoCart := f.sut.UpdateItemQuantity(ctx, "u1", f.mouse.ID.Hex(), 2)

	// cart exists, line does not
	_, err := f.sut.AddItem(ctx, "u1", f.keyboard.ID.Hex(), 1)
	require.NoError(t, err)
	_, errNoLine := f.sut.UpdateItemQuantity(ctx, "u1", f.mouse.ID.Hex(), 2)

	assert.ErrorIs(t, errNoCart, ErrItemNotInCart)
	assert.ErrorIs(t, errNoLine, ErrItemNotInCart)
	assert.Equal(t, errNoCart.Error(), errNoLine.Error())

	_, err = f.sut.UpdateItemQuantity(ctx, "u1", "not-an-id", 2)
	assert.ErrorIs(t, err, ErrItemNotInCart)
}

func TestUpdateItemQuantity_ZeroRemoves(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.sut.AddItem(ctx, "u1", f.mouse.ID.Hex(), 3)
	require.NoError(t, err)
	_, err = f.sut.AddItem(ctx, "u1", f.keyboard.ID.Hex(), 1)
	require.NoError(t, err)

	view, err := f.sut.UpdateItemQuantity(ctx, "u1", f.mouse.ID.Hex(), 0)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, f.keyboard.ID.Hex(), view.Items[0].ProductID)

	view, err = f.sut.UpdateItemQuantity(ctx, "u1", f.keyboard.ID.Hex(), -2)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestRemoveItem_SecondCallNotFound(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.sut.AddItem(ctx, "u1", f.mouse.ID.Hex(), 1)
	require.NoError(t, err)

	view, err := f.sut.RemoveItem(ctx, "u1", f.mouse.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	_, err = f.sut.RemoveItem(ctx, "u1", f.mouse.ID.Hex())
	assert.ErrorIs(t, err, ErrItemNotInCart)

	_, err = f.sut.RemoveItem(ctx, "nobody", f.mouse.ID.Hex())
	assert.ErrorIs(t, err, ErrItemNotInCart)
}

func TestClearCart(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.sut.AddItem(ctx, "u1", f.mouse.ID.Hex(), 1)
	require.NoError(t, err)

	view, err := f.sut.ClearCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.NotEmpty(t, view.ID, "cart document persists")

	_, exists := f.carts.cart("u1")
	assert.True(t, exists)

	view, err = f.sut.ClearCart(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, "nobody", view.UserID)
	assert.Empty(t, view.Items)
}

func TestMutations_RefreshCacheAndPublish(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	pid := f.mouse.ID.Hex()

	_, err := f.sut.AddItem(ctx, "u1", pid, 1)
	require.NoError(t, err)
	_, err = f.sut.UpdateItemQuantity(ctx, "u1", pid, 4)
	require.NoError(t, err)
	_, err = f.sut.RemoveItem(ctx, "u1", pid)
	require.NoError(t, err)
	_, err = f.sut.ClearCart(ctx, "u1")
	require.NoError(t, err)

	cached := f.cache.getCart("u1")
	require.NotNil(t, cached)
	assert.Equal(t, int64(4), cached.Version)
	assert.Empty(t, cached.Items)
	assert.Equal(t, 0, f.cache.deleteCount())
	assert.Equal(t, []events.EventType{
		events.ItemAdded,
		events.ItemUpdated,
		events.ItemRemoved,
		events.CartCleared,
	}, f.publisher.types())
}

func TestMutations_SideEffectFailuresDoNotFail(t *testing.T) {
	f := newCartFixture()
	f.publisher.err = errors.New("kafka down")
	f.cache.err = errors.New("redis down")

	view, err := f.sut.AddItem(context.Background(), "u1", f.mouse.ID.Hex(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, view.TotalItems)
}

func TestAddItem_CachedCartIsReplaced(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.sut.AddItem(ctx, "u1", f.mouse.ID.Hex(), 1)
	require.NoError(t, err)
	_, err = f.sut.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return f.cache.getCart("u1") != nil
	}, 100*time.Millisecond, 10*time.Millisecond)

	_, err = f.sut.AddItem(ctx, "u1", f.mouse.ID.Hex(), 1)
	require.NoError(t, err)
	cached := f.cache.getCart("u1")
	require.NotNil(t, cached)
	assert.Equal(t, 2, cached.Items[0].Quantity)

	view, err := f.sut.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Items[0].Quantity)
}

func TestMutations_CacheWriteFailureInvalidates(t *testing.T) {
	f := newCartFixture()
	f.cache.err = errors.New("redis down")

	_, err := f.sut.AddItem(context.Background(), "u1", f.mouse.ID.Hex(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.deleteCount())
}

func TestGetCart_SlowFillDoesNotOverwriteNewerCart(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	pid := f.mouse.ID.Hex()

	_, err := f.sut.AddItem(ctx, "u1", pid, 1)
	require.NoError(t, err)
	f.cache.clear()

	paused := newPausingCartRepository(f.carts)
	sut := NewCartService(paused, f.products, f.cache, WithPublisher(f.publisher))

	done := make(chan *domain.CartView)
	go func() {
		view, errGet := sut.GetCart(ctx, "u1")
		assert.NoError(t, errGet)
		done <- view
	}()
	<-paused.read

	// the reader now holds the cart with quantity 1
	_, err = sut.AddItem(ctx, "u1", pid, 4)
	require.NoError(t, err)
	setsBefore := f.cache.setCount()

	close(paused.release)
	stale := <-done
	require.NotNil(t, stale)
	assert.Equal(t, 1, stale.Items[0].Quantity)
	require.Eventually(t, func() bool {
		return f.cache.setCount() > setsBefore
	}, 100*time.Millisecond, 10*time.Millisecond, "fill was not attempted")

	cached := f.cache.getCart("u1")
	require.NotNil(t, cached)
	assert.Equal(t, int64(2), cached.Version)

	view, err := sut.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, view.Items[0].Quantity)
}
