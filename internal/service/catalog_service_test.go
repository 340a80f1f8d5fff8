package service

import (
	"context"
	"errors"
	"testing"

	"github.com/CampiteliRafael/cartEcommerce/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCatalog_GetProduct(t *testing.T) {
	p := &domain.Product{ID: primitive.NewObjectID(), Name: "Monitor", Price: 1299.99}
	sut := NewCatalogService(newMockProductRepository(p))
	ctx := context.Background()

	got, err := sut.GetProduct(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Monitor", got.Name)

	_, err = sut.GetProduct(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = sut.GetProduct(ctx, "123")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalog_ListAndSeed(t *testing.T) {
	repo := newMockProductRepository()
	sut := NewCatalogService(repo)
	ctx := context.Background()

	inserted, err := sut.Seed(ctx, []domain.Product{{Name: "A", Price: 1}, {Name: "B", Price: 2}})
	require.NoError(t, err)
	assert.Len(t, inserted, 2)

	all, err := sut.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	repo.err = errors.New("mongo down")
	_, err = sut.ListProducts(ctx)
	assert.Equal(t, KindInternal, KindOf(err))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindNotFound, KindOf(ErrItemNotInCart))

	wrapped := internalError("failed", errors.New("cause"))
	assert.Equal(t, "failed: cause", wrapped.Error())
	assert.Equal(t, "not_found", KindNotFound.String())
}
