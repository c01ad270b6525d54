package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetshop/api/internal/transport"
	"github.com/sweetshop/api/pkg/events"
)

func newTestCatalogService(t *testing.T) (*CatalogService, *eventRecorder) {
	rec := &eventRecorder{}
	svc := &CatalogService{
		Repo:   newTestRepo(t),
		Events: rec,
	}
	return svc, rec
}

func ptr[T any](v T) *T { return &v }

func TestCreateSweet_RoundTrip(t *testing.T) {
	svc, rec := newTestCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateSweet(ctx, transport.CreateSweetRequest{
		Name:  "Ladoo",
		Price: 15,
		Stock: 120,
	})
	require.NoError(t, err)

	got, err := svc.GetSweet(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ladoo", got.Name)
	assert.Equal(t, 15.0, got.Price)
	assert.Equal(t, 120, got.Stock)

	assert.Len(t, rec.byType(events.TypeSweetCreated), 1)
}

func TestUpdateSweet_PartialOnlyTouchesSuppliedFields(t *testing.T) {
	svc, _ := newTestCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateSweet(ctx, transport.CreateSweetRequest{
		Name:        "Ladoo",
		Description: "gram flour sweet",
		Price:       15,
		Stock:       120,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateSweet(ctx, created.ID, transport.UpdateSweetRequest{
		Stock: ptr(100),
	})
	require.NoError(t, err)

	assert.Equal(t, 100, updated.Stock)
	assert.Equal(t, "Ladoo", updated.Name)
	assert.Equal(t, "gram flour sweet", updated.Description)
	assert.Equal(t, 15.0, updated.Price)
}

func TestCreateSweet_DuplicateName(t *testing.T) {
	svc, _ := newTestCatalogService(t)
	ctx := context.Background()

	_, err := svc.CreateSweet(ctx, transport.CreateSweetRequest{Name: "Barfi", Price: 35, Stock: 60})
	require.NoError(t, err)

	_, err = svc.CreateSweet(ctx, transport.CreateSweetRequest{Name: "Barfi", Price: 1, Stock: 1})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGetSweet_Missing(t *testing.T) {
	svc, _ := newTestCatalogService(t)

	got, err := svc.GetSweet(context.Background(), uuid.New())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteSweet(t *testing.T) {
	svc, rec := newTestCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateSweet(ctx, transport.CreateSweetRequest{Name: "Jalebi", Price: 30, Stock: 75})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSweet(ctx, created.ID))
	assert.Len(t, rec.byType(events.TypeSweetDeleted), 1)

	err = svc.DeleteSweet(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearch_FallsBackToSQLWithoutIndex(t *testing.T) {
	svc, _ := newTestCatalogService(t)
	ctx := context.Background()

	_, err := svc.CreateSweet(ctx, transport.CreateSweetRequest{Name: "Mysore Pak", Price: 40, Stock: 45})
	require.NoError(t, err)
	_, err = svc.CreateSweet(ctx, transport.CreateSweetRequest{Name: "Sandesh", Price: 25, Stock: 70})
	require.NoError(t, err)

	found, err := svc.Search(ctx, "mysore")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Mysore Pak", found[0].Name)
}
