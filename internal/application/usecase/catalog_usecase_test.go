// internal/application/usecase/catalog_usecase_test.go
package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetshop/internal/application/usecase"
	itemdom "sweetshop/internal/domain/item"
	"sweetshop/internal/store"
)

type fakeGateway struct {
	items     []itemdom.Item
	listErr   error
	createErr error
	updateErr error
	deleteErr error
}

func (g *fakeGateway) List(ctx context.Context) ([]itemdom.Item, error) {
	return g.items, g.listErr
}

func (g *fakeGateway) Create(ctx context.Context, it itemdom.Item) (itemdom.Item, error) {
	if g.createErr != nil {
		return itemdom.Item{}, g.createErr
	}
	it.ID = "srv-1"
	return it, nil
}

func (g *fakeGateway) Update(ctx context.Context, it itemdom.Item) (itemdom.Item, error) {
	if g.updateErr != nil {
		return itemdom.Item{}, g.updateErr
	}
	return it, nil
}

func (g *fakeGateway) Delete(ctx context.Context, itemID string) error {
	return g.deleteErr
}

type fakePublisher struct {
	url  string
	err  error
	path string
}

func (p *fakePublisher) PublishFile(ctx context.Context, path string) (string, error) {
	p.path = path
	return p.url, p.err
}

func validItem() itemdom.Item {
	return itemdom.Item{Name: "Mint Drop", Category: "Mint", Price: 1.5, Quantity: 4}
}

func TestCatalogLoad(t *testing.T) {
	t.Run("ReplacesMasterList", func(t *testing.T) {
		gw := &fakeGateway{items: []itemdom.Item{{ID: "a", Name: "Gum Drop", Category: "Gummy", Price: 2, Quantity: 1}}}
		catalog := store.NewCatalogStore()
		uc := usecase.NewCatalogUsecase(gw, catalog, nil)

		require.NoError(t, uc.Load(context.Background()))
		require.Len(t, catalog.Items(), 1)
		assert.Equal(t, "a", catalog.Items()[0].ID)
	})

	t.Run("FailureLeavesStoreUntouched", func(t *testing.T) {
		catalog := store.NewCatalogStore()
		catalog.SetAll([]itemdom.Item{{ID: "old", Name: "Old", Category: "x", Price: 1, Quantity: 1}})
		uc := usecase.NewCatalogUsecase(&fakeGateway{listErr: errors.New("boom")}, catalog, nil)

		assert.Error(t, uc.Load(context.Background()))
		assert.Equal(t, "old", catalog.Items()[0].ID)
	})
}

func TestCatalogCreate(t *testing.T) {
	t.Run("MirrorsCommittedItem", func(t *testing.T) {
		catalog := store.NewCatalogStore()
		uc := usecase.NewCatalogUsecase(&fakeGateway{}, catalog, nil)

		created, err := uc.Create(context.Background(), validItem(), "")
		require.NoError(t, err)
		assert.Equal(t, "srv-1", created.ID)
		require.Len(t, catalog.Items(), 1)
	})

	t.Run("PublishesLocalImageFirst", func(t *testing.T) {
		pub := &fakePublisher{url: "https://storage.googleapis.com/b/items/x.png"}
		catalog := store.NewCatalogStore()
		uc := usecase.NewCatalogUsecase(&fakeGateway{}, catalog, pub)

		created, err := uc.Create(context.Background(), validItem(), "/tmp/x.png")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/x.png", pub.path)
		assert.Equal(t, pub.url, created.Image)
	})

	t.Run("PublishFailureAbortsBeforeBackend", func(t *testing.T) {
		catalog := store.NewCatalogStore()
		uc := usecase.NewCatalogUsecase(&fakeGateway{}, catalog, &fakePublisher{err: errors.New("denied")})

		_, err := uc.Create(context.Background(), validItem(), "/tmp/x.png")
		assert.Error(t, err)
		assert.Empty(t, catalog.Items())
	})

	t.Run("RejectsInvalidItem", func(t *testing.T) {
		uc := usecase.NewCatalogUsecase(&fakeGateway{}, store.NewCatalogStore(), nil)

		it := validItem()
		it.Price = -1
		_, err := uc.Create(context.Background(), it, "")
		assert.ErrorIs(t, err, itemdom.ErrInvalidPrice)
	})
}

func TestCatalogUpdate(t *testing.T) {
	t.Run("BackendFailureLeavesStoreUnchanged", func(t *testing.T) {
		catalog := store.NewCatalogStore()
		catalog.SetAll([]itemdom.Item{{ID: "a", Name: "Gum Drop", Category: "Gummy", Price: 2, Quantity: 1}})
		uc := usecase.NewCatalogUsecase(&fakeGateway{updateErr: errors.New("404")}, catalog, nil)

		it := validItem()
		it.ID = "a"
		_, err := uc.Update(context.Background(), it, "")
		assert.Error(t, err)
		assert.Equal(t, "Gum Drop", catalog.Items()[0].Name)
	})

	t.Run("RequiresID", func(t *testing.T) {
		uc := usecase.NewCatalogUsecase(&fakeGateway{}, store.NewCatalogStore(), nil)

		_, err := uc.Update(context.Background(), validItem(), "")
		assert.ErrorIs(t, err, usecase.ErrCatalogInvalidArgument)
	})
}

func TestCatalogDelete(t *testing.T) {
	t.Run("RemovesLocallyAfterBackend", func(t *testing.T) {
		catalog := store.NewCatalogStore()
		catalog.SetAll([]itemdom.Item{{ID: "a", Name: "Gum Drop", Category: "Gummy", Price: 2, Quantity: 1}})
		uc := usecase.NewCatalogUsecase(&fakeGateway{}, catalog, nil)

		require.NoError(t, uc.Delete(context.Background(), "a"))
		assert.Empty(t, catalog.Items())
	})

	t.Run("BackendFailureKeepsItem", func(t *testing.T) {
		catalog := store.NewCatalogStore()
		catalog.SetAll([]itemdom.Item{{ID: "a", Name: "Gum Drop", Category: "Gummy", Price: 2, Quantity: 1}})
		uc := usecase.NewCatalogUsecase(&fakeGateway{deleteErr: errors.New("401")}, catalog, nil)

		assert.Error(t, uc.Delete(context.Background(), "a"))
		assert.Len(t, catalog.Items(), 1)
	})
}
