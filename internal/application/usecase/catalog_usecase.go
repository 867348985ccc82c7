// internal/application/usecase/catalog_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	itemdom "sweetshop/internal/domain/item"
	"sweetshop/internal/store"
)

var (
	ErrCatalogInvalidArgument = errors.New("catalog_usecase: invalid argument")
)

// CatalogGateway is the backend API surface for catalog reads and admin CRUD.
type CatalogGateway interface {
	List(ctx context.Context) ([]itemdom.Item, error)
	Create(ctx context.Context, it itemdom.Item) (itemdom.Item, error)
	Update(ctx context.Context, it itemdom.Item) (itemdom.Item, error)
	Delete(ctx context.Context, itemID string) error
}

// ImagePublisher uploads a local image file and returns its public URL.
// Optional: without one, items carry whatever image URL the caller typed.
type ImagePublisher interface {
	PublishFile(ctx context.Context, path string) (string, error)
}

// CatalogUsecase keeps the catalog store mirroring the backend's committed
// state. The store is only touched after the backend confirms a mutation; a
// failed create/update/delete leaves local state unchanged.
type CatalogUsecase struct {
	gateway CatalogGateway
	catalog *store.CatalogStore
	images  ImagePublisher
}

func NewCatalogUsecase(gateway CatalogGateway, catalog *store.CatalogStore, images ImagePublisher) *CatalogUsecase {
	return &CatalogUsecase{gateway: gateway, catalog: catalog, images: images}
}

// Load fetches the catalog and replaces the master list.
func (uc *CatalogUsecase) Load(ctx context.Context) error {
	items, err := uc.gateway.List(ctx)
	if err != nil {
		return err
	}
	uc.catalog.SetAll(items)
	return nil
}

// Create validates the item, optionally publishes a local image file, posts
// the item and mirrors the created state.
func (uc *CatalogUsecase) Create(ctx context.Context, it itemdom.Item, imagePath string) (itemdom.Item, error) {
	if err := it.Validate(); err != nil {
		return itemdom.Item{}, err
	}

	it, err := uc.withPublishedImage(ctx, it, imagePath)
	if err != nil {
		return itemdom.Item{}, err
	}

	created, err := uc.gateway.Create(ctx, it)
	if err != nil {
		return itemdom.Item{}, err
	}
	uc.catalog.Add(created)
	return created, nil
}

// Update replaces the item by id and mirrors the committed state. On a
// backend failure (including not-found) the local catalog stays unchanged;
// the caller surfaces the failure.
func (uc *CatalogUsecase) Update(ctx context.Context, it itemdom.Item, imagePath string) (itemdom.Item, error) {
	if strings.TrimSpace(it.ID) == "" {
		return itemdom.Item{}, ErrCatalogInvalidArgument
	}
	if err := it.Validate(); err != nil {
		return itemdom.Item{}, err
	}

	it, err := uc.withPublishedImage(ctx, it, imagePath)
	if err != nil {
		return itemdom.Item{}, err
	}

	updated, err := uc.gateway.Update(ctx, it)
	if err != nil {
		return itemdom.Item{}, err
	}
	uc.catalog.Update(updated)
	return updated, nil
}

// Delete removes the item on the backend, then locally.
func (uc *CatalogUsecase) Delete(ctx context.Context, itemID string) error {
	id := strings.TrimSpace(itemID)
	if id == "" {
		return ErrCatalogInvalidArgument
	}

	if err := uc.gateway.Delete(ctx, id); err != nil {
		return err
	}
	uc.catalog.Remove(id)
	return nil
}

func (uc *CatalogUsecase) withPublishedImage(ctx context.Context, it itemdom.Item, imagePath string) (itemdom.Item, error) {
	path := strings.TrimSpace(imagePath)
	if path == "" {
		return it, nil
	}
	if uc.images == nil {
		return itemdom.Item{}, errors.New("catalog_usecase: no image publisher configured")
	}

	url, err := uc.images.PublishFile(ctx, path)
	if err != nil {
		return itemdom.Item{}, fmt.Errorf("catalog_usecase: publish image: %w", err)
	}
	it.Image = url
	return it, nil
}
