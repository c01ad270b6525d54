package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sweetshop/api/internal/models"
	"github.com/sweetshop/api/internal/repo"
	"github.com/sweetshop/api/internal/search"
	"github.com/sweetshop/api/internal/transport"
	"github.com/sweetshop/api/pkg/events"
	"github.com/sweetshop/api/pkg/logging"
)

type CatalogService struct {
	Repo   *repo.GormRepo
	Index  *search.Index
	Events events.Publisher
}

func (s *CatalogService) GetSweet(ctx context.Context, id uuid.UUID) (*models.Sweet, error) {
	sweet, err := s.Repo.GetSweet(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: sweet not found", ErrNotFound)
		}
		return nil, err
	}
	return sweet, nil
}

func (s *CatalogService) ListSweets(ctx context.Context) ([]models.Sweet, error) {
	return s.Repo.ListSweets(ctx)
}

func (s *CatalogService) CreateSweet(ctx context.Context, req transport.CreateSweetRequest) (*models.Sweet, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_sweet")

	sweet := models.Sweet{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if err := s.Repo.CreateSweet(ctx, &sweet); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: sweet name already exists", ErrConflict)
		}
		return nil, err
	}

	s.reindex(ctx, l, &sweet)
	s.publish(ctx, sweet.ID.String(), map[string]any{
		"type":    events.TypeSweetCreated,
		"sweetId": sweet.ID.String(),
		"name":    sweet.Name,
	})

	return &sweet, nil
}

// UpdateSweet only overwrites fields present in the request.
func (s *CatalogService) UpdateSweet(ctx context.Context, id uuid.UUID, req transport.UpdateSweetRequest) (*models.Sweet, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update_sweet")

	sweet, err := s.Repo.GetSweet(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: sweet not found", ErrNotFound)
		}
		return nil, err
	}

	if req.Name != nil {
		sweet.Name = *req.Name
	}
	if req.Description != nil {
		sweet.Description = *req.Description
	}
	if req.ImageURL != nil {
		sweet.ImageURL = *req.ImageURL
	}
	if req.Price != nil {
		sweet.Price = *req.Price
	}
	if req.Stock != nil {
		sweet.Stock = *req.Stock
	}

	if err := s.Repo.SaveSweet(ctx, sweet); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: sweet name already exists", ErrConflict)
		}
		return nil, err
	}

	s.reindex(ctx, l, sweet)
	s.publish(ctx, sweet.ID.String(), map[string]any{
		"type":    events.TypeSweetUpdated,
		"sweetId": sweet.ID.String(),
		"name":    sweet.Name,
	})

	return sweet, nil
}

func (s *CatalogService) DeleteSweet(ctx context.Context, id uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete_sweet")

	if err := s.Repo.DeleteSweet(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: sweet not found", ErrNotFound)
		}
		return err
	}

	if err := s.Index.DeleteSweet(ctx, id.String()); err != nil {
		l.Warn("search_delete_failed", "error", err)
	}
	s.publish(ctx, id.String(), map[string]any{
		"type":    events.TypeSweetDeleted,
		"sweetId": id.String(),
	})

	return nil
}

// Search prefers the Elasticsearch mirror and silently degrades to a SQL scan
// when the index is missing or unreachable.
func (s *CatalogService) Search(ctx context.Context, query string) ([]models.Sweet, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.search")

	if s.Index != nil {
		ids, err := s.Index.Search(ctx, query)
		if err == nil {
			parsed := make([]uuid.UUID, 0, len(ids))
			for _, raw := range ids {
				if id, perr := uuid.Parse(raw); perr == nil {
					parsed = append(parsed, id)
				}
			}
			return s.Repo.GetSweetsByIDs(ctx, parsed)
		}
		l.Warn("search_index_failed", "error", err)
	}

	return s.Repo.SearchSweets(ctx, query)
}

func (s *CatalogService) reindex(ctx context.Context, l *slog.Logger, sweet *models.Sweet) {
	if err := s.Index.IndexSweet(ctx, sweet); err != nil {
		l.Warn("search_index_failed", "error", err)
	}
}

func (s *CatalogService) publish(ctx context.Context, key string, event map[string]any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishEvent(ctx, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "error", err)
	}
}
