package services

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/amirsaid123/UY-Bor/internal/cache"
	"github.com/amirsaid123/UY-Bor/internal/config"
	"github.com/amirsaid123/UY-Bor/internal/models"
)

// IContentService serves the read-only home-page surface. List payloads are
// cached in Redis with a short TTL; the cache is strictly an accelerator and
// a nil Redis client turns it off.
type IContentService interface {
	VipProperties(ctx context.Context) ([]models.Property, error)
	ResidentialComplexes(ctx context.Context) ([]models.ResidentialComplex, error)
	Videos(ctx context.Context) ([]models.Video, error)
	Blogs(ctx context.Context) ([]models.Blog, error)
	StaticPages(ctx context.Context) ([]models.StaticPage, error)
}

type contentService struct {
	db  *gorm.DB
	rdb *redis.Client
	cfg *config.Config
}

func NewContentService(gdb *gorm.DB, rdb *redis.Client, cfg *config.Config) IContentService {
	return &contentService{db: gdb, rdb: rdb, cfg: cfg}
}

func cached[T any](ctx context.Context, s *contentService, key string, fetch func() ([]T, error)) ([]T, error) {
	return cache.FetchJSON(ctx, s.rdb, key, s.cfg.ContentCacheTTL, fetch)
}

func (s *contentService) VipProperties(ctx context.Context) ([]models.Property, error) {
	return cached(ctx, s, "content:vip_properties", func() ([]models.Property, error) {
		var properties []models.Property
		err := s.db.WithContext(ctx).
			Where("label = ? AND status = ?", models.LabelVip, models.StatusActive).
			Order("created_at DESC").
			Preload("Images").
			Find(&properties).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list vip properties: %w", err)
		}
		return properties, nil
	})
}

func (s *contentService) ResidentialComplexes(ctx context.Context) ([]models.ResidentialComplex, error) {
	var complexes []models.ResidentialComplex
	err := s.db.WithContext(ctx).Order("name ASC").Find(&complexes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list residential complexes: %w", err)
	}
	return complexes, nil
}

func (s *contentService) Videos(ctx context.Context) ([]models.Video, error) {
	var videos []models.Video
	err := s.db.WithContext(ctx).
		Where("property_id IS NULL").
		Order("created_at DESC").
		Find(&videos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

func (s *contentService) Blogs(ctx context.Context) ([]models.Blog, error) {
	return cached(ctx, s, "content:blogs", func() ([]models.Blog, error) {
		var blogs []models.Blog
		err := s.db.WithContext(ctx).Order("created_at DESC").Find(&blogs).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list blogs: %w", err)
		}
		return blogs, nil
	})
}

func (s *contentService) StaticPages(ctx context.Context) ([]models.StaticPage, error) {
	return cached(ctx, s, "content:static_pages", func() ([]models.StaticPage, error) {
		var pages []models.StaticPage
		err := s.db.WithContext(ctx).Order("title ASC").Find(&pages).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list static pages: %w", err)
		}
		return pages, nil
	})
}
