package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/amirsaid123/UY-Bor/internal/models"
	"github.com/amirsaid123/UY-Bor/internal/storage"
	"github.com/amirsaid123/UY-Bor/internal/tasks"
)

// IPropertyService covers the public listing surface and the owner-scoped
// management operations. Every mutating method takes the owner's userID and
// refuses to touch listings of other users (reported as not found, never as
// forbidden, so ownership is not probeable).
type IPropertyService interface {
	Search(ctx context.Context, filter *SearchFilter) ([]models.Property, error)
	GetByID(ctx context.Context, id uint) (*models.Property, error)
	ListByOwner(ctx context.Context, userID uint, filter *PropertyFilter) ([]models.Property, error)
	Create(ctx context.Context, property *models.Property) error
	Update(ctx context.Context, userID, id uint, updates map[string]interface{}) (*models.Property, error)
	Deactivate(ctx context.Context, userID, id uint) (*models.Property, error)
	Delete(ctx context.Context, userID, id uint) error
	RequestImageUpload(ctx context.Context, userID, propertyID uint, filename, contentType string) (string, string, error)
	ConfirmImageUpload(ctx context.Context, userID, propertyID uint, s3Key string) error
}

type propertyService struct {
	db         *gorm.DB
	storage    storage.IS3Storage
	taskClient tasks.Enqueuer
}

// NewPropertyService creates the property service. storage and taskClient may
// be nil when the image pipeline is not wired (tests, bg-only mode).
func NewPropertyService(gdb *gorm.DB, stor storage.IS3Storage, taskClient tasks.Enqueuer) IPropertyService {
	return &propertyService{db: gdb, storage: stor, taskClient: taskClient}
}

func (s *propertyService) Search(ctx context.Context, filter *SearchFilter) ([]models.Property, error) {
	var properties []models.Property
	q := filter.Apply(s.db.WithContext(ctx).Model(&models.Property{}))
	if err := q.Preload("Amenities").Preload("Images").Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	return properties, nil
}

// GetByID returns one listing and counts the view. The increment is a single
// UPDATE so concurrent reads never lose counts.
func (s *propertyService) GetByID(ctx context.Context, id uint) (*models.Property, error) {
	res := s.db.WithContext(ctx).Model(&models.Property{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to count view: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var property models.Property
	err := s.db.WithContext(ctx).Preload("Amenities").Preload("Images").First(&property, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load property %d: %w", id, err)
	}
	return &property, nil
}

func (s *propertyService) ListByOwner(ctx context.Context, userID uint, filter *PropertyFilter) ([]models.Property, error) {
	var properties []models.Property
	q := s.db.WithContext(ctx).Model(&models.Property{}).Where("properties.user_id = ?", userID)
	q = filter.Apply(q)
	if err := q.Preload("Amenities").Preload("Images").Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("owner listing query failed: %w", err)
	}
	return properties, nil
}

func (s *propertyService) Create(ctx context.Context, property *models.Property) error {
	if property.Status == "" {
		property.Status = models.StatusActive
	}
	if err := s.db.WithContext(ctx).Create(property).Error; err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func (s *propertyService) Update(ctx context.Context, userID, id uint, updates map[string]interface{}) (*models.Property, error) {
	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Property{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("failed to update property %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}

	var property models.Property
	err := s.db.WithContext(ctx).Preload("Amenities").Preload("Images").
		Where("id = ? AND user_id = ?", id, userID).First(&property).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reload property %d: %w", id, err)
	}
	return &property, nil
}

// Deactivate moves one listing to inactive from whatever status it is in.
// The guard lives in the WHERE clause; when nothing matched, a diagnostic
// re-read distinguishes a missing/foreign listing from a redundant transition.
func (s *propertyService) Deactivate(ctx context.Context, userID, id uint) (*models.Property, error) {
	res := s.db.WithContext(ctx).Model(&models.Property{}).
		Where("id = ? AND user_id = ? AND status <> ?", id, userID, models.StatusInactive).
		Update("status", models.StatusInactive)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to deactivate property %d: %w", id, res.Error)
	}

	if res.RowsAffected == 0 {
		var existing models.Property
		err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to diagnose deactivation of %d: %w", id, err)
		}
		return nil, ErrAlreadyInactive
	}

	var property models.Property
	if err := s.db.WithContext(ctx).First(&property, id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload property %d: %w", id, err)
	}
	return &property, nil
}

func (s *propertyService) Delete(ctx context.Context, userID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Property{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete property %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		// Dependent rows go with the listing
		if err := tx.Where("property_id = ?", id).Delete(&models.Wishlist{}).Error; err != nil {
			return fmt.Errorf("failed to delete wishlist rows for property %d: %w", id, err)
		}
		if err := tx.Where("property_id = ?", id).Delete(&models.Image{}).Error; err != nil {
			return fmt.Errorf("failed to delete image rows for property %d: %w", id, err)
		}
		if err := tx.Where("property_id = ?", id).Delete(&models.Video{}).Error; err != nil {
			return fmt.Errorf("failed to delete video rows for property %d: %w", id, err)
		}
		// The many2many join table has no model, so clear it directly
		if err := tx.Exec("DELETE FROM property_amenities WHERE property_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete amenity links for property %d: %w", id, err)
		}
		return nil
	})
}

// RequestImageUpload verifies ownership and hands back a presigned PUT URL
// plus the object key the client must echo on confirm.
func (s *propertyService) RequestImageUpload(ctx context.Context, userID, propertyID uint, filename, contentType string) (string, string, error) {
	if s.storage == nil {
		return "", "", fmt.Errorf("image storage is not configured")
	}
	if err := s.ownedBy(ctx, userID, propertyID); err != nil {
		return "", "", err
	}
	return s.storage.GeneratePresignedPutURL(ctx, userID, propertyID, filename, contentType)
}

// ConfirmImageUpload enqueues background normalization for an uploaded object.
func (s *propertyService) ConfirmImageUpload(ctx context.Context, userID, propertyID uint, s3Key string) error {
	if s.taskClient == nil {
		return fmt.Errorf("task queue is not configured")
	}
	if err := s.ownedBy(ctx, userID, propertyID); err != nil {
		return err
	}

	task, err := tasks.NewImageProcessTask(propertyID, s3Key)
	if err != nil {
		return err
	}
	if _, err := s.taskClient.Enqueue(task); err != nil {
		return fmt.Errorf("failed to enqueue image task: %w", err)
	}
	log.Printf("Enqueued image processing for property %d key %s", propertyID, s3Key)
	return nil
}

func (s *propertyService) ownedBy(ctx context.Context, userID, propertyID uint) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Property{}).
		Where("id = ? AND user_id = ?", propertyID, userID).Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check ownership of property %d: %w", propertyID, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
