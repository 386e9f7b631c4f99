package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/amirsaid123/UY-Bor/internal/db"
	"github.com/amirsaid123/UY-Bor/internal/models"
)

// IWishlistService implements the bookmark toggle and listing.
type IWishlistService interface {
	// Toggle flips the (user, property) bookmark and returns true when the
	// call added it, false when it removed it.
	Toggle(ctx context.Context, userID, propertyID uint) (bool, error)
	List(ctx context.Context, userID uint, filter *PropertyFilter) ([]models.Property, error)
}

type wishlistService struct {
	db *gorm.DB
}

func NewWishlistService(gdb *gorm.DB) IWishlistService {
	return &wishlistService{db: gdb}
}

// Toggle runs as one transaction keeping the Saves counter in step with the
// wishlist rows. Two concurrent adds race on the composite unique index; the
// loser retries and takes the delete branch.
func (s *wishlistService) Toggle(ctx context.Context, userID, propertyID uint) (bool, error) {
	var added bool

	op := func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var property models.Property
			err := tx.First(&property, propertyID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			if err != nil {
				return fmt.Errorf("failed to load property %d: %w", propertyID, err)
			}

			res := tx.Where("user_id = ? AND property_id = ?", userID, propertyID).
				Delete(&models.Wishlist{})
			if res.Error != nil {
				return fmt.Errorf("failed to delete wishlist row: %w", res.Error)
			}

			if res.RowsAffected > 0 {
				added = false
				return tx.Model(&models.Property{}).
					Where("id = ? AND saves > 0", propertyID).
					UpdateColumn("saves", gorm.Expr("saves - 1")).Error
			}

			if err := tx.Create(&models.Wishlist{UserID: userID, PropertyID: propertyID}).Error; err != nil {
				return fmt.Errorf("failed to create wishlist row: %w", err)
			}
			added = true
			return tx.Model(&models.Property{}).
				Where("id = ?", propertyID).
				UpdateColumn("saves", gorm.Expr("saves + 1")).Error
		})
	}

	if err := db.Try(op); err != nil {
		return false, err
	}
	return added, nil
}

func (s *wishlistService) List(ctx context.Context, userID uint, filter *PropertyFilter) ([]models.Property, error) {
	var properties []models.Property
	q := s.db.WithContext(ctx).Model(&models.Property{}).
		Joins("JOIN wishlists ON wishlists.property_id = properties.id").
		Where("wishlists.user_id = ?", userID)
	q = filter.Apply(q)
	if err := q.Preload("Amenities").Preload("Images").Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("wishlist query failed: %w", err)
	}
	return properties, nil
}
