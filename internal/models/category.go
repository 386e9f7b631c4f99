package models

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Category is a tree of listing categories (self-referential parent).
type Category struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Name     string    `gorm:"size:100;not null" json:"name"`
	Slug     string    `gorm:"uniqueIndex;size:120" json:"slug"`
	ParentID *uint     `gorm:"index" json:"parent_id"`
	Parent   *Category `gorm:"foreignKey:ParentID" json:"-"`
}

// BeforeCreate derives the slug from the name on first save only.
// Renaming a category does not change its slug.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}

// Amenity is a feature a property can offer (parking, elevator, ...).
// Matched by name in search filters.
type Amenity struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}
