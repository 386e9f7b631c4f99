package models

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Editorial and marketing content served by the home endpoints.

type Blog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Slug      string    `gorm:"uniqueIndex;size:280" json:"slug"`
	Body      string    `json:"body"`
	Image     string    `gorm:"size:512" json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.Slug == "" {
		b.Slug = slug.Make(b.Title)
	}
	return nil
}

// Video is either standalone home-page content or a clip attached to a
// property when PropertyID is set.
type Video struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	URL        string    `gorm:"size:512;not null" json:"url"`
	PropertyID *uint     `gorm:"index" json:"property_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type StaticPage struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Title string `gorm:"size:255;not null" json:"title"`
	Slug  string `gorm:"uniqueIndex;size:280" json:"slug"`
	Body  string `json:"body"`
}

func (s *StaticPage) BeforeCreate(tx *gorm.DB) error {
	if s.Slug == "" {
		s.Slug = slug.Make(s.Title)
	}
	return nil
}

type ResidentialComplex struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;size:280" json:"slug"`
	Address   string    `gorm:"size:255" json:"address"`
	Image     string    `gorm:"size:512" json:"image"`
	CityID    *uint     `gorm:"index" json:"city_id,omitempty"`
	City      *City     `gorm:"foreignKey:CityID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *ResidentialComplex) BeforeCreate(tx *gorm.DB) error {
	if r.Slug == "" {
		r.Slug = slug.Make(r.Name)
	}
	return nil
}
