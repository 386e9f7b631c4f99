package models

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Property is a real-estate listing. Geo references and the promotion label
// are optional; everything else is set at creation. Views and Saves are
// denormalized counters maintained by the services that change them.
type Property struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	User        *User  `gorm:"foreignKey:UserID" json:"-"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Slug        string `gorm:"index;size:280" json:"slug"`
	Description string `json:"description"`

	CategoryID uint      `gorm:"index;not null" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"-"`

	Price float64 `gorm:"index;not null" json:"price"`

	Type            PropertyType    `gorm:"size:10;not null" json:"type"`
	Label           Label           `gorm:"size:10" json:"label,omitempty"`
	Status          Status          `gorm:"size:12;not null;default:active" json:"status"`
	Material        Material        `gorm:"size:20" json:"material,omitempty"`
	Renovation      Renovation      `gorm:"size:20" json:"renovation,omitempty"`
	Repair          Repair          `gorm:"size:20" json:"repair,omitempty"`
	ResidentialType ResidentialType `gorm:"size:20" json:"residential_type,omitempty"`

	Rooms       int     `json:"rooms"`
	Area        float64 `json:"area"`
	Floor       int     `json:"floor"`
	TotalFloors int     `json:"total_floors"`

	CommissioningDate *time.Time `json:"commissioning_date,omitempty"`

	ResidentialComplexID *uint               `gorm:"index" json:"residential_complex_id,omitempty"`
	ResidentialComplex   *ResidentialComplex `gorm:"foreignKey:ResidentialComplexID" json:"-"`

	CountryID  *uint     `gorm:"index" json:"country_id,omitempty"`
	Country    *Country  `gorm:"foreignKey:CountryID" json:"-"`
	RegionID   *uint     `gorm:"index" json:"region_id,omitempty"`
	Region     *Region   `gorm:"foreignKey:RegionID" json:"-"`
	CityID     *uint     `gorm:"index" json:"city_id,omitempty"`
	City       *City     `gorm:"foreignKey:CityID" json:"-"`
	DistrictID *uint     `gorm:"index" json:"district_id,omitempty"`
	District   *District `gorm:"foreignKey:DistrictID" json:"-"`
	MetroID    *uint     `gorm:"index" json:"metro_id,omitempty"`
	Metro      *Metro    `gorm:"foreignKey:MetroID" json:"-"`
	Address    string    `gorm:"size:255" json:"address"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`

	Views int `gorm:"not null;default:0" json:"views"`
	Saves int `gorm:"not null;default:0" json:"saves"`

	Amenities []Amenity `gorm:"many2many:property_amenities" json:"amenities,omitempty"`
	Images    []Image   `gorm:"foreignKey:PropertyID" json:"images,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate derives the slug from the title on first save only.
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = slug.Make(p.Title)
	}
	return nil
}

// Image is a processed property photo stored in S3. Rows are inserted by the
// image worker after normalization, never directly by the API.
type Image struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PropertyID   uint      `gorm:"index;not null" json:"property_id"`
	URL          string    `gorm:"size:512;not null" json:"url"`
	ThumbnailURL string    `gorm:"size:512" json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// Wishlist is a user-property bookmark. The composite unique index is the
// source of truth; the Saves counter on Property follows it.
type Wishlist struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_wishlists_pair" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"-"`
	PropertyID uint      `gorm:"not null;uniqueIndex:idx_wishlists_pair" json:"property_id"`
	Property   *Property `gorm:"foreignKey:PropertyID" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
