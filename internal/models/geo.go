package models

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Location reference data: Country > Region > City > District, plus Metro
// stations attached to a city. All are slugged on first save.

type Country struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
	Slug string `gorm:"uniqueIndex;size:120" json:"slug"`
}

func (c *Country) BeforeCreate(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}

type Region struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	CountryID uint     `gorm:"index;not null" json:"country_id"`
	Country   *Country `gorm:"foreignKey:CountryID" json:"-"`
	Name      string   `gorm:"size:100;not null" json:"name"`
	Slug      string   `gorm:"uniqueIndex;size:120" json:"slug"`
}

func (r *Region) BeforeCreate(tx *gorm.DB) error {
	if r.Slug == "" {
		r.Slug = slug.Make(r.Name)
	}
	return nil
}

type City struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	RegionID uint    `gorm:"index;not null" json:"region_id"`
	Region   *Region `gorm:"foreignKey:RegionID" json:"-"`
	Name     string  `gorm:"size:100;not null" json:"name"`
	Slug     string  `gorm:"uniqueIndex;size:120" json:"slug"`
}

func (c *City) BeforeCreate(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}

type District struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	CityID uint   `gorm:"index;not null" json:"city_id"`
	City   *City  `gorm:"foreignKey:CityID" json:"-"`
	Name   string `gorm:"size:100;not null" json:"name"`
	Slug   string `gorm:"uniqueIndex;size:120" json:"slug"`
}

func (d *District) BeforeCreate(tx *gorm.DB) error {
	if d.Slug == "" {
		d.Slug = slug.Make(d.Name)
	}
	return nil
}

type Metro struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	CityID uint   `gorm:"index;not null" json:"city_id"`
	City   *City  `gorm:"foreignKey:CityID" json:"-"`
	Name   string `gorm:"size:100;not null" json:"name"`
	Slug   string `gorm:"uniqueIndex;size:120" json:"slug"`
}

func (m *Metro) BeforeCreate(tx *gorm.DB) error {
	if m.Slug == "" {
		m.Slug = slug.Make(m.Name)
	}
	return nil
}
