package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// SearchFilter is the public search contract. Every field is optional and all
// set fields are combined with AND. Text fields match as case-insensitive
// substrings; geo and category fields match against the referenced row's name.
type SearchFilter struct {
	Search          string // address substring
	Name            string // title substring
	Description     string
	Category        string
	City            string
	Region          string
	Metro           string
	District        string
	Country         string
	ResidentialName string

	Type            string
	Material        string
	Renovation      string
	Repair          string
	Label           string
	ResidentialType string
	Status          string

	Room  *int
	Floor *int

	MinArea  *float64
	MaxArea  *float64
	MinPrice *float64
	MaxPrice *float64
	MinViews *int
	MaxViews *int
	MinSaves *int
	MaxSaves *int

	CommissionedAfter  *time.Time
	CommissionedBefore *time.Time
	CreatedAfter       *time.Time
	CreatedBefore      *time.Time
	UpdatedAfter       *time.Time
	UpdatedBefore      *time.Time

	// Amenity names; a property must have ALL of them.
	Amenities []string

	Ordering string
}

// PropertyFilter is the owner-scoped subset used on /user/profile/properties/
// and, joined through the wishlist, on /user/profile/wishlist/.
type PropertyFilter struct {
	ID       *uint
	MinPrice *float64
	MaxPrice *float64
	Status   string
	Type     string
	Category string
	Ordering string
}

// orderings is the closed set of sort orders. Anything else falls through to
// the newest-first default.
var orderings = map[string]string{
	"highest_price": "properties.price DESC",
	"lowest_price":  "properties.price ASC",
	"less_viewed":   "properties.views ASC",
	"popular":       "properties.views DESC",
	"newest":        "properties.created_at DESC",
	"oldest":        "properties.created_at ASC",
}

// OrderClause resolves an ordering parameter to a SQL order expression.
func OrderClause(ordering string) string {
	if clause, ok := orderings[ordering]; ok {
		return clause
	}
	return "properties.created_at DESC"
}

// likeContains builds a case-insensitive substring predicate that behaves the
// same on Postgres and sqlite.
func likeContains(q *gorm.DB, column, value string) *gorm.DB {
	return q.Where(fmt.Sprintf("LOWER(%s) LIKE ?", column), "%"+strings.ToLower(value)+"%")
}

// Apply translates the filter into predicates on a properties query.
func (f *SearchFilter) Apply(q *gorm.DB) *gorm.DB {
	if f.Search != "" {
		q = likeContains(q, "properties.address", f.Search)
	}
	if f.Name != "" {
		q = likeContains(q, "properties.title", f.Name)
	}
	if f.Description != "" {
		q = likeContains(q, "properties.description", f.Description)
	}

	if f.Category != "" {
		q = likeContains(q.Joins("JOIN categories ON categories.id = properties.category_id"), "categories.name", f.Category)
	}
	if f.City != "" {
		q = likeContains(q.Joins("JOIN cities ON cities.id = properties.city_id"), "cities.name", f.City)
	}
	if f.Region != "" {
		q = likeContains(q.Joins("JOIN regions ON regions.id = properties.region_id"), "regions.name", f.Region)
	}
	if f.Metro != "" {
		q = likeContains(q.Joins("JOIN metros ON metros.id = properties.metro_id"), "metros.name", f.Metro)
	}
	if f.District != "" {
		q = likeContains(q.Joins("JOIN districts ON districts.id = properties.district_id"), "districts.name", f.District)
	}
	if f.Country != "" {
		q = likeContains(q.Joins("JOIN countries ON countries.id = properties.country_id"), "countries.name", f.Country)
	}
	if f.ResidentialName != "" {
		q = likeContains(q.Joins("JOIN residential_complexes ON residential_complexes.id = properties.residential_complex_id"), "residential_complexes.name", f.ResidentialName)
	}

	if f.Type != "" {
		q = q.Where("properties.type = ?", f.Type)
	}
	if f.Material != "" {
		q = q.Where("properties.material = ?", f.Material)
	}
	if f.Renovation != "" {
		q = q.Where("properties.renovation = ?", f.Renovation)
	}
	if f.Repair != "" {
		q = q.Where("properties.repair = ?", f.Repair)
	}
	if f.Label != "" {
		q = q.Where("properties.label = ?", f.Label)
	}
	if f.ResidentialType != "" {
		q = q.Where("properties.residential_type = ?", f.ResidentialType)
	}
	if f.Status != "" {
		q = q.Where("properties.status = ?", f.Status)
	}

	if f.Room != nil {
		q = q.Where("properties.rooms = ?", *f.Room)
	}
	if f.Floor != nil {
		q = q.Where("properties.floor = ?", *f.Floor)
	}

	if f.MinArea != nil {
		q = q.Where("properties.area >= ?", *f.MinArea)
	}
	if f.MaxArea != nil {
		q = q.Where("properties.area <= ?", *f.MaxArea)
	}
	if f.MinPrice != nil {
		q = q.Where("properties.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("properties.price <= ?", *f.MaxPrice)
	}
	if f.MinViews != nil {
		q = q.Where("properties.views >= ?", *f.MinViews)
	}
	if f.MaxViews != nil {
		q = q.Where("properties.views <= ?", *f.MaxViews)
	}
	if f.MinSaves != nil {
		q = q.Where("properties.saves >= ?", *f.MinSaves)
	}
	if f.MaxSaves != nil {
		q = q.Where("properties.saves <= ?", *f.MaxSaves)
	}

	if f.CommissionedAfter != nil {
		q = q.Where("properties.commissioning_date >= ?", *f.CommissionedAfter)
	}
	if f.CommissionedBefore != nil {
		q = q.Where("properties.commissioning_date <= ?", *f.CommissionedBefore)
	}
	if f.CreatedAfter != nil {
		q = q.Where("properties.created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		q = q.Where("properties.created_at <= ?", *f.CreatedBefore)
	}
	if f.UpdatedAfter != nil {
		q = q.Where("properties.updated_at >= ?", *f.UpdatedAfter)
	}
	if f.UpdatedBefore != nil {
		q = q.Where("properties.updated_at <= ?", *f.UpdatedBefore)
	}

	if len(f.Amenities) > 0 {
		// AND semantics: the property must carry every listed amenity.
		// DISTINCT guards against duplicated join rows.
		q = q.Joins("JOIN property_amenities pa ON pa.property_id = properties.id").
			Joins("JOIN amenities a ON a.id = pa.amenity_id").
			Where("a.name IN ?", f.Amenities).
			Group("properties.id").
			Having("COUNT(DISTINCT a.name) = ?", len(f.Amenities))
	}

	return q.Order(OrderClause(f.Ordering))
}

// Apply translates the owner-scoped filter into predicates. Columns are
// prefixed so the same filter works when properties is a joined table.
func (f *PropertyFilter) Apply(q *gorm.DB) *gorm.DB {
	if f.ID != nil {
		q = q.Where("properties.id = ?", *f.ID)
	}
	if f.MinPrice != nil {
		q = q.Where("properties.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("properties.price <= ?", *f.MaxPrice)
	}
	if f.Status != "" {
		q = q.Where("properties.status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("properties.type = ?", f.Type)
	}
	if f.Category != "" {
		q = likeContains(q.Joins("JOIN categories ON categories.id = properties.category_id"), "categories.name", f.Category)
	}
	return q.Order(OrderClause(f.Ordering))
}
