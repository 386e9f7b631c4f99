package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amirsaid123/UY-Bor/internal/services"
)

// SearchHandler handles the public listing surface.
type SearchHandler struct {
	propertyService services.IPropertyService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(propertyService services.IPropertyService) *SearchHandler {
	return &SearchHandler{propertyService: propertyService}
}

func queryFloat(c *gin.Context, name string) *float64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func queryInt(c *gin.Context, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func queryTime(c *gin.Context, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if v, err := time.Parse(layout, raw); err == nil {
			return &v
		}
	}
	return nil
}

// queryList splits a comma-separated parameter, trimming blanks.
func queryList(c *gin.Context, name string) []string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// Search handles GET /search/
func (h *SearchHandler) Search(c *gin.Context) {
	filter := services.SearchFilter{
		Search:          c.Query("search"),
		Name:            c.Query("name"),
		Description:     c.Query("description"),
		Category:        c.Query("category"),
		City:            c.Query("city"),
		Region:          c.Query("region"),
		Metro:           c.Query("metro"),
		District:        c.Query("district"),
		Country:         c.Query("country"),
		ResidentialName: c.Query("residential_name"),

		Type:            c.Query("type"),
		Material:        c.Query("material"),
		Renovation:      c.Query("renovation"),
		Repair:          c.Query("repair"),
		Label:           c.Query("label"),
		ResidentialType: c.Query("residential_type"),
		Status:          c.Query("status"),

		Room:  queryInt(c, "room"),
		Floor: queryInt(c, "floor"),

		MinArea:  queryFloat(c, "min_area"),
		MaxArea:  queryFloat(c, "max_area"),
		MinPrice: queryFloat(c, "min_price"),
		MaxPrice: queryFloat(c, "max_price"),
		MinViews: queryInt(c, "min_views"),
		MaxViews: queryInt(c, "max_views"),
		MinSaves: queryInt(c, "min_saves"),
		MaxSaves: queryInt(c, "max_saves"),

		CommissionedAfter:  queryTime(c, "commissioned_after"),
		CommissionedBefore: queryTime(c, "commissioned_before"),
		CreatedAfter:       queryTime(c, "created_after"),
		CreatedBefore:      queryTime(c, "created_before"),
		UpdatedAfter:       queryTime(c, "updated_after"),
		UpdatedBefore:      queryTime(c, "updated_before"),

		Amenities: queryList(c, "amenities"),

		Ordering: c.Query("ordering"),
	}

	properties, err := h.propertyService.Search(c.Request.Context(), &filter)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search properties"})
		return
	}

	c.JSON(http.StatusOK, properties)
}

// GetProperty handles GET /property/:id
func (h *SearchHandler) GetProperty(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}

	property, err := h.propertyService.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load property"})
		return
	}

	c.JSON(http.StatusOK, property)
}
