package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amirsaid123/UY-Bor/internal/services"
)

// HomeHandler serves the read-only home/content endpoints.
type HomeHandler struct {
	contentService services.IContentService
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(contentService services.IContentService) *HomeHandler {
	return &HomeHandler{contentService: contentService}
}

// VipProperties handles GET /vip/properties
func (h *HomeHandler) VipProperties(c *gin.Context) {
	properties, err := h.contentService.VipProperties(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load vip properties"})
		return
	}
	c.JSON(http.StatusOK, properties)
}

// ResidentialComplexes handles GET /residential/complex/
func (h *HomeHandler) ResidentialComplexes(c *gin.Context) {
	complexes, err := h.contentService.ResidentialComplexes(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load residential complexes"})
		return
	}
	c.JSON(http.StatusOK, complexes)
}

// Videos handles GET /videos/
func (h *HomeHandler) Videos(c *gin.Context) {
	videos, err := h.contentService.Videos(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load videos"})
		return
	}
	c.JSON(http.StatusOK, videos)
}

// Blogs handles GET /blogs/
func (h *HomeHandler) Blogs(c *gin.Context) {
	blogs, err := h.contentService.Blogs(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load blogs"})
		return
	}
	c.JSON(http.StatusOK, blogs)
}

// StaticPages handles GET /static/pages
func (h *HomeHandler) StaticPages(c *gin.Context) {
	pages, err := h.contentService.StaticPages(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load static pages"})
		return
	}
	c.JSON(http.StatusOK, pages)
}
