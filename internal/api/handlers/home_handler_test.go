package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/amirsaid123/UY-Bor/internal/api/handlers"
	"github.com/amirsaid123/UY-Bor/internal/models"
	"github.com/amirsaid123/UY-Bor/internal/services"
)

func newHomeRouter(svc services.IContentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewHomeHandler(svc)
	r := gin.New()
	r.GET("/vip/properties", handler.VipProperties)
	r.GET("/residential/complex/", handler.ResidentialComplexes)
	r.GET("/videos/", handler.Videos)
	r.GET("/blogs/", handler.Blogs)
	r.GET("/static/pages", handler.StaticPages)
	return r
}

func TestHomeHandler_VipProperties(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newHomeRouter(mockSvc)

	mockSvc.On("VipProperties", mock.Anything).Return([]models.Property{
		{Title: "Sky Gardens Penthouse", Label: models.LabelVip},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/vip/properties", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody []models.Property
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Len(t, respBody, 1)
	assert.Equal(t, models.LabelVip, respBody[0].Label)
	mockSvc.AssertExpectations(t)
}

func TestHomeHandler_VipProperties_Error(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newHomeRouter(mockSvc)

	mockSvc.On("VipProperties", mock.Anything).Return(nil, assert.AnError)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/vip/properties", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHomeHandler_Blogs(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newHomeRouter(mockSvc)

	mockSvc.On("Blogs", mock.Anything).Return([]models.Blog{{Title: "Market report"}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/blogs/", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Market report")
}

func TestHomeHandler_Videos(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newHomeRouter(mockSvc)

	mockSvc.On("Videos", mock.Anything).Return([]models.Video{{Title: "City tour"}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/videos/", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "City tour")
}

func TestHomeHandler_StaticPages(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newHomeRouter(mockSvc)

	mockSvc.On("StaticPages", mock.Anything).Return([]models.StaticPage{{Title: "About us"}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/static/pages", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "About us")
}

func TestHomeHandler_ResidentialComplexes(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newHomeRouter(mockSvc)

	mockSvc.On("ResidentialComplexes", mock.Anything).Return([]models.ResidentialComplex{{Name: "Sky Gardens"}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/residential/complex/", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sky Gardens")
}
