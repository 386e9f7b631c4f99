package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/amirsaid123/UY-Bor/internal/api/handlers"
	"github.com/amirsaid123/UY-Bor/internal/api/middleware"
	"github.com/amirsaid123/UY-Bor/internal/models"
	"github.com/amirsaid123/UY-Bor/internal/services"
)

type profileMocks struct {
	user     *MockUserService
	property *MockPropertyService
	wishlist *MockWishlistService
	message  *MockMessageService
}

// newProfileRouter wires the full /user/profile surface with the caller
// pinned to user 7, the way the auth middleware would after token validation.
func newProfileRouter() (*gin.Engine, *profileMocks) {
	gin.SetMode(gin.TestMode)
	m := &profileMocks{
		user:     new(MockUserService),
		property: new(MockPropertyService),
		wishlist: new(MockWishlistService),
		message:  new(MockMessageService),
	}
	handler := handlers.NewProfileHandler(m.user, m.property, m.wishlist, m.message)

	r := gin.New()
	profile := r.Group("/user/profile")
	profile.Use(func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, uint(7))
	})
	profile.GET("/", handler.GetProfile)
	profile.PATCH("/update/", handler.UpdateProfile)
	profile.GET("/balance/", handler.GetBalance)
	profile.PUT("/fill/balance/", handler.FillBalance)
	profile.GET("/transactions/", handler.Transactions)
	profile.GET("/tariffs/", handler.Tariffs)
	profile.GET("/messages/", handler.Messages)
	profile.POST("/messages/send/", handler.SendMessage)
	profile.GET("/wishlist/", handler.Wishlist)
	profile.PATCH("/wishlist/:id", handler.ToggleWishlist)
	profile.GET("/properties/", handler.MyProperties)
	profile.POST("/properties/", handler.CreateProperty)
	profile.PATCH("/properties/:id", handler.UpdateProperty)
	profile.PATCH("/properties/:id/deactivate", handler.DeactivateProperty)
	profile.DELETE("/properties/:id", handler.DeleteProperty)
	profile.POST("/properties/:id/images", handler.RequestImageUpload)
	profile.POST("/properties/:id/images/confirm", handler.ConfirmImageUpload)
	return r, m
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestProfileHandler_GetProfile(t *testing.T) {
	r, m := newProfileRouter()

	user := &models.User{PhoneNumber: "+998901234567", FirstName: "Aziz"}
	user.ID = 7
	m.user.On("GetProfile", mock.Anything, uint(7)).Return(user, nil)

	w := doRequest(r, "GET", "/user/profile/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Aziz")
	m.user.AssertExpectations(t)
}

func TestProfileHandler_UpdateProfile_PartialFields(t *testing.T) {
	r, m := newProfileRouter()

	user := &models.User{FirstName: "Aziz", LastName: "Karimov"}
	user.ID = 7
	m.user.On("UpdateProfile", mock.Anything, uint(7), map[string]interface{}{
		"first_name": "Aziz",
		"last_name":  "Karimov",
	}).Return(user, nil)

	w := doRequest(r, "PATCH", "/user/profile/update/", `{"first_name": "Aziz", "last_name": "Karimov"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	m.user.AssertExpectations(t)
}

func TestProfileHandler_GetBalance(t *testing.T) {
	r, m := newProfileRouter()

	m.user.On("GetBalance", mock.Anything, uint(7)).Return(125.5, nil)

	w := doRequest(r, "GET", "/user/profile/balance/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]float64
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, 125.5, respBody["balance"])
}

func TestProfileHandler_FillBalance_Success(t *testing.T) {
	r, m := newProfileRouter()

	m.user.On("FillBalance", mock.Anything, uint(7), 100.0, "8600123412341234", "1234").Return(225.5, nil)

	w := doRequest(r, "PUT", "/user/profile/fill/balance/",
		`{"amount": 100, "card_number": "8600123412341234", "password": "1234"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, "Balance updated successfully", respBody["message"])
	assert.Equal(t, 225.5, respBody["new_balance"])
	m.user.AssertExpectations(t)
}

func TestProfileHandler_FillBalance_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"bad amount", services.ErrInvalidAmount},
		{"bad card", services.ErrInvalidCardNumber},
		{"bad pin", services.ErrInvalidCardPIN},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, m := newProfileRouter()
			m.user.On("FillBalance", mock.Anything, uint(7), mock.Anything, mock.Anything, mock.Anything).
				Return(0.0, tc.err)

			w := doRequest(r, "PUT", "/user/profile/fill/balance/",
				`{"amount": -1, "card_number": "x", "password": "y"}`)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tc.err.Error())
		})
	}
}

func TestProfileHandler_Transactions(t *testing.T) {
	r, m := newProfileRouter()

	m.user.On("ListTransactions", mock.Anything, uint(7)).Return([]models.Transaction{
		{UserID: 7, Amount: 100},
		{UserID: 7, Amount: 50.5},
	}, nil)

	w := doRequest(r, "GET", "/user/profile/transactions/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody []models.Transaction
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Len(t, respBody, 2)
}

func TestProfileHandler_Tariffs(t *testing.T) {
	r, m := newProfileRouter()

	m.user.On("ListTariffs", mock.Anything, uint(7)).Return([]models.Tariff{{Name: "Start"}}, nil)

	w := doRequest(r, "GET", "/user/profile/tariffs/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Start")
}

func TestProfileHandler_SendMessage(t *testing.T) {
	r, m := newProfileRouter()

	message := &models.Message{SenderID: 7, ReceiverID: 9, Text: "Is it still available?"}
	m.message.On("Send", mock.Anything, uint(7), uint(9), "Is it still available?").Return(message, nil)

	w := doRequest(r, "POST", "/user/profile/messages/send/",
		`{"receiver_id": 9, "text": "Is it still available?"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	m.message.AssertExpectations(t)
}

func TestProfileHandler_SendMessage_UnknownRecipient(t *testing.T) {
	r, m := newProfileRouter()

	m.message.On("Send", mock.Anything, uint(7), uint(999), "hello").Return(nil, services.ErrNotFound)

	w := doRequest(r, "POST", "/user/profile/messages/send/", `{"receiver_id": 999, "text": "hello"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Recipient not found")
}

func TestProfileHandler_SendMessage_MissingFields(t *testing.T) {
	r, m := newProfileRouter()

	w := doRequest(r, "POST", "/user/profile/messages/send/", `{"text": "hello"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.message.AssertNotCalled(t, "Send")
}

func TestProfileHandler_ToggleWishlist_Added(t *testing.T) {
	r, m := newProfileRouter()

	m.wishlist.On("Toggle", mock.Anything, uint(7), uint(3)).Return(true, nil)

	w := doRequest(r, "PATCH", "/user/profile/wishlist/3", "")

	assert.Equal(t, http.StatusCreated, w.Code)
	var respBody map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, "Added to wishlist.", respBody["detail"])
}

func TestProfileHandler_ToggleWishlist_Removed(t *testing.T) {
	r, m := newProfileRouter()

	m.wishlist.On("Toggle", mock.Anything, uint(7), uint(3)).Return(false, nil)

	w := doRequest(r, "PATCH", "/user/profile/wishlist/3", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, "Removed from wishlist.", respBody["detail"])
}

func TestProfileHandler_ToggleWishlist_UnknownProperty(t *testing.T) {
	r, m := newProfileRouter()

	m.wishlist.On("Toggle", mock.Anything, uint(7), uint(404)).Return(false, services.ErrNotFound)

	w := doRequest(r, "PATCH", "/user/profile/wishlist/404", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileHandler_Wishlist_FilterFromQuery(t *testing.T) {
	r, m := newProfileRouter()

	m.wishlist.On("List", mock.Anything, uint(7), mock.MatchedBy(func(f *services.PropertyFilter) bool {
		return f.MaxPrice != nil && *f.MaxPrice == 90000 && f.Ordering == "lowest_price"
	})).Return([]models.Property{}, nil)

	w := doRequest(r, "GET", "/user/profile/wishlist/?max_price=90000&ordering=lowest_price", "")

	assert.Equal(t, http.StatusOK, w.Code)
	m.wishlist.AssertExpectations(t)
}

func TestProfileHandler_CreateProperty(t *testing.T) {
	r, m := newProfileRouter()

	m.property.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Property) bool {
		return p.UserID == 7 && p.Title == "New listing" && p.Type == models.TypeSale && p.CategoryID == 2
	})).Return(nil)

	w := doRequest(r, "POST", "/user/profile/properties/",
		`{"title": "New listing", "category_id": 2, "type": "sale", "price": 75000}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	m.property.AssertExpectations(t)
}

func TestProfileHandler_CreateProperty_MissingRequired(t *testing.T) {
	r, m := newProfileRouter()

	w := doRequest(r, "POST", "/user/profile/properties/", `{"title": "No category"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.property.AssertNotCalled(t, "Create")
}

func TestProfileHandler_CreateProperty_InvalidEnum(t *testing.T) {
	r, m := newProfileRouter()

	w := doRequest(r, "POST", "/user/profile/properties/",
		`{"title": "Bad type", "category_id": 2, "type": "lease"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid type")
	m.property.AssertNotCalled(t, "Create")
}

func TestProfileHandler_UpdateProperty(t *testing.T) {
	r, m := newProfileRouter()

	property := &models.Property{Title: "Renamed"}
	property.ID = 5
	m.property.On("Update", mock.Anything, uint(7), uint(5), map[string]interface{}{
		"title": "Renamed",
		"price": 60000.0,
	}).Return(property, nil)

	w := doRequest(r, "PATCH", "/user/profile/properties/5", `{"title": "Renamed", "price": 60000}`)

	assert.Equal(t, http.StatusOK, w.Code)
	m.property.AssertExpectations(t)
}

func TestProfileHandler_UpdateProperty_InvalidEnum(t *testing.T) {
	r, m := newProfileRouter()

	w := doRequest(r, "PATCH", "/user/profile/properties/5", `{"material": "wood"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.property.AssertNotCalled(t, "Update")
}

func TestProfileHandler_DeactivateProperty(t *testing.T) {
	r, m := newProfileRouter()

	property := &models.Property{Status: models.StatusInactive}
	property.ID = 5
	m.property.On("Deactivate", mock.Anything, uint(7), uint(5)).Return(property, nil)

	w := doRequest(r, "PATCH", "/user/profile/properties/5/deactivate", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "inactive")
}

func TestProfileHandler_DeactivateProperty_AlreadyInactive(t *testing.T) {
	r, m := newProfileRouter()

	m.property.On("Deactivate", mock.Anything, uint(7), uint(5)).Return(nil, services.ErrAlreadyInactive)

	w := doRequest(r, "PATCH", "/user/profile/properties/5/deactivate", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Property is already inactive")
}

func TestProfileHandler_DeactivateProperty_NotOwned(t *testing.T) {
	r, m := newProfileRouter()

	m.property.On("Deactivate", mock.Anything, uint(7), uint(5)).Return(nil, services.ErrNotFound)

	w := doRequest(r, "PATCH", "/user/profile/properties/5/deactivate", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileHandler_DeleteProperty(t *testing.T) {
	r, m := newProfileRouter()

	m.property.On("Delete", mock.Anything, uint(7), uint(5)).Return(nil)

	w := doRequest(r, "DELETE", "/user/profile/properties/5", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	m.property.AssertExpectations(t)
}

func TestProfileHandler_RequestImageUpload(t *testing.T) {
	r, m := newProfileRouter()

	m.property.On("RequestImageUpload", mock.Anything, uint(7), uint(5), "photo.jpg", "image/jpeg").
		Return("https://s3.example.com/presigned", "uploads/user_7/property_5/abc_photo.jpg", nil)

	w := doRequest(r, "POST", "/user/profile/properties/5/images",
		`{"filename": "photo.jpg", "content_type": "image/jpeg"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var respBody map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, "https://s3.example.com/presigned", respBody["upload_url"])
	assert.Equal(t, "uploads/user_7/property_5/abc_photo.jpg", respBody["s3_key"])
}

func TestProfileHandler_ConfirmImageUpload(t *testing.T) {
	r, m := newProfileRouter()

	m.property.On("ConfirmImageUpload", mock.Anything, uint(7), uint(5), "uploads/user_7/property_5/abc_photo.jpg").
		Return(nil)

	w := doRequest(r, "POST", "/user/profile/properties/5/images/confirm",
		`{"s3_key": "uploads/user_7/property_5/abc_photo.jpg"}`)

	assert.Equal(t, http.StatusAccepted, w.Code)
	m.property.AssertExpectations(t)
}
