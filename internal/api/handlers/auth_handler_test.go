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
	"github.com/amirsaid123/UY-Bor/internal/auth"
	"github.com/amirsaid123/UY-Bor/internal/models"
	"github.com/amirsaid123/UY-Bor/internal/services"
)

func newAuthRouter(svc services.IAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewAuthHandler(svc)
	r := gin.New()
	r.POST("/auth/sendcode/", handler.SendCode)
	r.POST("/auth/login/", handler.Login)
	r.POST("/auth/refresh/", handler.Refresh)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_SendCode_Success(t *testing.T) {
	mockSvc := new(MockAuthService)
	r := newAuthRouter(mockSvc)

	mockSvc.On("SendCode", mock.Anything, "+998901234567").Return(&models.PhoneVerification{
		PhoneNumber: "+998901234567",
		Code:        "123456",
	}, nil)

	w := postJSON(r, "/auth/sendcode/", `{"phone_number": "+998901234567"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, "+998901234567", respBody["phone_number"])
	assert.Equal(t, "123456", respBody["random_code"])
	mockSvc.AssertExpectations(t)
}

func TestAuthHandler_SendCode_MissingPhone(t *testing.T) {
	mockSvc := new(MockAuthService)
	r := newAuthRouter(mockSvc)

	w := postJSON(r, "/auth/sendcode/", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Phone number is required")
	mockSvc.AssertNotCalled(t, "SendCode")
}

func TestAuthHandler_SendCode_InvalidPhone(t *testing.T) {
	mockSvc := new(MockAuthService)
	r := newAuthRouter(mockSvc)

	mockSvc.On("SendCode", mock.Anything, "12345").Return(nil, services.ErrInvalidPhoneNumber)

	w := postJSON(r, "/auth/sendcode/", `{"phone_number": "12345"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid Phone Number")
}

func TestAuthHandler_Login_NewUser(t *testing.T) {
	mockSvc := new(MockAuthService)
	r := newAuthRouter(mockSvc)

	user := &models.User{PhoneNumber: "+998901234567"}
	user.ID = 42
	mockSvc.On("Login", mock.Anything, "+998901234567", "123456").Return(user, true, nil)
	mockSvc.On("GenerateTokens", uint(42)).Return(&auth.TokenPair{Access: "a", Refresh: "r"}, nil)

	w := postJSON(r, "/auth/login/", `{"phone_number": "+998901234567", "code": "123456"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, "User registered and logged in", respBody["message"])
	assert.Equal(t, float64(42), respBody["user_id"])
	tokens := respBody["tokens"].(map[string]interface{})
	assert.Equal(t, "a", tokens["access"])
	assert.Equal(t, "r", tokens["refresh"])
	mockSvc.AssertExpectations(t)
}

func TestAuthHandler_Login_ExistingUser(t *testing.T) {
	mockSvc := new(MockAuthService)
	r := newAuthRouter(mockSvc)

	user := &models.User{PhoneNumber: "+998901234567"}
	user.ID = 42
	mockSvc.On("Login", mock.Anything, "+998901234567", "123456").Return(user, false, nil)
	mockSvc.On("GenerateTokens", uint(42)).Return(&auth.TokenPair{Access: "a", Refresh: "r"}, nil)

	w := postJSON(r, "/auth/login/", `{"phone_number": "+998901234567", "code": "123456"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User logged in")
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	mockSvc := new(MockAuthService)
	r := newAuthRouter(mockSvc)

	w := postJSON(r, "/auth/login/", `{"code": "123456"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Phone number is required")

	w = postJSON(r, "/auth/login/", `{"phone_number": "+998901234567"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Code is required")

	mockSvc.AssertNotCalled(t, "Login")
}

func TestAuthHandler_Login_WrongCode(t *testing.T) {
	mockSvc := new(MockAuthService)
	r := newAuthRouter(mockSvc)

	mockSvc.On("Login", mock.Anything, "+998901234567", "000000").Return(nil, false, services.ErrInvalidCode)

	w := postJSON(r, "/auth/login/", `{"phone_number": "+998901234567", "code": "000000"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid code")
	mockSvc.AssertNotCalled(t, "GenerateTokens")
}

func TestAuthHandler_Refresh(t *testing.T) {
	mockSvc := new(MockAuthService)
	r := newAuthRouter(mockSvc)

	mockSvc.On("Refresh", "good-token").Return(&auth.TokenPair{Access: "a2", Refresh: "r2"}, nil)

	w := postJSON(r, "/auth/refresh/", `{"refresh": "good-token"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, "a2", respBody["tokens"]["access"])
}

func TestAuthHandler_Refresh_Invalid(t *testing.T) {
	mockSvc := new(MockAuthService)
	r := newAuthRouter(mockSvc)

	mockSvc.On("Refresh", "bad-token").Return(nil, assert.AnError)

	w := postJSON(r, "/auth/refresh/", `{"refresh": "bad-token"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired refresh token")
}
