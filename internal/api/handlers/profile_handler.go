package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/amirsaid123/UY-Bor/internal/api/middleware"
	"github.com/amirsaid123/UY-Bor/internal/models"
	"github.com/amirsaid123/UY-Bor/internal/services"
)

// ProfileHandler handles everything under /user/profile/. The caller is
// always the token subject resolved by the auth middleware.
type ProfileHandler struct {
	userService     services.IUserService
	propertyService services.IPropertyService
	wishlistService services.IWishlistService
	messageService  services.IMessageService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(
	userService services.IUserService,
	propertyService services.IPropertyService,
	wishlistService services.IWishlistService,
	messageService services.IMessageService,
) *ProfileHandler {
	return &ProfileHandler{
		userService:     userService,
		propertyService: propertyService,
		wishlistService: wishlistService,
		messageService:  messageService,
	}
}

func currentUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	}
	return userID, ok
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

// propertyFilterFromQuery builds the owner-scoped filter from query params.
func propertyFilterFromQuery(c *gin.Context) *services.PropertyFilter {
	filter := services.PropertyFilter{
		MinPrice: queryFloat(c, "min_price"),
		MaxPrice: queryFloat(c, "max_price"),
		Status:   c.Query("status"),
		Type:     c.Query("type"),
		Category: c.Query("category"),
		Ordering: c.Query("ordering"),
	}
	if id := queryInt(c, "id"); id != nil && *id > 0 {
		v := uint(*id)
		filter.ID = &v
	}
	return &filter
}

// --- Profile ---

// GetProfile handles GET /user/profile/
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Email        *string `json:"email"`
	Avatar       *string `json:"avatar"`
	Organization *string `json:"organization"`
	CardNumber   *string `json:"card_number"`
}

// UpdateProfile handles PATCH /user/profile/update/
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.Organization != nil {
		updates["organization"] = *req.Organization
	}
	if req.CardNumber != nil {
		updates["card_number"] = *req.CardNumber
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, updates)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// --- Wallet ---

// GetBalance handles GET /user/profile/balance/
func (h *ProfileHandler) GetBalance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	balance, err := h.userService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load balance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

type fillBalanceRequest struct {
	Amount     float64 `json:"amount"`
	CardNumber string  `json:"card_number"`
	Password   string  `json:"password"`
}

// FillBalance handles PUT /user/profile/fill/balance/
func (h *ProfileHandler) FillBalance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req fillBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	newBalance, err := h.userService.FillBalance(c.Request.Context(), userID, req.Amount, req.CardNumber, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount),
			errors.Is(err, services.ErrInvalidCardNumber),
			errors.Is(err, services.ErrInvalidCardPIN):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update balance"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Balance updated successfully",
		"new_balance": newBalance,
	})
}

// Transactions handles GET /user/profile/transactions/
func (h *ProfileHandler) Transactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	transactions, err := h.userService.ListTransactions(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// Tariffs handles GET /user/profile/tariffs/
func (h *ProfileHandler) Tariffs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tariffs, err := h.userService.ListTariffs(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tariffs"})
		return
	}
	c.JSON(http.StatusOK, tariffs)
}

// --- Messaging ---

// Messages handles GET /user/profile/messages/
func (h *ProfileHandler) Messages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	messages, err := h.messageService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

type sendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id"`
	Text       string `json:"text"`
}

// SendMessage handles POST /user/profile/messages/send/
func (h *ProfileHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ReceiverID == 0 || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "receiver_id and text are required"})
		return
	}

	message, err := h.messageService.Send(c.Request.Context(), userID, req.ReceiverID, req.Text)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Recipient not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}
	c.JSON(http.StatusCreated, message)
}

// --- Wishlist ---

// Wishlist handles GET /user/profile/wishlist/
func (h *ProfileHandler) Wishlist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	properties, err := h.wishlistService.List(c.Request.Context(), userID, propertyFilterFromQuery(c))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wishlist"})
		return
	}
	c.JSON(http.StatusOK, properties)
}

// ToggleWishlist handles PATCH /user/profile/wishlist/:id
func (h *ProfileHandler) ToggleWishlist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	propertyID, ok := pathID(c)
	if !ok {
		return
	}

	added, err := h.wishlistService.Toggle(c.Request.Context(), userID, propertyID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle wishlist"})
		return
	}

	if added {
		c.JSON(http.StatusCreated, gin.H{"detail": "Added to wishlist."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Removed from wishlist."})
}

// --- Owner-scoped properties ---

// MyProperties handles GET /user/profile/properties/
func (h *ProfileHandler) MyProperties(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	properties, err := h.propertyService.ListByOwner(c.Request.Context(), userID, propertyFilterFromQuery(c))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load properties"})
		return
	}
	c.JSON(http.StatusOK, properties)
}

type propertyRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CategoryID  uint    `json:"category_id"`
	Price       float64 `json:"price"`

	Type            string `json:"type"`
	Label           string `json:"label"`
	Material        string `json:"material"`
	Renovation      string `json:"renovation"`
	Repair          string `json:"repair"`
	ResidentialType string `json:"residential_type"`

	Rooms       int     `json:"rooms"`
	Area        float64 `json:"area"`
	Floor       int     `json:"floor"`
	TotalFloors int     `json:"total_floors"`

	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	CountryID            *uint `json:"country_id"`
	RegionID             *uint `json:"region_id"`
	CityID               *uint `json:"city_id"`
	DistrictID           *uint `json:"district_id"`
	MetroID              *uint `json:"metro_id"`
	ResidentialComplexID *uint `json:"residential_complex_id"`
}

// validateEnums rejects values outside the closed sets. Empty means unset.
func (r *propertyRequest) validateEnums() string {
	if r.Type != "" && !models.PropertyType(r.Type).Valid() {
		return "Invalid type"
	}
	if r.Label != "" && !models.Label(r.Label).Valid() {
		return "Invalid label"
	}
	if r.Material != "" && !models.Material(r.Material).Valid() {
		return "Invalid material"
	}
	if r.Renovation != "" && !models.Renovation(r.Renovation).Valid() {
		return "Invalid renovation"
	}
	if r.Repair != "" && !models.Repair(r.Repair).Valid() {
		return "Invalid repair"
	}
	if r.ResidentialType != "" && !models.ResidentialType(r.ResidentialType).Valid() {
		return "Invalid residential_type"
	}
	return ""
}

// CreateProperty handles POST /user/profile/properties/
func (h *ProfileHandler) CreateProperty(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Title == "" || req.CategoryID == 0 || req.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, category_id and type are required"})
		return
	}
	if msg := req.validateEnums(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	property := models.Property{
		UserID:               userID,
		Title:                req.Title,
		Description:          req.Description,
		CategoryID:           req.CategoryID,
		Price:                req.Price,
		Type:                 models.PropertyType(req.Type),
		Label:                models.Label(req.Label),
		Material:             models.Material(req.Material),
		Renovation:           models.Renovation(req.Renovation),
		Repair:               models.Repair(req.Repair),
		ResidentialType:      models.ResidentialType(req.ResidentialType),
		Rooms:                req.Rooms,
		Area:                 req.Area,
		Floor:                req.Floor,
		TotalFloors:          req.TotalFloors,
		Address:              req.Address,
		Latitude:             req.Latitude,
		Longitude:            req.Longitude,
		CountryID:            req.CountryID,
		RegionID:             req.RegionID,
		CityID:               req.CityID,
		DistrictID:           req.DistrictID,
		MetroID:              req.MetroID,
		ResidentialComplexID: req.ResidentialComplexID,
	}

	if err := h.propertyService.Create(c.Request.Context(), &property); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property"})
		return
	}
	c.JSON(http.StatusCreated, property)
}

type propertyUpdateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	CategoryID  *uint    `json:"category_id"`
	Price       *float64 `json:"price"`

	Type            *string `json:"type"`
	Label           *string `json:"label"`
	Material        *string `json:"material"`
	Renovation      *string `json:"renovation"`
	Repair          *string `json:"repair"`
	ResidentialType *string `json:"residential_type"`

	Rooms       *int     `json:"rooms"`
	Area        *float64 `json:"area"`
	Floor       *int     `json:"floor"`
	TotalFloors *int     `json:"total_floors"`

	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// UpdateProperty handles PATCH /user/profile/properties/:id
// Status is deliberately not updatable here; the only exposed transition is
// the deactivate endpoint.
func (h *ProfileHandler) UpdateProperty(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	propertyID, ok := pathID(c)
	if !ok {
		return
	}

	var req propertyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updates := map[string]interface{}{}
	setEnum := func(column string, raw *string, valid func(string) bool) bool {
		if raw == nil {
			return true
		}
		if *raw != "" && !valid(*raw) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + column})
			return false
		}
		updates[column] = *raw
		return true
	}

	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if !setEnum("type", req.Type, func(v string) bool { return models.PropertyType(v).Valid() }) {
		return
	}
	if !setEnum("label", req.Label, func(v string) bool { return models.Label(v).Valid() }) {
		return
	}
	if !setEnum("material", req.Material, func(v string) bool { return models.Material(v).Valid() }) {
		return
	}
	if !setEnum("renovation", req.Renovation, func(v string) bool { return models.Renovation(v).Valid() }) {
		return
	}
	if !setEnum("repair", req.Repair, func(v string) bool { return models.Repair(v).Valid() }) {
		return
	}
	if !setEnum("residential_type", req.ResidentialType, func(v string) bool { return models.ResidentialType(v).Valid() }) {
		return
	}
	if req.Rooms != nil {
		updates["rooms"] = *req.Rooms
	}
	if req.Area != nil {
		updates["area"] = *req.Area
	}
	if req.Floor != nil {
		updates["floor"] = *req.Floor
	}
	if req.TotalFloors != nil {
		updates["total_floors"] = *req.TotalFloors
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}

	property, err := h.propertyService.Update(c.Request.Context(), userID, propertyID, updates)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update property"})
		return
	}
	c.JSON(http.StatusOK, property)
}

// DeactivateProperty handles PATCH /user/profile/properties/:id/deactivate
func (h *ProfileHandler) DeactivateProperty(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	propertyID, ok := pathID(c)
	if !ok {
		return
	}

	property, err := h.propertyService.Deactivate(c.Request.Context(), userID, propertyID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		case errors.Is(err, services.ErrAlreadyInactive):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Property is already inactive"})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate property"})
		}
		return
	}
	c.JSON(http.StatusOK, property)
}

// DeleteProperty handles DELETE /user/profile/properties/:id
func (h *ProfileHandler) DeleteProperty(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	propertyID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.propertyService.Delete(c.Request.Context(), userID, propertyID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete property"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// --- Images ---

type imageUploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// RequestImageUpload handles POST /user/profile/properties/:id/images
func (h *ProfileHandler) RequestImageUpload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	propertyID, ok := pathID(c)
	if !ok {
		return
	}

	var req imageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Filename == "" || req.ContentType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filename and content_type are required"})
		return
	}

	uploadURL, s3Key, err := h.propertyService.RequestImageUpload(c.Request.Context(), userID, propertyID, req.Filename, req.ContentType)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"upload_url": uploadURL,
		"s3_key":     s3Key,
	})
}

type imageConfirmRequest struct {
	S3Key string `json:"s3_key"`
}

// ConfirmImageUpload handles POST /user/profile/properties/:id/images/confirm
func (h *ProfileHandler) ConfirmImageUpload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	propertyID, ok := pathID(c)
	if !ok {
		return
	}

	var req imageConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.S3Key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "s3_key is required"})
		return
	}

	if err := h.propertyService.ConfirmImageUpload(c.Request.Context(), userID, propertyID, req.S3Key); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to schedule image processing"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Image queued for processing"})
}
