package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/amirsaid123/UY-Bor/internal/api/handlers"
	"github.com/amirsaid123/UY-Bor/internal/api/middleware"
	"github.com/amirsaid123/UY-Bor/internal/captcha"
	"github.com/amirsaid123/UY-Bor/internal/config"
	"github.com/amirsaid123/UY-Bor/internal/services"
	"github.com/amirsaid123/UY-Bor/internal/storage"
	"github.com/amirsaid123/UY-Bor/internal/tasks"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, gdb *gorm.DB, rdb *redis.Client, taskClient tasks.Enqueuer) *gin.Engine {
	// Initialize services needed by API handlers
	authService := services.NewAuthService(gdb, cfg, taskClient)
	userService := services.NewUserService(gdb)
	wishlistService := services.NewWishlistService(gdb)
	messageService := services.NewMessageService(gdb)
	contentService := services.NewContentService(gdb, rdb, cfg)

	s3StorageService, err := storage.NewS3Storage(cfg)
	if err != nil {
		log.Fatalf("CRITICAL: Failed to initialize S3 storage for API: %v", err)
	}
	propertyService := services.NewPropertyService(gdb, s3StorageService, taskClient)

	captchaVerifier := captcha.NewTurnstileVerifier(cfg)

	r := gin.Default()

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)

	// Global middleware first (order matters)
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.CaptchaMiddleware(cfg, captchaVerifier))
	r.Use(rateLimiter.Limit())

	authHandler := handlers.NewAuthHandler(authService)
	searchHandler := handlers.NewSearchHandler(propertyService)
	homeHandler := handlers.NewHomeHandler(contentService)
	profileHandler := handlers.NewProfileHandler(userService, propertyService, wishlistService, messageService)

	// Public routes (rate limiting already applied globally)
	auth := r.Group("/auth")
	{
		auth.POST("/sendcode/", authHandler.SendCode)
		auth.POST("/login/", authHandler.Login)
		auth.POST("/refresh/", authHandler.Refresh)
	}

	r.GET("/search/", searchHandler.Search)
	r.GET("/property/:id", searchHandler.GetProperty)

	// Home page content
	r.GET("/vip/properties", homeHandler.VipProperties)
	r.GET("/residential/complex/", homeHandler.ResidentialComplexes)
	r.GET("/videos/", homeHandler.Videos)
	r.GET("/blogs/", homeHandler.Blogs)
	r.GET("/static/pages", homeHandler.StaticPages)

	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	// Authenticated routes
	profile := r.Group("/user/profile")
	profile.Use(middleware.AuthMiddleware(cfg.JwtSecret))
	{
		profile.GET("/", profileHandler.GetProfile)
		profile.PATCH("/update/", profileHandler.UpdateProfile)

		profile.GET("/balance/", profileHandler.GetBalance)
		profile.PUT("/fill/balance/", profileHandler.FillBalance)
		profile.GET("/transactions/", profileHandler.Transactions)
		profile.GET("/tariffs/", profileHandler.Tariffs)

		profile.GET("/messages/", profileHandler.Messages)
		profile.POST("/messages/send/", profileHandler.SendMessage)

		profile.GET("/wishlist/", profileHandler.Wishlist)
		profile.PATCH("/wishlist/:id", profileHandler.ToggleWishlist)

		profile.GET("/properties/", profileHandler.MyProperties)
		profile.POST("/properties/", profileHandler.CreateProperty)
		profile.PATCH("/properties/:id", profileHandler.UpdateProperty)
		profile.PATCH("/properties/:id/deactivate", profileHandler.DeactivateProperty)
		profile.DELETE("/properties/:id", profileHandler.DeleteProperty)
		profile.POST("/properties/:id/images", profileHandler.RequestImageUpload)
		profile.POST("/properties/:id/images/confirm", profileHandler.ConfirmImageUpload)
	}

	return r
}

// SetupServiceRouter configures and returns the service Gin engine.
// Requires Redis for the getTestSms endpoint.
func SetupServiceRouter(cfg *config.Config, rdb *redis.Client, shutdownChan chan<- struct{}) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.POST("/api", func(c *gin.Context) {
		var req struct {
			Method    string          `json:"method"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
			return
		}

		switch req.Method {
		case "shutdown":
			fmt.Println("Received shutdown command via Service API")
			c.JSON(http.StatusOK, gin.H{"success": true, "result": "Shutdown initiated"})
			select {
			case shutdownChan <- struct{}{}:
				fmt.Println("Shutdown signal sent successfully.")
			default:
				fmt.Println("Shutdown channel already signaled or blocked.")
			}
		case "getTestSms":
			var args []string // Expect ["phone_number"]
			if err := json.Unmarshal(req.Arguments, &args); err != nil || len(args) != 1 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid arguments: expected JSON array [phoneNumber]"})
				return
			}
			redisKey := fmt.Sprintf("mocksms:%s", args[0])

			// Poll Redis briefly for the key
			var smsJsonData string
			var getErr error
			found := false
			ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
			defer cancel()
			for i := 0; i < 10; i++ { // Poll up to ~2 seconds
				smsJsonData, getErr = rdb.Get(ctx, redisKey).Result()
				if getErr == nil {
					found = true
					rdb.Del(ctx, redisKey) // Delete after fetching
					break
				}
				if getErr != redis.Nil {
					log.Printf("Service API: Error getting key %s from Redis: %v", redisKey, getErr)
					c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Redis error"})
					return
				}
				// If redis.Nil, wait and retry
				time.Sleep(200 * time.Millisecond)
			}

			if !found {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Test SMS not found in Redis for key %s", redisKey)})
				return
			}

			var smsData map[string]interface{}
			if err := json.Unmarshal([]byte(smsJsonData), &smsData); err != nil {
				log.Printf("Service API: Error unmarshalling SMS data from key %s: %v", redisKey, err)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to parse stored SMS data"})
				return
			}

			c.JSON(http.StatusOK, gin.H{"success": true, "data": smsData})

		default:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Unknown service method: %s", req.Method)})
		}
	})
	return r
}
