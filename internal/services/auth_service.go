package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"time"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirsaid123/UY-Bor/internal/auth"
	"github.com/amirsaid123/UY-Bor/internal/config"
	"github.com/amirsaid123/UY-Bor/internal/models"
	"github.com/amirsaid123/UY-Bor/internal/tasks"
)

// Uzbek mobile numbers only: +998 followed by exactly 9 digits.
var phoneRe = regexp.MustCompile(`^\+998\d{9}$`)

// IAuthService handles phone-code authentication.
type IAuthService interface {
	// SendCode validates the phone number, issues a fresh 6-digit code and
	// upserts the pending verification row for that phone.
	SendCode(ctx context.Context, phoneNumber string) (*models.PhoneVerification, error)
	// Login consumes a code and returns the user plus whether it was just
	// created by this login.
	Login(ctx context.Context, phoneNumber, code string) (*models.User, bool, error)
	// Refresh exchanges a valid refresh token for a new token pair.
	Refresh(refreshToken string) (*auth.TokenPair, error)
	// GenerateTokens issues a token pair for a known user.
	GenerateTokens(userID uint) (*auth.TokenPair, error)
}

type authService struct {
	db         *gorm.DB
	cfg        *config.Config
	taskClient tasks.Enqueuer
}

// NewAuthService creates the auth service. taskClient may be nil, in which
// case codes are only logged (test setups).
func NewAuthService(gdb *gorm.DB, cfg *config.Config, taskClient tasks.Enqueuer) IAuthService {
	return &authService{db: gdb, cfg: cfg, taskClient: taskClient}
}

func (s *authService) SendCode(ctx context.Context, phoneNumber string) (*models.PhoneVerification, error) {
	if !phoneRe.MatchString(phoneNumber) {
		return nil, ErrInvalidPhoneNumber
	}

	code := fmt.Sprintf("%d", 100000+rand.Intn(900000))

	verification := models.PhoneVerification{
		PhoneNumber: phoneNumber,
		Code:        code,
		CreatedAt:   time.Now().UTC(),
	}

	// One pending code per phone: a resend replaces the previous code.
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone_number"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"code": code, "created_at": verification.CreatedAt}),
	}).Create(&verification).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert verification: %w", err)
	}

	s.enqueueCodeTasks(phoneNumber, code)

	return &verification, nil
}

// enqueueCodeTasks schedules SMS delivery and the expiry of this exact code.
// Enqueue failures are logged, not returned: the code row exists either way.
func (s *authService) enqueueCodeTasks(phoneNumber, code string) {
	if s.taskClient == nil {
		log.Printf("Task client not configured, skipping SMS delivery for %s", phoneNumber)
		return
	}

	if task, err := tasks.NewSmsDeliveryTask(phoneNumber, code); err != nil {
		log.Printf("Failed to build SMS task for %s: %v", phoneNumber, err)
	} else if _, err := s.taskClient.Enqueue(task); err != nil {
		log.Printf("Failed to enqueue SMS task for %s: %v", phoneNumber, err)
	}

	if task, err := tasks.NewVerificationCleanupTask(phoneNumber, code); err != nil {
		log.Printf("Failed to build cleanup task for %s: %v", phoneNumber, err)
	} else if _, err := s.taskClient.Enqueue(task, asynq.ProcessIn(s.cfg.VerificationCodeTTL)); err != nil {
		log.Printf("Failed to enqueue cleanup task for %s: %v", phoneNumber, err)
	}
}

func (s *authService) Login(ctx context.Context, phoneNumber, code string) (*models.User, bool, error) {
	if !phoneRe.MatchString(phoneNumber) {
		return nil, false, ErrInvalidPhoneNumber
	}

	var user models.User
	var created bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var verification models.PhoneVerification
		err := tx.Where("phone_number = ?", phoneNumber).First(&verification).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidPhoneNumber
		}
		if err != nil {
			return fmt.Errorf("failed to look up verification: %w", err)
		}

		if time.Since(verification.CreatedAt) > s.cfg.VerificationCodeTTL {
			return ErrInvalidCode
		}

		// Single conditional delete: consume iff the code matches. Two
		// concurrent logins with the same code race on this row and only
		// one of them deletes it.
		res := tx.Where("phone_number = ? AND code = ?", phoneNumber, code).
			Delete(&models.PhoneVerification{})
		if res.Error != nil {
			return fmt.Errorf("failed to consume verification: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvalidCode
		}

		result := tx.Where(models.User{PhoneNumber: phoneNumber}).FirstOrCreate(&user)
		if result.Error != nil {
			return fmt.Errorf("failed to get or create user: %w", result.Error)
		}
		created = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &user, created, nil
}

func (s *authService) Refresh(refreshToken string) (*auth.TokenPair, error) {
	claims, err := auth.ValidateJWT(refreshToken, s.cfg.JwtSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}
	if claims.TokenType != auth.TokenTypeRefresh {
		return nil, fmt.Errorf("token is not a refresh token")
	}
	return s.GenerateTokens(claims.UserID)
}

func (s *authService) GenerateTokens(userID uint) (*auth.TokenPair, error) {
	return auth.GenerateTokenPair(userID, s.cfg.JwtSecret, s.cfg.JwtAccessTTL, s.cfg.JwtRefreshTTL)
}
