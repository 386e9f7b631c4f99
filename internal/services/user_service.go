package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/amirsaid123/UY-Bor/internal/models"
)

var (
	cardRe = regexp.MustCompile(`^\d{16}$`)
	pinRe  = regexp.MustCompile(`^\d{4}$`)
)

// IUserService covers profile and wallet operations. All methods act on the
// authenticated caller; there is no cross-user access here.
type IUserService interface {
	GetProfile(ctx context.Context, userID uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint, updates map[string]interface{}) (*models.User, error)
	GetBalance(ctx context.Context, userID uint) (float64, error)
	// FillBalance credits the wallet and records the ledger entry in one
	// transaction. Returns the new balance.
	FillBalance(ctx context.Context, userID uint, amount float64, cardNumber, password string) (float64, error)
	ListTransactions(ctx context.Context, userID uint) ([]models.Transaction, error)
	ListTariffs(ctx context.Context, userID uint) ([]models.Tariff, error)
}

type userService struct {
	db *gorm.DB
}

func NewUserService(gdb *gorm.DB) IUserService {
	return &userService{db: gdb}
}

func (s *userService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	return &user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, updates map[string]interface{}) (*models.User, error) {
	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", userID).
			Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("failed to update user %d: %w", userID, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetProfile(ctx, userID)
}

func (s *userService) GetBalance(ctx context.Context, userID uint) (float64, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Balance, nil
}

func (s *userService) FillBalance(ctx context.Context, userID uint, amount float64, cardNumber, password string) (float64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if !cardRe.MatchString(cardNumber) {
		return 0, ErrInvalidCardNumber
	}
	if !pinRe.MatchString(password) {
		return 0, ErrInvalidCardPIN
	}

	var newBalance float64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Increment in SQL, not read-modify-write, so concurrent top-ups
		// never lose an update.
		res := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("balance", gorm.Expr("balance + ?", amount))
		if res.Error != nil {
			return fmt.Errorf("failed to credit balance: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Create(&models.Transaction{UserID: userID, Amount: amount}).Error; err != nil {
			return fmt.Errorf("failed to record transaction: %w", err)
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return fmt.Errorf("failed to reload balance: %w", err)
		}
		newBalance = user.Balance
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}

func (s *userService) ListTransactions(ctx context.Context, userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

// ListTariffs returns the open catalogue plus any plans already bound to the
// caller.
func (s *userService) ListTariffs(ctx context.Context, userID uint) ([]models.Tariff, error) {
	var tariffs []models.Tariff
	err := s.db.WithContext(ctx).
		Where("user_id IS NULL OR user_id = ?", userID).
		Order("price ASC").
		Find(&tariffs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tariffs: %w", err)
	}
	return tariffs, nil
}
