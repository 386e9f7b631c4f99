package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/amirsaid123/UY-Bor/internal/models"
)

// IMessageService handles direct messages between users.
type IMessageService interface {
	Send(ctx context.Context, senderID, receiverID uint, text string) (*models.Message, error)
	// ListForUser returns the union of sent and received messages, newest
	// first.
	ListForUser(ctx context.Context, userID uint) ([]models.Message, error)
}

type messageService struct {
	db *gorm.DB
}

func NewMessageService(gdb *gorm.DB) IMessageService {
	return &messageService{db: gdb}
}

func (s *messageService) Send(ctx context.Context, senderID, receiverID uint, text string) (*models.Message, error) {
	var recipient models.User
	err := s.db.WithContext(ctx).First(&recipient, receiverID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up recipient %d: %w", receiverID, err)
	}

	message := models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
	}
	if err := s.db.WithContext(ctx).Create(&message).Error; err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return &message, nil
}

func (s *messageService) ListForUser(ctx context.Context, userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
