package models

import "time"

// User is an account identified by a verified phone number. There is no
// password; login happens through one-time SMS codes.
type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	PhoneNumber  string  `gorm:"uniqueIndex;size:20;not null" json:"phone_number"`
	FirstName    string  `gorm:"size:100" json:"first_name"`
	LastName     string  `gorm:"size:100" json:"last_name"`
	Email        *string `gorm:"uniqueIndex;size:255" json:"email,omitempty"`
	Avatar       string  `gorm:"size:512" json:"avatar"`
	Organization string  `gorm:"size:255" json:"organization"`
	Role         string  `gorm:"size:50" json:"role"`
	Balance      float64 `gorm:"not null;default:0" json:"balance"`
	CardNumber   string  `gorm:"size:16" json:"card_number"`
	IsActive     bool    `gorm:"not null;default:true" json:"is_active"`
	IsStaff      bool    `gorm:"not null;default:false" json:"is_staff"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PhoneVerification holds the pending one-time code for a phone number.
// One row per phone; resending a code overwrites the previous one.
type PhoneVerification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PhoneNumber string    `gorm:"uniqueIndex;size:20;not null" json:"phone_number"`
	Code        string    `gorm:"size:6;not null" json:"code"`
	CreatedAt   time.Time `json:"created_at"`
}

// Transaction is one entry of the wallet ledger. Amounts are positive for
// top-ups; future charge entries would be negative.
type Transaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	Amount    float64   `gorm:"not null" json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Tariff is a purchasable promotion plan. UserID is set once a user buys it.
type Tariff struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Description  string    `json:"description"`
	Price        float64   `gorm:"not null" json:"price"`
	DurationDays int       `gorm:"not null;default:30" json:"duration_days"`
	Label        Label     `gorm:"size:10" json:"label,omitempty"`
	Status       Status    `gorm:"size:12;not null;default:active" json:"status"`
	UserID       *uint     `gorm:"index" json:"user_id,omitempty"`
	User         *User     `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Message is a direct message between two users.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"index;not null" json:"sender_id"`
	Sender     *User     `gorm:"foreignKey:SenderID" json:"-"`
	ReceiverID uint      `gorm:"index;not null" json:"receiver_id"`
	Receiver   *User     `gorm:"foreignKey:ReceiverID" json:"-"`
	Text       string    `gorm:"not null" json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}
