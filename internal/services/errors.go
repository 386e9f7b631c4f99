package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these to HTTP
// statuses; gorm.ErrRecordNotFound never crosses the service boundary.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidPhoneNumber = errors.New("invalid phone number")
	ErrInvalidCode        = errors.New("invalid code")
	ErrAlreadyInactive    = errors.New("property is already inactive")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidCardNumber  = errors.New("card number must be exactly 16 digits")
	ErrInvalidCardPIN     = errors.New("password must be exactly 4 digits")
)
