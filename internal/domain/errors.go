package domain

import "errors"

var (
	ErrTraderNotFound  = errors.New("trader not found")
	ErrPhoneRegistered = errors.New("phone number already registered")
	ErrInvalidPIN      = errors.New("invalid pin")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNoLocations     = errors.New("no locations available")
)
