package services

import (
	"errors"

	"food-share-api/statemachine"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicatePhone     = errors.New("phone already registered")
	ErrPhoneNotFound      = errors.New("phone number not found")
	ErrNotFound           = errors.New("post not found")
	ErrNotAssignee        = errors.New("post was accepted by another volunteer")
	ErrTooManyAttempts    = errors.New("too many attempts, try again later")
	ErrInvalidTransition  = statemachine.ErrInvalidTransition
)
