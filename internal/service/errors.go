package service

import (
	"errors"

	"lending_service/internal/models"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrItemNotAvailable = errors.New("item not available for loan")
	ErrItemNotBorrowed  = errors.New("item is not borrowed or does not exist")
	ErrInvalidTimeRange = errors.New("invalid time range: From must be <= To")

	ErrInvalidField = models.ErrInvalidFieldKey
)
