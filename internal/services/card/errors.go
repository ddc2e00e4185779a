package card

import "errors"

// Service errors
var (
	ErrInvalidValue     = errors.New("invalid monetary value")
	ErrCardNotFound     = errors.New("card not found")
	ErrProductNotFound  = errors.New("card product not found")
	ErrCodeNotAvailable = errors.New("card code not available")
	ErrInvalidInput     = errors.New("invalid input")
)
