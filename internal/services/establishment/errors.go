package establishment

import "errors"

// Service errors
var (
	ErrStoreNotFound = errors.New("store not found")
	ErrCardNotFound  = errors.New("card not found")
)
