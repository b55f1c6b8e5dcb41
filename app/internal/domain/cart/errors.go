package cart

import "errors"

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidItem     = errors.New("cart item has no product id")
)
