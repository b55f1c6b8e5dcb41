package product

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNoProduct       = errors.New("no product loaded")
)
