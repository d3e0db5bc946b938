package costing

import "errors"

var (
	// ErrProductNotFound is returned when the requested product does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidReference is returned when a recipe line points at a missing ingredient
	// or otherwise references an entity that does not exist.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrInvalidRecipe is returned for a recipe line with a negative quantity.
	ErrInvalidRecipe = errors.New("invalid recipe line")
	// ErrInvalidLot is returned for a purchase lot that breaks its quantity invariants.
	ErrInvalidLot = errors.New("invalid purchase lot")
	// ErrInvalidConfig is returned when a product's pricing configuration is out of range.
	ErrInvalidConfig = errors.New("invalid pricing configuration")
)
