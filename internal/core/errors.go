package core

import "errors"

// Sentinel errors for the recoverable failure modes of the core.
// Callers are expected to re-fetch state and retry, or surface a user-facing
// message; none of these indicate a corrupted model.
var (
	// ErrInvalidQuantity is returned when a quantity falls outside [1, available].
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrUnknownLocation is returned when a location ID does not resolve in the
	// current forest snapshot.
	ErrUnknownLocation = errors.New("unknown location")

	// ErrUnknownProduct is returned when a SKU does not resolve in the catalog.
	ErrUnknownProduct = errors.New("unknown product")

	// ErrStructuralViolation is returned on an attempt to create a child under a
	// non-existent or wrong-kind parent, or to attach items to a container kind
	// that cannot hold them.
	ErrStructuralViolation = errors.New("structural violation")

	// ErrUnknownListing is returned when a listing ID does not resolve on a product.
	ErrUnknownListing = errors.New("unknown channel listing")

	// ErrListingClosed is returned when a manual transition targets a closed listing.
	ErrListingClosed = errors.New("listing is closed")

	// ErrUnknownCategory is returned when a product references a category that is
	// not in the managed category set.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrDuplicateSKU is returned when creating a product whose SKU already exists.
	ErrDuplicateSKU = errors.New("duplicate sku")
)
