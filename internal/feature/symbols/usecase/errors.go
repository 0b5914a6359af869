package usecase

import "errors"

var (
	// ErrSymbolNotFound is returned when no symbol matches the requested id.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrSymbolAlreadyExists is returned when a symbol name is already taken.
	ErrSymbolAlreadyExists = errors.New("symbol already exists")

	// ErrInvalidSymbolName is returned for blank or oversized names.
	ErrInvalidSymbolName = errors.New("invalid symbol name")

	// ErrInvalidPrice is returned for negative prices or prices beyond decimal(10,2).
	ErrInvalidPrice = errors.New("invalid price")
)
