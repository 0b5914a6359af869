package entity

import "github.com/shopspring/decimal"

// CatalogEntry is a publicly streamable symbol with its reference price.
type CatalogEntry struct {
	Name           string
	ReferencePrice decimal.Decimal
}

// Identity is the verified principal behind a connection.
type Identity struct {
	UserID uint
	Email  string
}
