package models

import (
	"errors"
	"fmt"
)

// Kind is the label a fixture record uses to name its table.
type Kind string

const (
	KindPublisher Kind = "publisher"
	KindBook      Kind = "book"
	KindShop      Kind = "shop"
	KindStock     Kind = "stock"
	KindSale      Kind = "sale"
)

// ErrUnknownKind is returned by ParseKind for labels outside the schema.
var ErrUnknownKind = errors.New("unknown model")

// Kinds lists every kind.
func Kinds() []Kind {
	return []Kind{KindPublisher, KindBook, KindShop, KindStock, KindSale}
}

// ParseKind maps a label to a Kind. Labels are case-sensitive.
func ParseKind(label string) (Kind, error) {
	switch k := Kind(label); k {
	case KindPublisher, KindBook, KindShop, KindStock, KindSale:
		return k, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, label)
}

func (k Kind) String() string {
	return string(k)
}
