package models

import "github.com/marshallshelly/pebble-bookshop/pkg/registry"

// All returns a zero value of every model.
func All() []any {
	return []any{
		Publisher{},
		Book{},
		Shop{},
		Stock{},
		Sale{},
	}
}

// RegisterAll registers all models with the global registry.
func RegisterAll() error {
	return RegisterWith(registry.Default())
}

// RegisterWith registers all models with reg.
func RegisterWith(reg *registry.Registry) error {
	for _, model := range All() {
		if err := reg.Register(model); err != nil {
			return err
		}
	}
	return nil
}
