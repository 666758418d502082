package domain

import (
	"fmt"
	"strings"
)

// Category is the vehicle category a spot is built for. The zero value is unset.
type Category string

const (
	CategoryCar  Category = "CAR"
	CategoryBike Category = "BIKE"
)

var categories = []Category{CategoryCar, CategoryBike}

// Categories returns the recognized categories in allocation order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Valid() bool {
	return c == CategoryCar || c == CategoryBike
}

// ParseCategory is the input boundary for categories coming from requests or storage.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown vehicle category %q: %w", s, ErrInvalidInput)
	}
	return c, nil
}
