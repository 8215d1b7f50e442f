package domain

import (
	"fmt"
	"math"
	"strings"

	apperrors "studyloop/internal/platform/errors"
)

type Category string

const (
	CategoryBreakfast Category = "breakfast"
	CategoryLunch     Category = "lunch"
	CategorySnack     Category = "snack"
	CategoryBeverage  Category = "beverage"
)

func (c Category) Validate() error {
	switch c {
	case CategoryBreakfast, CategoryLunch, CategorySnack, CategoryBeverage:
		return nil
	default:
		return fmt.Errorf("%w: unknown food category %q", apperrors.ErrInvalidInput, string(c))
	}
}

// FoodItem is an immutable catalog entry. Discounted prices live on
// Recommendation and never change the item.
type FoodItem struct {
	ID          string
	Name        string
	Description string
	BasePrice   float64
	Category    Category
}

func (f FoodItem) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("%w: food item id is required", apperrors.ErrInvalidInput)
	}
	if f.BasePrice < 0 || math.IsNaN(f.BasePrice) || math.IsInf(f.BasePrice, 0) {
		return fmt.Errorf("%w: food item %s has invalid price %v", apperrors.ErrInvalidInput, f.ID, f.BasePrice)
	}
	return f.Category.Validate()
}

// ProgressSnapshot is the study progress that drives the discount.
type ProgressSnapshot struct {
	CompletedFocusSessions int
	CompletedLessons       int
}
