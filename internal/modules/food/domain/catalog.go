package domain

import (
	"fmt"

	apperrors "studyloop/internal/platform/errors"
)

type Catalog struct {
	items []FoodItem
	index map[string]int
}

func NewCatalog(items ...FoodItem) (Catalog, error) {
	catalog := Catalog{
		items: make([]FoodItem, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return Catalog{}, err
		}
		if _, exists := catalog.index[item.ID]; exists {
			return Catalog{}, fmt.Errorf("%w: duplicate food item id %s", apperrors.ErrInvalidInput, item.ID)
		}
		catalog.index[item.ID] = len(catalog.items)
		catalog.items = append(catalog.items, item)
	}
	return catalog, nil
}

func DefaultCatalog() Catalog {
	catalog, err := NewCatalog(
		FoodItem{ID: "coffee1", Name: "Espresso", Description: "Strong coffee to boost focus", BasePrice: 3.99, Category: CategoryBeverage},
		FoodItem{ID: "coffee2", Name: "Cappuccino", Description: "Creamy coffee", BasePrice: 4.99, Category: CategoryBeverage},
		FoodItem{ID: "breakfast1", Name: "Avocado Toast", Description: "Healthy breakfast option", BasePrice: 8.99, Category: CategoryBreakfast},
		FoodItem{ID: "breakfast2", Name: "Pancakes", Description: "Sweet breakfast", BasePrice: 7.99, Category: CategoryBreakfast},
		FoodItem{ID: "snack1", Name: "Energy Bar", Description: "Quick energy boost", BasePrice: 2.99, Category: CategorySnack},
		FoodItem{ID: "beverage1", Name: "Green Tea", Description: "Calming and focused", BasePrice: 4.99, Category: CategoryBeverage},
		FoodItem{ID: "dinner1", Name: "Pasta Bowl", Description: "Satisfying dinner", BasePrice: 12.99, Category: CategoryLunch},
		FoodItem{ID: "dinner2", Name: "Salad Bowl", Description: "Light meal", BasePrice: 9.99, Category: CategoryLunch},
		FoodItem{ID: "snack2", Name: "Fruit Bowl", Description: "Healthy evening snack", BasePrice: 5.99, Category: CategorySnack},
		FoodItem{ID: "snack3", Name: "Light Snack", Description: "Easy on the stomach", BasePrice: 3.99, Category: CategorySnack},
	)
	if err != nil {
		panic(err)
	}
	return catalog
}

// All returns the catalog in insertion order.
func (c Catalog) All() []FoodItem {
	return append([]FoodItem(nil), c.items...)
}

func (c Catalog) Lookup(id string) (FoodItem, bool) {
	i, ok := c.index[id]
	if !ok {
		return FoodItem{}, false
	}
	return c.items[i], true
}

func (c Catalog) Len() int {
	return len(c.items)
}
