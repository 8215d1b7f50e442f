package domain

import (
	"fmt"
	"math"
)

type Band string

const (
	BandMorning   Band = "morning"
	BandAfternoon Band = "afternoon"
	BandEvening   Band = "evening"
	BandNight     Band = "night"
)

const (
	discountPerSession = 2
	maxDiscountPercent = 20
)

var bandItems = map[Band][]string{
	BandMorning:   {"coffee1", "breakfast1"},
	BandAfternoon: {"snack1", "beverage1"},
	BandEvening:   {"dinner1", "snack2"},
	BandNight:     {"snack3"},
}

// BandAt maps an hour of day to its band. Bands are [6,12), [12,17),
// [17,22) and night for everything else.
func BandAt(hour int) Band {
	switch {
	case hour >= 6 && hour < 12:
		return BandMorning
	case hour >= 12 && hour < 17:
		return BandAfternoon
	case hour >= 17 && hour < 22:
		return BandEvening
	default:
		return BandNight
	}
}

// ItemIDs lists the catalog ids offered in the band, in display order.
func (b Band) ItemIDs() []string {
	return append([]string(nil), bandItems[b]...)
}

// DiscountPercent is 2% per completed focus session, capped at 20%.
// Negative counts are treated as zero.
func DiscountPercent(completedFocusSessions int) int {
	if completedFocusSessions <= 0 {
		return 0
	}
	if completedFocusSessions >= maxDiscountPercent/discountPerSession {
		return maxDiscountPercent
	}
	return completedFocusSessions * discountPerSession
}

func DiscountedPrice(basePrice float64, discountPercent int) float64 {
	return basePrice * (1 - float64(discountPercent)/100)
}

type Recommendation struct {
	Item            FoodItem
	DiscountPercent int
	DiscountedPrice float64
}

// Recommend returns the band items for hour priced for the given progress.
// Band ids missing from catalog are skipped.
func Recommend(catalog Catalog, hour, completedFocusSessions int) []Recommendation {
	discount := DiscountPercent(completedFocusSessions)
	ids := bandItems[BandAt(hour)]
	out := make([]Recommendation, 0, len(ids))
	for _, id := range ids {
		item, ok := catalog.Lookup(id)
		if !ok {
			continue
		}
		out = append(out, Priced(item, discount))
	}
	return out
}

func Priced(item FoodItem, discountPercent int) Recommendation {
	return Recommendation{
		Item:            item,
		DiscountPercent: discountPercent,
		DiscountedPrice: DiscountedPrice(item.BasePrice, discountPercent),
	}
}

// FormatPrice rounds to cents for display only.
func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", math.Round(price*100)/100)
}
