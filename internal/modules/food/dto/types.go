package dto

type RecommendInput struct {
	// Hour overrides the clock's local hour when set.
	Hour *int
}

type ItemOutput struct {
	ID              string
	Name            string
	Description     string
	Category        string
	BasePrice       float64
	DiscountPercent int
	DiscountedPrice float64
	DisplayPrice    string
}

type RecommendOutput struct {
	OwnerID                string
	Hour                   int
	Band                   string
	Personalized           bool
	CompletedFocusSessions int
	CompletedLessons       int
	DiscountPercent        int
	Items                  []ItemOutput
}

type CatalogOutput struct {
	Items []ItemOutput
}
