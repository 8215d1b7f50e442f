package usecase

import (
	"context"
	"fmt"

	"studyloop/internal/modules/food/domain"
	fooddto "studyloop/internal/modules/food/dto"
	foodin "studyloop/internal/modules/food/port/in"
	foodout "studyloop/internal/modules/food/port/out"
	"studyloop/internal/platform/clock"
	apperrors "studyloop/internal/platform/errors"
	"studyloop/internal/platform/logging"
)

type Interactor struct {
	clock    clock.Clock
	catalog  domain.Catalog
	identity foodout.IdentityProvider
	progress foodout.ProgressSource
	logger   logging.Logger
}

func NewInteractor(clk clock.Clock, catalog domain.Catalog, identity foodout.IdentityProvider, progress foodout.ProgressSource, logger logging.Logger) foodin.Usecase {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Interactor{clock: clk, catalog: catalog, identity: identity, progress: progress, logger: logger}
}

// Recommend prices the current band for the signed-in user. Without an
// identity, or when progress cannot be read, it lists the whole catalog at
// base price instead.
func (i *Interactor) Recommend(ctx context.Context, input fooddto.RecommendInput) (fooddto.RecommendOutput, error) {
	hour := i.clock.Now().Local().Hour()
	if input.Hour != nil {
		hour = *input.Hour
	}
	if hour < 0 || hour > 23 {
		return fooddto.RecommendOutput{}, fmt.Errorf("%w: hour must be within 0..23, got %d", apperrors.ErrInvalidInput, hour)
	}

	out := fooddto.RecommendOutput{Hour: hour, Band: string(domain.BandAt(hour))}
	owner, ok := "", false
	if i.identity != nil {
		owner, ok = i.identity.CurrentIdentity(ctx)
	}
	if !ok || owner == "" {
		out.Items = basePriced(i.catalog.All())
		return out, nil
	}
	out.OwnerID = owner

	progress, err := i.progress.CurrentProgress(ctx, owner)
	if err != nil {
		i.logger.With("owner", owner).Warnf("read study progress: %v", err)
		out.Items = basePriced(i.catalog.All())
		return out, nil
	}

	out.Personalized = true
	out.CompletedFocusSessions = progress.CompletedFocusSessions
	out.CompletedLessons = progress.CompletedLessons
	out.DiscountPercent = domain.DiscountPercent(progress.CompletedFocusSessions)
	recommendations := domain.Recommend(i.catalog, hour, progress.CompletedFocusSessions)
	out.Items = make([]fooddto.ItemOutput, 0, len(recommendations))
	for _, rec := range recommendations {
		out.Items = append(out.Items, toItemOutput(rec))
	}
	return out, nil
}

func (i *Interactor) Catalog(_ context.Context) (fooddto.CatalogOutput, error) {
	return fooddto.CatalogOutput{Items: basePriced(i.catalog.All())}, nil
}

func basePriced(items []domain.FoodItem) []fooddto.ItemOutput {
	out := make([]fooddto.ItemOutput, 0, len(items))
	for _, item := range items {
		out = append(out, toItemOutput(domain.Priced(item, 0)))
	}
	return out
}

func toItemOutput(rec domain.Recommendation) fooddto.ItemOutput {
	return fooddto.ItemOutput{
		ID:              rec.Item.ID,
		Name:            rec.Item.Name,
		Description:     rec.Item.Description,
		Category:        string(rec.Item.Category),
		BasePrice:       rec.Item.BasePrice,
		DiscountPercent: rec.DiscountPercent,
		DiscountedPrice: rec.DiscountedPrice,
		DisplayPrice:    domain.FormatPrice(rec.DiscountedPrice),
	}
}
