package in

import (
	"context"

	fooddto "studyloop/internal/modules/food/dto"
	foodin "studyloop/internal/modules/food/port/in"
)

type CLIHandler struct {
	usecase foodin.Usecase
}

func NewCLIHandler(usecase foodin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Recommend uses the current hour when hour is nil.
func (h CLIHandler) Recommend(ctx context.Context, hour *int) (fooddto.RecommendOutput, error) {
	return h.usecase.Recommend(ctx, fooddto.RecommendInput{Hour: hour})
}

func (h CLIHandler) Catalog(ctx context.Context) (fooddto.CatalogOutput, error) {
	return h.usecase.Catalog(ctx)
}
