package in

import (
	"context"

	"studyloop/internal/modules/food/dto"
)

type Usecase interface {
	Recommend(ctx context.Context, input dto.RecommendInput) (dto.RecommendOutput, error)
	Catalog(ctx context.Context) (dto.CatalogOutput, error)
}
