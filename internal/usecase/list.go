package usecase

import (
	"context"
	"fmt"

	"github.com/vadimbarashkov/shortlink/internal/entity"
)

const defaultListLimit = 50

// ListURLs returns stored URLs newest first. A zero limit means defaultListLimit.
func (uc *URLUseCase) ListURLs(ctx context.Context, filter entity.ListFilter) ([]entity.URL, error) {
	const op = "usecase.URLUseCase.ListURLs"

	if filter.Limit == 0 {
		filter.Limit = defaultListLimit
	}

	urls, err := uc.urlRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list urls: %w", op, err)
	}

	if urls == nil {
		urls = []entity.URL{}
	}

	return urls, nil
}
