// Package usecase holds the shortener and listing services. It validates
// input, chooses short codes and enforces the redirect rules on top of the
// URL repository.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vadimbarashkov/shortlink/internal/entity"
	"github.com/vadimbarashkov/shortlink/internal/shortcode"
)

// maxRegenerations bounds how many times a generated code is replaced after
// colliding with a stored one. The insert is attempted regardless afterwards.
const maxRegenerations = 3

type urlRepository interface {
	Save(ctx context.Context, shortCode, originalURL string) (*entity.URL, error)
	RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error)
	RetrieveByID(ctx context.Context, id int64) (*entity.URL, error)
	ShortCodeExists(ctx context.Context, shortCode string) (bool, error)
	Update(ctx context.Context, id int64, upd entity.URLUpdate) (*entity.URL, error)
	Remove(ctx context.Context, id int64) error
	IncrementClicks(ctx context.Context, shortCode string) error
	List(ctx context.Context, filter entity.ListFilter) ([]entity.URL, error)
}

type codeGenerator interface {
	Generate() (string, error)
}

type URLUseCase struct {
	urlRepo urlRepository
	codeGen codeGenerator
	logger  *slog.Logger
	now     func() time.Time
}

func New(urlRepo urlRepository, codeGen codeGenerator, logger *slog.Logger) *URLUseCase {
	return &URLUseCase{
		urlRepo: urlRepo,
		codeGen: codeGen,
		logger:  logger,
		now:     time.Now,
	}
}

// ShortenURL stores a new short link. A custom code is used verbatim when
// given, otherwise one is generated.
func (uc *URLUseCase) ShortenURL(ctx context.Context, params entity.ShortenParams) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ShortenURL"

	originalURL, err := normalizeURL(params.OriginalURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var shortCode string

	if params.ShortCode != "" {
		shortCode, err = uc.checkCustomCode(ctx, params.ShortCode)
	} else {
		shortCode, err = uc.generateCode(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	url, err := uc.urlRepo.Save(ctx, shortCode, originalURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
	}

	if params.ExpiresAt != nil {
		url, err = uc.urlRepo.Update(ctx, url.ID, entity.URLUpdate{
			ExpiresAt: entity.OptionalTime{Set: true, Value: params.ExpiresAt},
		})
		if err != nil {
			return nil, fmt.Errorf("%s: failed to set expiry: %w", op, err)
		}
	}

	return url, nil
}

func (uc *URLUseCase) checkCustomCode(ctx context.Context, shortCode string) (string, error) {
	if !shortcode.Valid(shortCode) {
		return "", entity.ErrInvalidShortCode
	}

	exists, err := uc.urlRepo.ShortCodeExists(ctx, shortCode)
	if err != nil {
		return "", fmt.Errorf("failed to check short code: %w", err)
	}
	if exists {
		return "", entity.ErrShortCodeExists
	}

	return shortCode, nil
}

func (uc *URLUseCase) generateCode(ctx context.Context) (string, error) {
	shortCode, err := uc.codeGen.Generate()
	if err != nil {
		return "", fmt.Errorf("failed to generate short code: %w", err)
	}

	for i := 0; i < maxRegenerations; i++ {
		exists, err := uc.urlRepo.ShortCodeExists(ctx, shortCode)
		if err != nil {
			return "", fmt.Errorf("failed to check short code: %w", err)
		}
		if !exists {
			break
		}

		shortCode, err = uc.codeGen.Generate()
		if err != nil {
			return "", fmt.Errorf("failed to generate short code: %w", err)
		}
	}

	return shortCode, nil
}

// ResolveShortCode returns the URL a code redirects to and accounts the click.
// Accounting failures never fail the resolution.
func (uc *URLUseCase) ResolveShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ResolveShortCode"

	url, err := uc.urlRepo.RetrieveByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	if !url.Active {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrURLInactive)
	}
	if url.IsExpired(uc.now()) {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrURLExpired)
	}

	// The click counts even if the client goes away before the redirect is written.
	if err := uc.urlRepo.IncrementClicks(context.WithoutCancel(ctx), shortCode); err != nil {
		uc.logger.Warn(
			"failed to account click",
			slog.String("op", op),
			slog.String("code", shortCode),
			slog.Any("err", err),
		)
	}

	return url, nil
}

func (uc *URLUseCase) GetURL(ctx context.Context, id int64) (*entity.URL, error) {
	const op = "usecase.URLUseCase.GetURL"

	url, err := uc.urlRepo.RetrieveByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url: %w", op, err)
	}

	return url, nil
}

// ModifyURL applies a partial update. A new url or code is validated the same
// way as on creation.
func (uc *URLUseCase) ModifyURL(ctx context.Context, id int64, upd entity.URLUpdate) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ModifyURL"

	if upd.OriginalURL != nil {
		originalURL, err := normalizeURL(*upd.OriginalURL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		upd.OriginalURL = &originalURL
	}

	if upd.ShortCode != nil && !shortcode.Valid(*upd.ShortCode) {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidShortCode)
	}

	url, err := uc.urlRepo.Update(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to modify url: %w", op, err)
	}

	return url, nil
}

func (uc *URLUseCase) DeleteURL(ctx context.Context, id int64) error {
	const op = "usecase.URLUseCase.DeleteURL"

	if err := uc.urlRepo.Remove(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to delete url: %w", op, err)
	}

	return nil
}
