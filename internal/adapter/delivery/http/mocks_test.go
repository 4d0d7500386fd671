package http

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

type mockURLUseCase struct {
	mock.Mock
}

func (m *mockURLUseCase) url(args mock.Arguments) (*entity.URL, error) {
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *mockURLUseCase) ShortenURL(ctx context.Context, params entity.ShortenParams) (*entity.URL, error) {
	return m.url(m.Called(ctx, params))
}

func (m *mockURLUseCase) ResolveShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	return m.url(m.Called(ctx, shortCode))
}

func (m *mockURLUseCase) GetURL(ctx context.Context, id int64) (*entity.URL, error) {
	return m.url(m.Called(ctx, id))
}

func (m *mockURLUseCase) ModifyURL(ctx context.Context, id int64, upd entity.URLUpdate) (*entity.URL, error) {
	return m.url(m.Called(ctx, id, upd))
}

func (m *mockURLUseCase) DeleteURL(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockURLUseCase) ListURLs(ctx context.Context, filter entity.ListFilter) ([]entity.URL, error) {
	args := m.Called(ctx, filter)
	urls, _ := args.Get(0).([]entity.URL)
	return urls, args.Error(1)
}
