package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

type mockURLRepository struct {
	mock.Mock
}

func (m *mockURLRepository) url(args mock.Arguments) (*entity.URL, error) {
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *mockURLRepository) Save(ctx context.Context, shortCode, originalURL string) (*entity.URL, error) {
	return m.url(m.Called(ctx, shortCode, originalURL))
}

func (m *mockURLRepository) RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	return m.url(m.Called(ctx, shortCode))
}

func (m *mockURLRepository) RetrieveByID(ctx context.Context, id int64) (*entity.URL, error) {
	return m.url(m.Called(ctx, id))
}

func (m *mockURLRepository) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	args := m.Called(ctx, shortCode)
	return args.Bool(0), args.Error(1)
}

func (m *mockURLRepository) Update(ctx context.Context, id int64, upd entity.URLUpdate) (*entity.URL, error) {
	return m.url(m.Called(ctx, id, upd))
}

func (m *mockURLRepository) Remove(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockURLRepository) IncrementClicks(ctx context.Context, shortCode string) error {
	return m.Called(ctx, shortCode).Error(0)
}

func (m *mockURLRepository) List(ctx context.Context, filter entity.ListFilter) ([]entity.URL, error) {
	args := m.Called(ctx, filter)
	urls, _ := args.Get(0).([]entity.URL)
	return urls, args.Error(1)
}

type mockCodeGenerator struct {
	mock.Mock
}

func (m *mockCodeGenerator) Generate() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}
