package http

import (
	"encoding/json"
	"time"

	"github.com/vadimbarashkov/shortlink/internal/entity"
	"github.com/vadimbarashkov/shortlink/pkg/response"
)

// createURLRequest is the body of POST /api/v1/urls.
type createURLRequest struct {
	OriginalURL string     `json:"url" validate:"required,url"`
	ShortCode   string     `json:"code,omitempty" validate:"omitempty,alphanum,max=32"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func (req createURLRequest) toParams() entity.ShortenParams {
	return entity.ShortenParams{
		OriginalURL: req.OriginalURL,
		ShortCode:   req.ShortCode,
		ExpiresAt:   req.ExpiresAt,
	}
}

// shortenRequest is the body of the quick-create endpoint.
type shortenRequest struct {
	OriginalURL string `json:"url" validate:"required,url"`
}

type shortenResponse struct {
	ShortCode   string `json:"code"`
	OriginalURL string `json:"url"`
}

// updateURLRequest is the body of PATCH /api/v1/urls/{id}. Absent fields are
// left untouched, an explicit null expires_at clears the expiry.
type updateURLRequest struct {
	OriginalURL *string      `json:"url,omitempty" validate:"omitempty,url"`
	ShortCode   *string      `json:"code,omitempty" validate:"omitempty,alphanum,max=32"`
	ExpiresAt   optionalTime `json:"expires_at"`
	Active      *bool        `json:"active,omitempty"`
}

func (req updateURLRequest) toUpdate() entity.URLUpdate {
	return entity.URLUpdate{
		OriginalURL: req.OriginalURL,
		ShortCode:   req.ShortCode,
		ExpiresAt:   entity.OptionalTime{Set: req.ExpiresAt.set, Value: req.ExpiresAt.value},
		Active:      req.Active,
	}
}

// optionalTime records whether a timestamp was present in the body at all.
type optionalTime struct {
	set   bool
	value *time.Time
}

func (t *optionalTime) UnmarshalJSON(data []byte) error {
	t.set = true
	t.value = nil

	if string(data) == "null" {
		return nil
	}

	var v time.Time
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	t.value = &v

	return nil
}

// urlResponse is the JSON form of a stored URL.
type urlResponse struct {
	ID          int64      `json:"id"`
	ShortCode   string     `json:"code"`
	OriginalURL string     `json:"url"`
	Clicks      int64      `json:"clicks"`
	LastClickAt *time.Time `json:"last_click_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toURLResponse(url *entity.URL) urlResponse {
	return urlResponse{
		ID:          url.ID,
		ShortCode:   url.ShortCode,
		OriginalURL: url.OriginalURL,
		Clicks:      url.Clicks,
		LastClickAt: url.LastClickAt,
		ExpiresAt:   url.ExpiresAt,
		Active:      url.Active,
		CreatedAt:   url.CreatedAt,
	}
}

func toURLResponses(urls []entity.URL) []urlResponse {
	resp := make([]urlResponse, 0, len(urls))
	for i := range urls {
		resp = append(resp, toURLResponse(&urls[i]))
	}
	return resp
}

// Predefined error responses for common scenarios.
var (
	emptyRequestBodyResponse   = response.ErrorResponse("empty request body")
	invalidRequestBodyResponse = response.ErrorResponse("invalid request body")
	invalidIDResponse          = response.ErrorResponse("invalid id")
	invalidURLResponse         = response.ErrorResponse("invalid url", response.FieldError{Field: "url", Message: "invalid url"})
	invalidShortCodeResponse   = response.ErrorResponse("invalid short code", response.FieldError{Field: "code", Message: "invalid short code"})
	shortCodeExistsResponse    = response.ErrorResponse("short code exists")
	urlNotFoundResponse        = response.ErrorResponse("url not found")
	urlInactiveResponse        = response.ErrorResponse("url is inactive")
	urlExpiredResponse         = response.ErrorResponse("url has expired")
)
