package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlink/internal/entity"
	"github.com/vadimbarashkov/shortlink/pkg/response"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

type urlUseCase interface {
	ShortenURL(ctx context.Context, params entity.ShortenParams) (*entity.URL, error)
	ResolveShortCode(ctx context.Context, shortCode string) (*entity.URL, error)
	GetURL(ctx context.Context, id int64) (*entity.URL, error)
	ModifyURL(ctx context.Context, id int64, upd entity.URLUpdate) (*entity.URL, error)
	DeleteURL(ctx context.Context, id int64) error
	ListURLs(ctx context.Context, filter entity.ListFilter) ([]entity.URL, error)
}

type urlHandler struct {
	useCase  urlUseCase
	validate *validator.Validate
}

func newURLHandler(useCase urlUseCase, validate *validator.Validate) *urlHandler {
	validate.RegisterTagNameFunc(response.JSONTagName)

	return &urlHandler{
		useCase:  useCase,
		validate: validate,
	}
}

// decode reads and validates a JSON body, answering the request itself on failure.
func (h *urlHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		render.Status(r, http.StatusBadRequest)

		if errors.Is(err, io.EOF) {
			render.JSON(w, r, emptyRequestBodyResponse)
			return false
		}

		render.JSON(w, r, invalidRequestBodyResponse)
		return false
	}

	if err := h.validate.Struct(v); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationErrorResponse(err))
		return false
	}

	return true
}

// renderError maps domain errors to statuses. Anything unknown is logged and
// reported as a server error.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status int
		resp   response.Response
	)

	switch {
	case errors.Is(err, entity.ErrInvalidURL):
		status, resp = http.StatusBadRequest, invalidURLResponse
	case errors.Is(err, entity.ErrInvalidShortCode):
		status, resp = http.StatusBadRequest, invalidShortCodeResponse
	case errors.Is(err, entity.ErrShortCodeExists):
		status, resp = http.StatusConflict, shortCodeExistsResponse
	case errors.Is(err, entity.ErrURLNotFound):
		status, resp = http.StatusNotFound, urlNotFoundResponse
	case errors.Is(err, entity.ErrURLInactive):
		status, resp = http.StatusGone, urlInactiveResponse
	case errors.Is(err, entity.ErrURLExpired):
		status, resp = http.StatusGone, urlExpiredResponse
	default:
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
		status, resp = http.StatusInternalServerError, response.ServerErrorResponse
	}

	render.Status(r, status)
	render.JSON(w, r, resp)
}

func urlID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidIDResponse)
		return 0, false
	}

	return id, true
}

func (h *urlHandler) createURL(w http.ResponseWriter, r *http.Request) {
	var req createURLRequest

	if !h.decode(w, r, &req) {
		return
	}

	url, err := h.useCase.ShortenURL(r.Context(), req.toParams())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.SuccessResponse(toURLResponse(url)))
}

func (h *urlHandler) shortenURL(w http.ResponseWriter, r *http.Request) {
	var req shortenRequest

	if !h.decode(w, r, &req) {
		return
	}

	url, err := h.useCase.ShortenURL(r.Context(), entity.ShortenParams{OriginalURL: req.OriginalURL})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, shortenResponse{
		ShortCode:   url.ShortCode,
		OriginalURL: url.OriginalURL,
	})
}

func (h *urlHandler) listURLs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := entity.ListFilter{
		Query:           query.Get("q"),
		IncludeInactive: query.Get("includeInactive") == "true",
	}

	var fieldErrs []response.FieldError

	for _, p := range []struct {
		name string
		dst  *uint64
	}{
		{"limit", &filter.Limit},
		{"offset", &filter.Offset},
	} {
		raw := query.Get(p.name)
		if raw == "" {
			continue
		}

		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			fieldErrs = append(fieldErrs, response.FieldError{Field: p.name, Message: "must be a non-negative integer"})
			continue
		}
		*p.dst = v
	}

	if len(fieldErrs) > 0 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ErrorResponse("invalid query parameters", fieldErrs...))
		return
	}

	urls, err := h.useCase.ListURLs(r.Context(), filter)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response.SuccessResponse(toURLResponses(urls)))
}

func (h *urlHandler) getURL(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	url, err := h.useCase.GetURL(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response.SuccessResponse(toURLResponse(url)))
}

func (h *urlHandler) modifyURL(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req updateURLRequest

	if !h.decode(w, r, &req) {
		return
	}

	url, err := h.useCase.ModifyURL(r.Context(), id, req.toUpdate())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response.SuccessResponse(toURLResponse(url)))
}

func (h *urlHandler) deleteURL(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := h.useCase.DeleteURL(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response.SuccessResponse())
}

func (h *urlHandler) redirect(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "code")

	url, err := h.useCase.ResolveShortCode(r.Context(), shortCode)
	if err != nil {
		renderError(w, r, err)
		return
	}

	http.Redirect(w, r, url.OriginalURL, http.StatusFound)
}
