// Package sqlstore implements the URL repository on top of database/sql
// engines. Every method is a single statement, so each call commits on its own
// and is visible to any read issued after it returns.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

const urlsTable = "urls"

type URLRepository struct {
	db      *sqlx.DB
	dialect Dialect
	sb      sq.StatementBuilderType
}

func NewURLRepository(db *sqlx.DB, dialect Dialect) *URLRepository {
	return &URLRepository{
		db:      db,
		dialect: dialect,
		sb:      sq.StatementBuilder.PlaceholderFormat(dialect.placeholder),
	}
}

func storageError(op, msg string, err error) error {
	return fmt.Errorf("%s: %s: %w: %w", op, msg, entity.ErrStorage, err)
}

func returning() string {
	return "RETURNING " + strings.Join(urlColumns, ", ")
}

func (r *URLRepository) Save(ctx context.Context, shortCode, originalURL string) (*entity.URL, error) {
	const op = "adapter.repository.sqlstore.URLRepository.Save"

	query, args, err := r.sb.
		Insert(urlsTable).
		Columns("code", "url").
		Values(shortCode, originalURL).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, args...); err != nil {
		if r.dialect.isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrShortCodeExists)
		}

		return nil, storageError(op, "failed to insert into urls table", err)
	}

	return url.toEntity(), nil
}

func (r *URLRepository) RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "adapter.repository.sqlstore.URLRepository.RetrieveByShortCode"

	url, err := r.retrieve(ctx, sq.Eq{"code": shortCode})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return url, nil
}

func (r *URLRepository) RetrieveByID(ctx context.Context, id int64) (*entity.URL, error) {
	const op = "adapter.repository.sqlstore.URLRepository.RetrieveByID"

	url, err := r.retrieve(ctx, sq.Eq{"id": id})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return url, nil
}

func (r *URLRepository) retrieve(ctx context.Context, where sq.Eq) (*entity.URL, error) {
	query, args, err := r.sb.
		Select(urlColumns...).
		From(urlsTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrURLNotFound
		}

		return nil, fmt.Errorf("failed to get row from urls table: %w: %w", entity.ErrStorage, err)
	}

	return url.toEntity(), nil
}

func (r *URLRepository) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	const op = "adapter.repository.sqlstore.URLRepository.ShortCodeExists"

	query, args, err := r.sb.
		Select("1").
		Prefix("SELECT EXISTS(").
		From(urlsTable).
		Where(sq.Eq{"code": shortCode}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var exists bool

	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		return false, storageError(op, "failed to check short code", err)
	}

	return exists, nil
}

func (r *URLRepository) Update(ctx context.Context, id int64, upd entity.URLUpdate) (*entity.URL, error) {
	const op = "adapter.repository.sqlstore.URLRepository.Update"

	if upd.IsEmpty() {
		return r.RetrieveByID(ctx, id)
	}

	b := r.sb.Update(urlsTable)
	if upd.OriginalURL != nil {
		b = b.Set("url", *upd.OriginalURL)
	}
	if upd.ShortCode != nil {
		b = b.Set("code", *upd.ShortCode)
	}
	if upd.ExpiresAt.Set {
		var expiresAt any
		if upd.ExpiresAt.Value != nil {
			expiresAt = upd.ExpiresAt.Value.UTC()
		}
		b = b.Set("expires_at", expiresAt)
	}
	if upd.Active != nil {
		b = b.Set("active", *upd.Active)
	}

	query, args, err := b.
		Where(sq.Eq{"id": id}).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}
		if r.dialect.isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrShortCodeExists)
		}

		return nil, storageError(op, "failed to update urls table row", err)
	}

	return url.toEntity(), nil
}

func (r *URLRepository) Remove(ctx context.Context, id int64) error {
	const op = "adapter.repository.sqlstore.URLRepository.Remove"

	query, args, err := r.sb.
		Delete(urlsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return storageError(op, "failed to delete from urls table", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return storageError(op, "failed to get number of affected rows", err)
	}

	if rowsAffected != 1 {
		return fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	return nil
}

// IncrementClicks bumps the counter and the last click time of the URL in one
// statement, so concurrent calls never lose an increment.
func (r *URLRepository) IncrementClicks(ctx context.Context, shortCode string) error {
	const op = "adapter.repository.sqlstore.URLRepository.IncrementClicks"

	query, args, err := r.sb.
		Update(urlsTable).
		Set("clicks", sq.Expr("clicks + 1")).
		Set("last_click_at", sq.Expr(r.dialect.now)).
		Where(sq.Eq{"code": shortCode}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return storageError(op, "failed to update urls table stats", err)
	}

	return nil
}

func (r *URLRepository) List(ctx context.Context, filter entity.ListFilter) ([]entity.URL, error) {
	const op = "adapter.repository.sqlstore.URLRepository.List"

	b := r.sb.
		Select(urlColumns...).
		From(urlsTable)

	if !filter.IncludeInactive {
		b = b.Where(sq.Eq{"active": true})
	}
	if filter.Query != "" {
		b = b.Where(sq.Or{
			r.dialect.containsExpr("code", filter.Query),
			r.dialect.containsExpr("url", filter.Query),
		})
	}

	b = b.OrderBy("created_at DESC", "id DESC")

	switch {
	case filter.Limit > 0:
		b = b.Limit(filter.Limit)
	case filter.Offset > 0:
		// OFFSET needs a LIMIT in SQLite.
		b = b.Limit(math.MaxInt64)
	}
	if filter.Offset > 0 {
		b = b.Offset(filter.Offset)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var rows []urlDB

	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, storageError(op, "failed to select from urls table", err)
	}

	urls := make([]entity.URL, 0, len(rows))
	for i := range rows {
		urls = append(urls, *rows[i].toEntity())
	}

	return urls, nil
}
