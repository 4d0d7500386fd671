package sqlstore

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/vadimbarashkov/shortlink/internal/entity"
)

var urlColumns = []string{"id", "code", "url", "clicks", "last_click_at", "expires_at", "active", "created_at"}

type urlDB struct {
	ID          int64    `db:"id"`
	ShortCode   string   `db:"code"`
	OriginalURL string   `db:"url"`
	Clicks      int64    `db:"clicks"`
	LastClickAt nullTime `db:"last_click_at"`
	ExpiresAt   nullTime `db:"expires_at"`
	Active      bool     `db:"active"`
	CreatedAt   nullTime `db:"created_at"`
}

func (u *urlDB) toEntity() *entity.URL {
	return &entity.URL{
		ID:          u.ID,
		ShortCode:   u.ShortCode,
		OriginalURL: u.OriginalURL,
		URLStats: entity.URLStats{
			Clicks:      u.Clicks,
			LastClickAt: u.LastClickAt.ptr(),
		},
		ExpiresAt: u.ExpiresAt.ptr(),
		Active:    u.Active,
		CreatedAt: u.CreatedAt.Time,
	}
}

// timeLayouts are the textual forms SQLite stores timestamps in.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC3339Nano,
}

// nullTime scans timestamps whether the driver yields time.Time or text.
type nullTime struct {
	Time  time.Time
	Valid bool
}

func (t *nullTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v, true
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("sqlstore: cannot scan %T into timestamp", src)
	}
}

func (t *nullTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = parsed, true
			return nil
		}
	}
	return fmt.Errorf("sqlstore: cannot parse timestamp %q", s)
}

func (t nullTime) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	return t.Time, nil
}

func (t nullTime) ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	tt := t.Time
	return &tt
}
