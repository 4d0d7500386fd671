package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// EnvPrefix prefixes every environment variable that overrides the config file.
const EnvPrefix = "SHORTLINK_"

type Config struct {
	Env             string  `yaml:"env" env:"ENV"`
	ShortCodeLength int     `yaml:"short_code_length" env:"SHORT_CODE_LENGTH"`
	HTTPServer      `yaml:"http_server" envPrefix:"HTTP_SERVER_"`
	Storage         Storage `yaml:"storage" envPrefix:"STORAGE_"`
	Postgres        `yaml:"postgres" envPrefix:"POSTGRES_"`
	Log             Log     `yaml:"log" envPrefix:"LOG_"`
}

type HTTPServer struct {
	Port           int           `yaml:"port" env:"PORT"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`
	MaxHeaderBytes int           `yaml:"max_header_bytes" env:"MAX_HEADER_BYTES"`
	CertFile       string        `yaml:"cert_file" env:"CERT_FILE"`
	KeyFile        string        `yaml:"key_file" env:"KEY_FILE"`
}

var defaultHTTPServer = HTTPServer{
	Port:           8080,
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   10 * time.Second,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// Storage selects the database engine.
type Storage struct {
	Driver string `yaml:"driver" env:"DRIVER"`
	SQLite SQLite `yaml:"sqlite" envPrefix:"SQLITE_"`
}

type SQLite struct {
	Path         string        `yaml:"path" env:"PATH"`
	BusyTimeout  time.Duration `yaml:"busy_timeout" env:"BUSY_TIMEOUT"`
	MaxOpenConns int           `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
}

var defaultStorage = Storage{
	Driver: DriverSQLite,
	SQLite: SQLite{
		Path:         "shortlink.db",
		BusyTimeout:  5 * time.Second,
		MaxOpenConns: 8,
	},
}

type Postgres struct {
	User            string        `yaml:"user" env:"USER"`
	Password        string        `yaml:"password" env:"PASSWORD"`
	Host            string        `yaml:"host" env:"HOST"`
	Port            int           `yaml:"port" env:"PORT"`
	DB              string        `yaml:"db" env:"DB"`
	SSLMode         string        `yaml:"sslmode" env:"SSLMODE"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" env:"CONN_MAX_IDLE_TIME"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
}

var defaultPostgres = Postgres{
	Host:            "localhost",
	Port:            5432,
	SSLMode:         "disable",
	ConnMaxIdleTime: 5 * time.Minute,
	ConnMaxLifetime: 30 * time.Minute,
	MaxIdleConns:    5,
	MaxOpenConns:    25,
}

func (p *Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DB, p.SSLMode)
}

type Log struct {
	Level string `yaml:"level" env:"LEVEL"`
}

// SlogLevel returns the configured level, falling back to info.
func (l Log) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Load reads the YAML file at path over the defaults and applies SHORTLINK_*
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	var cfg Config
	setDefaults(&cfg)

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
		}
	}

	if err := env.Parse(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("%s: failed to parse environment variables: %w", op, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.ShortCodeLength = 7
	cfg.HTTPServer = defaultHTTPServer
	cfg.Storage = defaultStorage
	cfg.Postgres = defaultPostgres
	cfg.Log = Log{Level: "info"}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Env {
	case EnvDev, EnvStage, EnvProd:
	default:
		errs = append(errs, fmt.Errorf("unknown env %q", c.Env))
	}

	if c.ShortCodeLength < 1 || c.ShortCodeLength > 32 {
		errs = append(errs, fmt.Errorf("short_code_length must be within 1..32, got %d", c.ShortCodeLength))
	}

	if c.HTTPServer.Port < 1 || c.HTTPServer.Port > 65535 {
		errs = append(errs, fmt.Errorf("http_server.port must be within 1..65535, got %d", c.HTTPServer.Port))
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLite.Path == "" {
			errs = append(errs, errors.New("storage.sqlite.path is required"))
		}
	case DriverPostgres:
		if c.Postgres.User == "" || c.Postgres.DB == "" {
			errs = append(errs, errors.New("postgres.user and postgres.db are required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		errs = append(errs, fmt.Errorf("invalid log.level %q", c.Log.Level))
	}

	return errors.Join(errs...)
}
