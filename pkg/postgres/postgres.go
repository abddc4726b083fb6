package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Config is read with the DB prefix: DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD.
// The defaults are local development placeholders.
type Config struct {
	Host         string        `split_words:"true" default:"localhost"`
	Port         int           `split_words:"true" default:"5432"`
	Name         string        `split_words:"true" default:"insurance_core"`
	User         string        `split_words:"true" default:"insurance_user"`
	Password     string        `split_words:"true" default:"insurance_pass"`
	SSLMode      string        `split_words:"true" default:"disable"`
	DialTimeout  time.Duration `split_words:"true" default:"5s"`
	MaxOpenConns int           `split_words:"true" default:"10"`
	MaxIdleConns int           `split_words:"true" default:"5"`
}

func (c Config) Addr() string {
	return net.JoinHostPort(strings.TrimSpace(c.Host), strconv.Itoa(c.Port))
}

func (c Config) connectorOptions() []pgdriver.Option {
	opts := []pgdriver.Option{
		pgdriver.WithAddr(c.Addr()),
		pgdriver.WithUser(strings.TrimSpace(c.User)),
		pgdriver.WithPassword(c.Password),
		pgdriver.WithDatabase(strings.TrimSpace(c.Name)),
		pgdriver.WithApplicationName("insurance-assistant"),
	}
	if c.DialTimeout > 0 {
		opts = append(opts, pgdriver.WithDialTimeout(c.DialTimeout))
	}
	if strings.EqualFold(strings.TrimSpace(c.SSLMode), "disable") || strings.TrimSpace(c.SSLMode) == "" {
		opts = append(opts, pgdriver.WithInsecure(true))
	}
	return opts
}

// Open builds the shared connection pool. No connection is made until first use.
func Open(cfg Config) (*bun.DB, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("postgres: host is required")
	}
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, fmt.Errorf("postgres: database name is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(cfg.connectorOptions()...))
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// OpenDSN is used by tests that receive a ready connection string.
func OpenDSN(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func Ping(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return fmt.Errorf("postgres: db is nil")
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}
