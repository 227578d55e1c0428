// Package archive reads historical quotation reference numbers from the
// legacy accounting database. The service runs fine without it; when
// disabled, NextRefID only sees references already imported or live.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/highrangestar/quotation-api/internal/config"
	_ "github.com/microsoft/go-mssqldb"
	"go.uber.org/zap"
)

// LegacyReference is one quotation reference row from the accounting books
type LegacyReference struct {
	RefID    string
	IssuedAt *time.Time
}

// Client is a read-only connection to the legacy SQL Server database
type Client struct {
	db           *sql.DB
	logger       *zap.Logger
	queryTimeout time.Duration
	enabled      bool
}

// NewClient connects to the legacy database with retries. When the archive
// is disabled in config, a no-op client is returned.
func NewClient(cfg *config.ArchiveConfig, logger *zap.Logger) (*Client, error) {
	if !cfg.Enabled {
		logger.Info("Legacy archive disabled")
		return &Client{logger: logger, enabled: false}, nil
	}

	connStr, err := buildConnectionString(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build archive connection string: %w", err)
	}

	var db *sql.DB
	maxRetries := 3
	backoff := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		db, err = sql.Open("sqlserver", connStr)
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err = db.PingContext(ctx)
			cancel()
			if err == nil {
				break
			}
			db.Close()
		}

		if attempt < maxRetries {
			logger.Warn("Archive connection failed, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(err))
			time.Sleep(backoff)
			backoff *= 2
			if backoff > 10*time.Second {
				backoff = 10 * time.Second
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to archive after %d attempts: %w", maxRetries, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	logger.Info("Connected to legacy archive database")

	return &Client{
		db:           db,
		logger:       logger,
		queryTimeout: time.Duration(cfg.QueryTimeout) * time.Second,
		enabled:      true,
	}, nil
}

// IsEnabled reports whether the archive connection is active
func (c *Client) IsEnabled() bool {
	return c.enabled
}

// ListQuotationReferences fetches all historical HRS-QN reference numbers
func (c *Client) ListQuotationReferences(ctx context.Context) ([]LegacyReference, error) {
	if !c.enabled {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	const query = `
		SELECT QuoteNo, IssuedOn
		FROM dbo.hrs_quotation_register
		WHERE QuoteNo LIKE 'HRS-QN-%'`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotation register: %w", err)
	}
	defer rows.Close()

	var refs []LegacyReference
	for rows.Next() {
		var ref LegacyReference
		var issuedAt sql.NullTime
		if err := rows.Scan(&ref.RefID, &issuedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quotation register row: %w", err)
		}
		ref.RefID = strings.TrimSpace(ref.RefID)
		if issuedAt.Valid {
			ref.IssuedAt = &issuedAt.Time
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read quotation register rows: %w", err)
	}

	c.logger.Debug("Fetched legacy quotation references", zap.Int("count", len(refs)))
	return refs, nil
}

// HealthCheck pings the archive and reports pool stats
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.enabled {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("archive ping failed: %w", err)
	}

	stats := c.db.Stats()
	c.logger.Debug("Archive health check",
		zap.Int("openConnections", stats.OpenConnections),
		zap.Int("inUse", stats.InUse),
		zap.Int("idle", stats.Idle))
	return nil
}

// Close releases the connection pool
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func buildConnectionString(cfg *config.ArchiveConfig) (string, error) {
	if cfg.URL == "" {
		return "", fmt.Errorf("archive URL is required")
	}

	host := cfg.URL
	database := ""
	if idx := strings.Index(host, "/"); idx >= 0 {
		database = host[idx+1:]
		host = host[:idx]
	}

	query := url.Values{}
	query.Add("database", database)
	query.Add("encrypt", "true")
	query.Add("TrustServerCertificate", "false")
	query.Add("connection timeout", "30")

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     host,
		RawQuery: query.Encode(),
	}
	return u.String(), nil
}
