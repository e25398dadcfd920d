package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/golang-migrate/migrate/v4"
	clickmigrations "github.com/golang-migrate/migrate/v4/database/clickhouse"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/oschwald/geoip2-golang"

	"urlshortener/internal/types"
)

//go:embed migrations/clickhouse/*.sql
var clickhouseMigrationsFS embed.FS

const (
	clicksBufferSize = 1000
	flushBatchSize   = 100
	flushInterval    = 5 * time.Second
	unknownLocation  = "Unknown"
)

type clickWriter interface {
	WriteClicks(ctx context.Context, rows []types.Analytic) error
}

type geoLocator interface {
	City(ip net.IP) (*geoip2.City, error)
}

// Analytics buffers raw click events and writes them to ClickHouse in batches.
type Analytics struct {
	writer        clickWriter
	geo           geoLocator
	clicks        chan types.ClickEvent
	batchSize     int
	flushInterval time.Duration
	done          chan struct{}
	closers       []func() error
}

type ClickHouseConfig struct {
	Addr      string
	User      string
	Password  string
	Database  string
	GeoIPPath string
}

func ConnectClickHouse(cfg ClickHouseConfig) (*Analytics, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		DialTimeout: 30 * time.Second,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	if err := runClickHouseMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	var geo geoLocator
	closers := []func() error{conn.Close}
	if cfg.GeoIPPath != "" {
		reader, err := geoip2.Open(cfg.GeoIPPath)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("open geoip db: %w", err)
		}
		geo = reader
		closers = append(closers, reader.Close)
	}

	a := NewAnalytics(&clickhouseWriter{db: conn}, geo)
	a.closers = closers
	return a, nil
}

// NewAnalytics wires a writer and an optional geo locator.
func NewAnalytics(writer clickWriter, geo geoLocator) *Analytics {
	return &Analytics{
		writer:        writer,
		geo:           geo,
		clicks:        make(chan types.ClickEvent, clicksBufferSize),
		batchSize:     flushBatchSize,
		flushInterval: flushInterval,
		done:          make(chan struct{}),
	}
}

func runClickHouseMigrations(db *sql.DB) error {
	src, err := iofs.New(clickhouseMigrationsFS, "migrations/clickhouse")
	if err != nil {
		return err
	}

	driver, err := clickmigrations.WithInstance(db, &clickmigrations.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", src, "clickhouse", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("clickhouse migrations: %w", err)
	}

	slog.Info("ClickHouse migrations applied successfully")
	return nil
}

// Start runs the flush worker until ctx is done. Pending clicks are flushed on exit.
func (a *Analytics) Start(ctx context.Context) {
	go a.worker(ctx)
}

// Done is closed once the worker has flushed and exited.
func (a *Analytics) Done() <-chan struct{} {
	return a.done
}

func (a *Analytics) worker(ctx context.Context) {
	defer close(a.done)

	var buffer []types.ClickEvent
	ticker := time.NewTicker(a.flushInterval)
	defer ticker.Stop()

	flush := func(ctx context.Context) {
		if len(buffer) == 0 {
			return
		}
		if err := a.recordClicks(ctx, buffer); err != nil {
			slog.Warn("RecordClicks error", "error", err, "dropped", len(buffer))
		}
		buffer = nil
	}

	for {
		select {
		case event := <-a.clicks:
			buffer = append(buffer, event)
			if len(buffer) >= a.batchSize {
				flush(ctx)
			}
		case <-ticker.C:
			flush(ctx)
		case <-ctx.Done():
			for {
				select {
				case event := <-a.clicks:
					buffer = append(buffer, event)
				default:
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					flush(shutdownCtx)
					cancel()
					return
				}
			}
		}
	}
}

func (a *Analytics) recordClicks(ctx context.Context, clicks []types.ClickEvent) error {
	rows := make([]types.Analytic, 0, len(clicks))
	for _, c := range clicks {
		country, city := a.locate(c.IP)
		rows = append(rows, types.Analytic{
			ShortCode: c.ShortCode,
			Owner:     c.Owner,
			Country:   country,
			City:      city,
			UserAgent: c.UserAgent,
			Referer:   c.Referer,
			ClickedAt: c.ClickedAt,
		})
	}
	return a.writer.WriteClicks(ctx, rows)
}

func (a *Analytics) locate(rawIP string) (country, city string) {
	country, city = unknownLocation, unknownLocation
	if a.geo == nil {
		return
	}
	ip := net.ParseIP(rawIP)
	if ip == nil {
		return
	}
	record, err := a.geo.City(ip)
	if err != nil {
		return
	}
	if name, ok := record.City.Names["en"]; ok {
		city = name
	}
	if name, ok := record.Country.Names["en"]; ok {
		country = name
	}
	return
}

// PushClick enqueues a click without blocking. Clicks are dropped when the
// buffer is full or the worker has already exited.
func (a *Analytics) PushClick(event types.ClickEvent) {
	select {
	case <-a.done:
		slog.Warn("Analytics worker stopped, dropping click data", "code", event.ShortCode)
		return
	default:
	}

	select {
	case a.clicks <- event:
	default:
		slog.Warn("Analytics buffer full, dropping click data", "code", event.ShortCode)
	}
}

func (a *Analytics) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type clickhouseWriter struct {
	db *sql.DB
}

func (w *clickhouseWriter) WriteClicks(ctx context.Context, rows []types.Analytic) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO clicks (short_code, owner, country, city, user_agent, referer, clicked_at) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.ShortCode, r.Owner, r.Country, r.City, r.UserAgent, r.Referer, r.ClickedAt); err != nil {
			slog.Error("failed to exec insert for click", "error", err, "code", r.ShortCode)
			continue
		}
	}
	return tx.Commit()
}
