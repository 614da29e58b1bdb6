package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/shelfswap/shelfswap/internal/config"
)

type Client struct {
	conn driver.Conn
}

func NewClient(cfg config.ClickHouseConfig) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:      time.Second * 30,
		MaxOpenConns:     cfg.MaxConns,
		MaxIdleConns:     cfg.MaxConns / 2,
		ConnMaxLifetime:  time.Hour,
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// ViewEvent is the enriched form of a book view written to ClickHouse.
type ViewEvent struct {
	EventID  string
	BookID   string
	ViewedAt time.Time

	IPAddress string
	Country   string
	Region    string

	UserAgent      string
	Browser        string
	BrowserVersion string
	OS             string
	DeviceType     string

	Referer string
}

func (c *Client) InsertViewEvents(ctx context.Context, events []ViewEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := c.conn.PrepareBatch(ctx, `INSERT INTO analytics.book_view_events (
		event_id, book_id, viewed_at,
		ip_address, country, region,
		user_agent, browser, browser_version, os, device_type,
		referer
	)`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, event := range events {
		err := batch.Append(
			event.EventID,
			event.BookID,
			event.ViewedAt,
			event.IPAddress,
			event.Country,
			event.Region,
			event.UserAgent,
			event.Browser,
			event.BrowserVersion,
			event.OS,
			event.DeviceType,
			event.Referer,
		)
		if err != nil {
			return fmt.Errorf("failed to append event: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	return nil
}

// BookStats aggregates view activity for a single listing.
type BookStats struct {
	BookID         string           `json:"book_id"`
	TotalViews     uint64           `json:"total_views"`
	UniqueVisitors uint64           `json:"unique_visitors"`
	Last7Days      uint64           `json:"last_7_days"`
	ByDeviceType   map[string]int64 `json:"by_device_type"`
}

func (c *Client) GetBookStats(ctx context.Context, bookID string) (*BookStats, error) {
	stats := &BookStats{
		BookID:       bookID,
		ByDeviceType: make(map[string]int64),
	}

	err := c.conn.QueryRow(ctx, `
		SELECT
			count() AS total_views,
			uniqExact(ip_address) AS unique_visitors,
			countIf(viewed_at > now() - INTERVAL 7 DAY) AS last_7_days
		FROM analytics.book_view_events
		WHERE book_id = ?
	`, bookID).Scan(&stats.TotalViews, &stats.UniqueVisitors, &stats.Last7Days)
	if err != nil {
		return nil, fmt.Errorf("failed to query book stats: %w", err)
	}

	rows, err := c.conn.Query(ctx, `
		SELECT device_type, count() AS views
		FROM analytics.book_view_events
		WHERE book_id = ?
		GROUP BY device_type
	`, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to query device breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var deviceType string
		var views uint64
		if err := rows.Scan(&deviceType, &views); err != nil {
			return nil, fmt.Errorf("failed to scan device breakdown: %w", err)
		}
		stats.ByDeviceType[deviceType] = int64(views)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating device breakdown: %w", err)
	}

	return stats, nil
}

// RecentView is a single row of recent activity for a listing.
type RecentView struct {
	ViewedAt   time.Time `json:"viewed_at"`
	Browser    string    `json:"browser"`
	OS         string    `json:"os"`
	DeviceType string    `json:"device_type"`
	Referer    string    `json:"referer"`
}

func (c *Client) GetRecentViews(ctx context.Context, bookID string, limit int) ([]RecentView, error) {
	rows, err := c.conn.Query(ctx, `
		SELECT viewed_at, browser, os, device_type, referer
		FROM analytics.book_view_events
		WHERE book_id = ?
		ORDER BY viewed_at DESC
		LIMIT ?
	`, bookID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent views: %w", err)
	}
	defer rows.Close()

	var views []RecentView
	for rows.Next() {
		var view RecentView
		if err := rows.Scan(&view.ViewedAt, &view.Browser, &view.OS, &view.DeviceType, &view.Referer); err != nil {
			return nil, fmt.Errorf("failed to scan recent view: %w", err)
		}
		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent views: %w", err)
	}

	return views, nil
}
