package orders

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/iwvelando/sales-forecast/pkg/datetime"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// ordersQuery joins orders with their line items over a half-open range.
// Orders without line items come back once with NULL item columns.
// created_at may be timestamptz or timestamp; the cast reads a timestamp
// column as wall clock time in the session TimeZone.
const ordersQuery = `
SELECT o.id, o.created_at::timestamptz, o.total, i.product_name, i.category, i.quantity
FROM orders o
LEFT JOIN order_items i ON i.order_id = o.id
WHERE o.created_at::timestamptz >= $1 AND o.created_at::timestamptz < $2
ORDER BY o.created_at, o.id`

// PostgresSource reads orders from PostgreSQL.
type PostgresSource struct {
	logger *zap.Logger
	db     *sql.DB
	loc    *time.Location
}

// OpenPostgresSource connects to the database behind dsn. Sessions run in
// loc unless dsn sets its own timezone.
func OpenPostgresSource(logger *zap.Logger, dsn string, loc *time.Location) (*PostgresSource, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres orders source requires a dsn")
	}
	connector, err := pq.NewConnector(withSessionZone(dsn, loc))
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	return NewPostgresSource(logger, sql.OpenDB(connector), loc), nil
}

// withSessionZone adds a timezone runtime parameter naming loc to dsn, in
// either URL or key=value form. time.Local has no IANA name to send, so it
// leaves dsn alone, as does a dsn that already sets timezone.
func withSessionZone(dsn string, loc *time.Location) string {
	if loc == nil || loc == time.Local || loc.String() == "Local" {
		return dsn
	}
	zone := loc.String()

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		for key := range q {
			if strings.EqualFold(key, "timezone") {
				return dsn
			}
		}
		q.Set("timezone", zone)
		u.RawQuery = q.Encode()
		return u.String()
	}

	for _, field := range strings.Fields(dsn) {
		if key, _, ok := strings.Cut(field, "="); ok && strings.EqualFold(strings.TrimSpace(key), "timezone") {
			return dsn
		}
	}
	return strings.TrimSpace(dsn) + " timezone=" + zone
}

// NewPostgresSource wraps an open database handle.
func NewPostgresSource(logger *zap.Logger, db *sql.DB, loc *time.Location) *PostgresSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &PostgresSource{logger: logger, db: db, loc: loc}
}

// Close releases the database handle.
func (s *PostgresSource) Close() error {
	return s.db.Close()
}

// orderRow is one scanned row of ordersQuery.
type orderRow struct {
	ID          string
	CreatedAt   time.Time
	Total       sql.NullString
	ProductName sql.NullString
	Category    sql.NullString
	Quantity    sql.NullInt64
}

// Fetch queries the orders created inside r.
func (s *PostgresSource) Fetch(ctx context.Context, r datetime.Range) ([]Order, error) {
	rows, err := s.db.QueryContext(ctx, ordersQuery, r.Start, r.UpperBound())
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var scanned []orderRow
	for rows.Next() {
		var row orderRow
		if err := rows.Scan(&row.ID, &row.CreatedAt, &row.Total, &row.ProductName, &row.Category, &row.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		scanned = append(scanned, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order rows: %w", err)
	}

	orders, skipped := foldRows(scanned, s.loc)
	for _, id := range skipped {
		s.logger.Warn("skipping order without total",
			zap.String("op", "orders.PostgresSource.Fetch"),
			zap.String("order", id),
		)
	}
	s.logger.Debug("orders loaded from postgres",
		zap.String("op", "orders.PostgresSource.Fetch"),
		zap.String("range", r.String()),
		zap.Int("orders", len(orders)),
		zap.Int("skipped", len(skipped)),
	)
	return orders, nil
}

// foldRows groups joined rows by order id, preserving query order. Orders
// whose total is NULL or unparsable are returned as skipped ids.
func foldRows(rows []orderRow, loc *time.Location) ([]Order, []string) {
	var orders []Order
	var skipped []string
	index := make(map[string]int)
	bad := make(map[string]bool)

	for _, row := range rows {
		if bad[row.ID] {
			continue
		}
		pos, seen := index[row.ID]
		if !seen {
			total, err := parseDecimal(nullToInterface(row.Total))
			if err != nil {
				bad[row.ID] = true
				skipped = append(skipped, row.ID)
				continue
			}
			orders = append(orders, Order{ID: row.ID, Date: row.CreatedAt.In(loc), Total: total})
			pos = len(orders) - 1
			index[row.ID] = pos
		}
		if row.ProductName.Valid && row.ProductName.String != "" {
			orders[pos].LineItems = append(orders[pos].LineItems, LineItem{
				ProductName: row.ProductName.String,
				Category:    row.Category.String,
				Quantity:    row.Quantity.Int64,
			})
		}
	}
	return orders, skipped
}

func nullToInterface(ns sql.NullString) interface{} {
	if !ns.Valid {
		return nil
	}
	return ns.String
}

var _ Source = (*PostgresSource)(nil)
var _ Source = (*FileSource)(nil)
