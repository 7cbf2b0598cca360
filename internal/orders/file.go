package orders

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/iwvelando/sales-forecast/pkg/datetime"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FileSource reads orders from a YAML or JSON file holding a list of orders.
// The file is re-read on every fetch so edits show up on the next refresh.
type FileSource struct {
	logger *zap.Logger
	path   string
	loc    *time.Location
}

// NewFileSource creates a FileSource. A nil location means time.Local.
func NewFileSource(logger *zap.Logger, path string, loc *time.Location) *FileSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &FileSource{logger: logger, path: path, loc: loc}
}

// Fetch returns the valid orders of the file that fall inside r.
func (s *FileSource) Fetch(ctx context.Context, r datetime.Range) ([]Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read orders file: %w", err)
	}

	orders, err := DecodeOrders(s.logger, data, s.loc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse orders file %s: %w", s.path, err)
	}

	inRange := orders[:0]
	for _, order := range orders {
		if r.Contains(order.Date, s.loc) {
			inRange = append(inRange, order)
		}
	}

	s.logger.Debug("orders loaded from file",
		zap.String("op", "orders.FileSource.Fetch"),
		zap.String("path", s.path),
		zap.String("range", r.String()),
		zap.Int("total", len(orders)),
		zap.Int("inRange", len(inRange)),
	)
	return inRange, nil
}

// DecodeOrders parses a YAML or JSON list of orders. Records with an
// unparsable date or a missing total are logged and skipped.
func DecodeOrders(logger *zap.Logger, data []byte, loc *time.Location) ([]Order, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var records []record
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 {
		if err := yaml.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
	}

	orders := make([]Order, 0, len(records))
	for _, rec := range records {
		order, err := rec.toOrder(loc)
		if err != nil {
			logger.Warn("skipping invalid order",
				zap.String("op", "orders.DecodeOrders"),
				zap.Error(err),
			)
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}
