package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/cattlehealth/internal/config"
	"github.com/mamadbah2/cattlehealth/internal/metrics"
)

// GoogleSheetRepository reads tabs using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Sheets API backed reader authenticated
// with the configured service account file.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, m *metrics.Metrics, logger *zap.Logger) (*GoogleSheetRepository, error) {
	return NewGoogleSheetRepositoryWithOptions(ctx, cfg.SpreadsheetID, m, logger,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope))
}

// NewGoogleSheetRepositoryWithOptions builds a reader with explicit client options.
func NewGoogleSheetRepositoryWithOptions(ctx context.Context, spreadsheetID string, m *metrics.Metrics, logger *zap.Logger, opts ...option.ClientOption) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: spreadsheetID,
		metrics:       m,
		logger:        logger,
	}, nil
}

// ReadTab fetches every populated row of a tab with cells rendered as strings.
func (r *GoogleSheetRepository) ReadTab(ctx context.Context, tab string) (rows [][]string, err error) {
	if tab == "" {
		return nil, fmt.Errorf("tab must not be empty")
	}

	start := time.Now()
	defer func() { r.metrics.ObserveSheetFetch(tab, err, time.Since(start)) }()

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, tab).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read tab %s: %v: %w", tab, err, ErrSheetUnavailable)
	}

	rows = make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = strings.TrimSpace(fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}

	r.logger.Debug("tab read through sheets api", zap.String("tab", tab), zap.Int("rows", len(rows)))
	return rows, nil
}
