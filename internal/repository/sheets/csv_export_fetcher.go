package sheets

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/cattlehealth/internal/config"
	"github.com/mamadbah2/cattlehealth/internal/csvtext"
	"github.com/mamadbah2/cattlehealth/internal/metrics"
)

// CSVExportURL builds the published CSV export address of a tab.
func CSVExportURL(baseURL, spreadsheetID, tab string) string {
	return fmt.Sprintf("%s/%s/gviz/tq?tqx=out:csv&sheet=%s",
		strings.TrimSuffix(baseURL, "/"), spreadsheetID, url.QueryEscape(tab))
}

// CSVExportFetcher reads tabs through the public CSV export. Every call goes
// to the network: there is no cache and no retry.
type CSVExportFetcher struct {
	httpClient    *resty.Client
	baseURL       string
	spreadsheetID string
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewCSVExportFetcher builds a fetcher for the configured spreadsheet.
func NewCSVExportFetcher(cfg config.SheetsConfig, m *metrics.Metrics, logger *zap.Logger) *CSVExportFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetHeader("Accept", "text/csv").
		SetHeader("Cache-Control", "no-cache")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &CSVExportFetcher{
		httpClient:    client,
		baseURL:       cfg.ExportBaseURL,
		spreadsheetID: cfg.SpreadsheetID,
		metrics:       m,
		logger:        logger,
	}
}

// FetchCSV returns the raw CSV body of a tab.
func (f *CSVExportFetcher) FetchCSV(ctx context.Context, tab string) (body string, err error) {
	start := time.Now()
	defer func() { f.metrics.ObserveSheetFetch(tab, err, time.Since(start)) }()

	resp, err := f.httpClient.R().
		SetContext(ctx).
		Get(CSVExportURL(f.baseURL, f.spreadsheetID, tab))
	if err != nil {
		return "", fmt.Errorf("fetch tab %s: %w", tab, err)
	}

	if !resp.IsSuccess() {
		return "", fmt.Errorf("fetch tab %s: status %d: %w", tab, resp.StatusCode(), ErrSheetUnavailable)
	}

	f.logger.Debug("tab fetched", zap.String("tab", tab), zap.Int("bytes", len(resp.Body())))
	return resp.String(), nil
}

// ReadTab fetches a tab and decodes it into rows.
func (f *CSVExportFetcher) ReadTab(ctx context.Context, tab string) ([][]string, error) {
	body, err := f.FetchCSV(ctx, tab)
	if err != nil {
		return nil, err
	}
	return csvtext.Decode(body), nil
}
