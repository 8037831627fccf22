// Package records turns spreadsheet tabs into typed records. Reads never fail:
// an unreachable or empty tab degrades to a fixed mock collection, except for
// cattle and users which degrade to an empty list.
package records

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/cattlehealth/internal/domain/models"
	"github.com/mamadbah2/cattlehealth/internal/metrics"
	repo "github.com/mamadbah2/cattlehealth/internal/repository/sheets"
	"github.com/mamadbah2/cattlehealth/pkg/clients/appscript"
)

const (
	fallbackMock  = "mock"
	fallbackEmpty = "empty"
)

// Service fetches and maps every entity of the spreadsheet database.
type Service struct {
	reader  repo.TabReader
	gateway appscript.Client
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the clock used to stamp mock records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService wires a records service.
func NewService(reader repo.TabReader, gateway appscript.Client, m *metrics.Metrics, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		reader:  reader,
		gateway: gateway,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchOwners returns the Owners tab, or the mock owners.
func (s *Service) FetchOwners(ctx context.Context) []models.Owner {
	rows, err := s.reader.ReadTab(ctx, repo.TabOwners)
	if err == nil {
		if owners := mapOwners(rows); len(owners) > 0 {
			return owners
		}
	}
	s.fallback("owners", fallbackMock, err)
	return MockOwners()
}

// FetchCattleDatabase asks the remote script for the herd first and reads the
// RFID_Database tab when that is not possible. Errors yield an empty herd.
func (s *Service) FetchCattleDatabase(ctx context.Context) []models.Cattle {
	if cattle, ok := s.fetchCattleFromGateway(ctx); ok {
		return cattle
	}

	rows, err := s.reader.ReadTab(ctx, repo.TabCattle)
	if err != nil {
		s.fallback("cattle", fallbackEmpty, err)
		return []models.Cattle{}
	}
	return mapCattle(rows)
}

func (s *Service) fetchCattleFromGateway(ctx context.Context) ([]models.Cattle, bool) {
	if s.gateway == nil {
		return nil, false
	}

	env, err := s.gateway.Call(ctx, appscript.ActionGetCattle, nil)
	if err != nil {
		s.logger.Debug("remote cattle unavailable, reading sheet", zap.Error(err))
		return nil, false
	}
	if !env.Success || !env.Has("cattle") {
		return nil, false
	}

	var cattle []models.Cattle
	if err := env.Decode("cattle", &cattle); err != nil {
		s.logger.Debug("remote cattle undecodable, reading sheet", zap.Error(err))
		return nil, false
	}
	return cattle, true
}

// FetchRFIDLogs returns the Logs tab, or the mock logs.
func (s *Service) FetchRFIDLogs(ctx context.Context) []models.RFIDLog {
	rows, err := s.reader.ReadTab(ctx, repo.TabLogs)
	if err == nil {
		if logs := mapLogs(rows); len(logs) > 0 {
			return logs
		}
	}
	s.fallback("logs", fallbackMock, err)
	return MockRFIDLogs(s.now())
}

// FetchMilkRecords returns the MilkRecords tab, or the mock milk records.
func (s *Service) FetchMilkRecords(ctx context.Context) []models.MilkRecord {
	rows, err := s.reader.ReadTab(ctx, repo.TabMilkRecords)
	if err == nil {
		if records := mapMilkRecords(rows); len(records) > 0 {
			return records
		}
	}
	s.fallback("milk", fallbackMock, err)
	return MockMilkRecords(s.now())
}

// FetchHealthRecords returns the HealthRecords tab, or the mock checkups.
func (s *Service) FetchHealthRecords(ctx context.Context) []models.HealthRecord {
	rows, err := s.reader.ReadTab(ctx, repo.TabHealthRecords)
	if err == nil {
		if records := mapHealthRecords(rows); len(records) > 0 {
			return records
		}
	}
	s.fallback("health", fallbackMock, err)
	return MockHealthRecords(s.now())
}

// FetchTreatments returns the Treatments tab, or the mock treatments.
func (s *Service) FetchTreatments(ctx context.Context) []models.TreatmentRecord {
	rows, err := s.reader.ReadTab(ctx, repo.TabTreatments)
	if err == nil {
		if records := mapTreatments(rows); len(records) > 0 {
			return records
		}
	}
	s.fallback("treatments", fallbackMock, err)
	return MockTreatments(s.now())
}

// FetchUsers lists accounts through the remote script. Users live behind the
// script only; any failure yields an empty list.
func (s *Service) FetchUsers(ctx context.Context) []models.User {
	if s.gateway == nil {
		return []models.User{}
	}

	env, err := s.gateway.Call(ctx, appscript.ActionGetUsers, nil)
	if err != nil {
		s.fallback("users", fallbackEmpty, err)
		return []models.User{}
	}
	if !env.Success || !env.Has("users") {
		s.logger.Warn("remote user list refused", zap.String("message", env.Message))
		s.metrics.ObserveFallback("users", fallbackEmpty)
		return []models.User{}
	}

	var users []models.User
	if err := env.Decode("users", &users); err != nil {
		s.fallback("users", fallbackEmpty, err)
		return []models.User{}
	}
	return users
}

func (s *Service) fallback(entity, kind string, err error) {
	fields := []zap.Field{zap.String("entity", entity), zap.String("fallback", kind)}
	if err != nil {
		fields = append(fields, zap.Error(err))
		s.logger.Warn("fetch failed, serving fallback", fields...)
	} else {
		s.logger.Warn("tab empty, serving fallback", fields...)
	}
	s.metrics.ObserveFallback(entity, kind)
}

// dataRows drops the header row and rows without a key in the first column.
func dataRows(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	out := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		out = append(out, row)
	}
	return out
}

func mapOwners(rows [][]string) []models.Owner {
	var owners []models.Owner
	for _, row := range dataRows(rows) {
		owners = append(owners, models.Owner{
			OwnerID:   col(row, 0),
			OwnerName: col(row, 1),
			Phone:     col(row, 2),
			Address:   col(row, 3),
			Email:     col(row, 4),
		})
	}
	return owners
}

func mapCattle(rows [][]string) []models.Cattle {
	cattle := []models.Cattle{}
	for _, row := range dataRows(rows) {
		status := models.HealthStatus(col(row, 5))
		if status == "" {
			status = models.HealthHealthy
		}
		cattle = append(cattle, models.Cattle{
			RFID:           col(row, 0),
			CattleName:     col(row, 1),
			Breed:          col(row, 2),
			Age:            parseIntLenient(col(row, 3)),
			Weight:         parseIntLenient(col(row, 4)),
			HealthStatus:   status,
			OwnerID:        col(row, 6),
			Location:       col(row, 7),
			ActivityStatus: col(row, 8),
		})
	}
	return cattle
}

func mapLogs(rows [][]string) []models.RFIDLog {
	var logs []models.RFIDLog
	for _, row := range dataRows(rows) {
		logs = append(logs, models.RFIDLog{
			Timestamp:  col(row, 0),
			Location:   col(row, 1),
			RFID:       col(row, 2),
			CattleName: col(row, 3),
			Breed:      col(row, 4),
			OwnerName:  col(row, 5),
		})
	}
	return logs
}

func mapMilkRecords(rows [][]string) []models.MilkRecord {
	var records []models.MilkRecord
	for _, row := range dataRows(rows) {
		records = append(records, models.MilkRecord{
			ID:          col(row, 0),
			Timestamp:   col(row, 1),
			RFID:        col(row, 2),
			CattleName:  col(row, 3),
			Quantity:    parseFloatLenient(col(row, 4)),
			Quality:     models.MilkQuality(col(row, 5)),
			Temperature: parseFloatLenient(col(row, 6)),
			Session:     models.MilkSession(col(row, 7)),
			RecordedBy:  col(row, 8),
		})
	}
	return records
}

func mapHealthRecords(rows [][]string) []models.HealthRecord {
	var records []models.HealthRecord
	for _, row := range dataRows(rows) {
		records = append(records, models.HealthRecord{
			ID:                 col(row, 0),
			Timestamp:          col(row, 1),
			RFID:               col(row, 2),
			CattleName:         col(row, 3),
			Temperature:        parseFloatLenient(col(row, 4)),
			HeartRate:          parseIntLenient(col(row, 5)),
			RespiratoryRate:    optionalInt(col(row, 6)),
			BodyConditionScore: optionalInt(col(row, 7)),
			HealthStatus:       models.HealthStatus(col(row, 8)),
			RiskLevel:          models.RiskLevel(col(row, 9)),
			Symptoms:           col(row, 10),
			Diagnosis:          col(row, 11),
			Treatment:          col(row, 12),
			Notes:              col(row, 13),
			RecordedBy:         col(row, 14),
		})
	}
	return records
}

func mapTreatments(rows [][]string) []models.TreatmentRecord {
	var records []models.TreatmentRecord
	for _, row := range dataRows(rows) {
		records = append(records, models.TreatmentRecord{
			ID:             col(row, 0),
			Timestamp:      col(row, 1),
			RFID:           col(row, 2),
			CattleName:     col(row, 3),
			Medication:     col(row, 4),
			Dosage:         col(row, 5),
			Duration:       col(row, 6),
			AdministeredBy: col(row, 7),
			FollowUpDate:   col(row, 8),
			Notes:          col(row, 9),
		})
	}
	return records
}
