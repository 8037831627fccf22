// Package herd derives the views the dashboards consume from the raw record
// collections: owner-scoped lists, alerts, id generation, analytics and the
// per-animal resume.
package herd

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/cattlehealth/internal/domain/models"
	"github.com/mamadbah2/cattlehealth/internal/service/records"
)

const (
	// OwnerIDPrefix prefixes generated owner ids.
	OwnerIDPrefix = "OWN"
	// UserIDPrefix prefixes generated user ids.
	UserIDPrefix = "USER"
)

// Records is the read side the views are computed from.
type Records interface {
	FetchOwners(ctx context.Context) []models.Owner
	FetchCattleDatabase(ctx context.Context) []models.Cattle
	FetchRFIDLogs(ctx context.Context) []models.RFIDLog
	FetchMilkRecords(ctx context.Context) []models.MilkRecord
	FetchHealthRecords(ctx context.Context) []models.HealthRecord
	FetchTreatments(ctx context.Context) []models.TreatmentRecord
	FetchUsers(ctx context.Context) []models.User
}

// Service computes derived views over Records.
type Service struct {
	records Records
	logger  *zap.Logger
	now     func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the clock used for "today" and the treatment window.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService wires a herd service.
func NewService(source Records, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{records: source, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Records exposes the underlying collections.
func (s *Service) Records() Records {
	return s.records
}

// GetCattleByOwner returns the animals whose ownerId equals ownerID, in source order.
func (s *Service) GetCattleByOwner(ctx context.Context, ownerID string) []models.Cattle {
	return FilterCattleByOwner(s.records.FetchCattleDatabase(ctx), ownerID)
}

// GetLogsByOwner returns reader events of the owner's current animals.
// Events of animals no longer in the owner's herd are excluded.
func (s *Service) GetLogsByOwner(ctx context.Context, ownerID string) []models.RFIDLog {
	rfids := rfidSet(s.GetCattleByOwner(ctx, ownerID))
	out := []models.RFIDLog{}
	for _, log := range s.records.FetchRFIDLogs(ctx) {
		if _, ok := rfids[log.RFID]; ok {
			out = append(out, log)
		}
	}
	return out
}

// GetMilkRecordsByOwner returns milkings of the owner's current animals.
func (s *Service) GetMilkRecordsByOwner(ctx context.Context, ownerID string) []models.MilkRecord {
	rfids := rfidSet(s.GetCattleByOwner(ctx, ownerID))
	return filterMilk(s.records.FetchMilkRecords(ctx), rfids)
}

// GetHealthAlerts returns every checkup flagged by HealthAlerts.
func (s *Service) GetHealthAlerts(ctx context.Context) []models.HealthRecord {
	return HealthAlerts(s.records.FetchHealthRecords(ctx))
}

// GenerateOwnerID returns the next OWN### id. Concurrent callers may receive
// the same id: nothing reserves it before the write lands.
func (s *Service) GenerateOwnerID(ctx context.Context) string {
	owners := s.records.FetchOwners(ctx)
	ids := make([]string, 0, len(owners))
	for _, owner := range owners {
		ids = append(ids, owner.OwnerID)
	}
	return NextID(ids, OwnerIDPrefix)
}

// GenerateUserID returns the next USER### id, with the same race as GenerateOwnerID.
func (s *Service) GenerateUserID(ctx context.Context) string {
	users := s.records.FetchUsers(ctx)
	ids := make([]string, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.UserID)
	}
	return NextID(ids, UserIDPrefix)
}

// FilterCattleByOwner keeps the animals of ownerID in source order.
func FilterCattleByOwner(cattle []models.Cattle, ownerID string) []models.Cattle {
	out := []models.Cattle{}
	for _, c := range cattle {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out
}

// HealthAlerts keeps checkups with a High or Critical risk, or a Sick or
// Critical status.
func HealthAlerts(records []models.HealthRecord) []models.HealthRecord {
	out := []models.HealthRecord{}
	for _, r := range records {
		if isAlert(r) {
			out = append(out, r)
		}
	}
	return out
}

func isAlert(r models.HealthRecord) bool {
	highRisk := r.RiskLevel == models.RiskHigh || r.RiskLevel == models.RiskCritical
	unwell := r.HealthStatus == models.HealthSick || r.HealthStatus == models.HealthCritical
	return highRisk || unwell
}

// NextID computes max(sequence)+1 over ids and formats it as prefix###.
func NextID(ids []string, prefix string) string {
	highest := 0
	for _, id := range ids {
		if n := records.ParseSequence(id, prefix); n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, highest+1)
}

func rfidSet(cattle []models.Cattle) map[string]struct{} {
	set := make(map[string]struct{}, len(cattle))
	for _, c := range cattle {
		set[c.RFID] = struct{}{}
	}
	return set
}

func filterMilk(milk []models.MilkRecord, rfids map[string]struct{}) []models.MilkRecord {
	out := []models.MilkRecord{}
	for _, m := range milk {
		if _, ok := rfids[m.RFID]; ok {
			out = append(out, m)
		}
	}
	return out
}
