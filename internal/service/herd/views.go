package herd

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/cattlehealth/internal/domain/models"
)

const (
	dashboardCattleLimit = 9
	dashboardLogLimit    = 10
	resumeHealthLimit    = 5
	activeTreatmentDays  = 30
)

// ErrCattleNotFound is returned when no animal carries the requested rfid.
var ErrCattleNotFound = errors.New("cattle not found")

// CattleFor returns the animals visible to the session: a farmer sees their
// own herd, every other role sees all of it.
func (s *Service) CattleFor(ctx context.Context, session models.Session) []models.Cattle {
	if session.Unlinked() {
		return []models.Cattle{}
	}
	if session.IsFarmer() {
		return s.GetCattleByOwner(ctx, session.OwnerID)
	}
	return s.records.FetchCattleDatabase(ctx)
}

// LogsFor returns the reader events visible to the session.
func (s *Service) LogsFor(ctx context.Context, session models.Session) []models.RFIDLog {
	if session.Unlinked() {
		return []models.RFIDLog{}
	}
	if session.IsFarmer() {
		return s.GetLogsByOwner(ctx, session.OwnerID)
	}
	return s.records.FetchRFIDLogs(ctx)
}

// MilkFor returns the milkings visible to the session.
func (s *Service) MilkFor(ctx context.Context, session models.Session) []models.MilkRecord {
	if session.Unlinked() {
		return []models.MilkRecord{}
	}
	if session.IsFarmer() {
		return s.GetMilkRecordsByOwner(ctx, session.OwnerID)
	}
	return s.records.FetchMilkRecords(ctx)
}

// CattleCard is an animal with its display picture.
type CattleCard struct {
	models.Cattle
	Image string `json:"image"`
}

// Dashboard is the landing page of a session.
type Dashboard struct {
	Stats      HerdStats             `json:"stats"`
	Cattle     []CattleCard          `json:"cattle"`
	RecentLogs []models.RFIDLog      `json:"recentLogs"`
	Alerts     []models.HealthRecord `json:"alerts,omitempty"`
}

// Dashboard builds the landing view. Alerts are only shown to vets and admins.
func (s *Service) Dashboard(ctx context.Context, session models.Session) Dashboard {
	cattle := s.CattleFor(ctx, session)
	logs := s.LogsFor(ctx, session)

	view := Dashboard{
		Stats:      ComputeHerdStats(cattle),
		Cattle:     make([]CattleCard, 0, dashboardCattleLimit),
		RecentLogs: head(logs, dashboardLogLimit),
	}
	for _, c := range head(cattle, dashboardCattleLimit) {
		view.Cattle = append(view.Cattle, CattleCard{Cattle: c, Image: CattleImage(c.Breed, c.RFID)})
	}
	if session.Role == models.RoleVet || session.Role == models.RoleAdmin {
		view.Alerts = s.GetHealthAlerts(ctx)
	}
	return view
}

// MilkAnalytics computes the analytics page for the session's milkings.
func (s *Service) MilkAnalytics(ctx context.Context, session models.Session) MilkAnalytics {
	return ComputeMilkAnalytics(s.MilkFor(ctx, session), s.now())
}

// CattleResume is the printable record of one animal.
type CattleResume struct {
	Cattle           CattleCard               `json:"cattle"`
	Owner            *models.Owner            `json:"owner,omitempty"`
	HealthRecords    []models.HealthRecord    `json:"healthRecords"`
	RecentHealth     []models.HealthRecord    `json:"recentHealth"`
	Treatments       []models.TreatmentRecord `json:"treatments"`
	MilkRecords      []models.MilkRecord      `json:"milkRecords"`
	TotalCheckups    int                      `json:"totalCheckups"`
	LastCheckup      string                   `json:"lastCheckup,omitempty"`
	TotalMilkLiters  float64                  `json:"totalMilkLiters"`
	LastMilking      string                   `json:"lastMilking,omitempty"`
	ActiveTreatments []models.TreatmentRecord `json:"activeTreatments"`
	QualityBreakdown []QualityCount           `json:"qualityBreakdown"`
}

// CattleResume gathers everything recorded about one animal. Last checkup and
// last milking are the first records of their tabs; treatments from the last
// 30 days are active.
func (s *Service) CattleResume(ctx context.Context, rfid string) (*CattleResume, error) {
	var animal *models.Cattle
	for _, c := range s.records.FetchCattleDatabase(ctx) {
		if c.RFID == rfid {
			animal = &c
			break
		}
	}
	if animal == nil {
		return nil, ErrCattleNotFound
	}

	resume := &CattleResume{
		Cattle:           CattleCard{Cattle: *animal, Image: CattleImage(animal.Breed, animal.RFID)},
		HealthRecords:    []models.HealthRecord{},
		Treatments:       []models.TreatmentRecord{},
		MilkRecords:      []models.MilkRecord{},
		ActiveTreatments: []models.TreatmentRecord{},
	}

	if animal.OwnerID != "" {
		for _, o := range s.records.FetchOwners(ctx) {
			if o.OwnerID == animal.OwnerID {
				resume.Owner = &o
				break
			}
		}
	}

	for _, h := range s.records.FetchHealthRecords(ctx) {
		if h.RFID == rfid {
			resume.HealthRecords = append(resume.HealthRecords, h)
		}
	}
	for _, t := range s.records.FetchTreatments(ctx) {
		if t.RFID == rfid {
			resume.Treatments = append(resume.Treatments, t)
		}
	}
	for _, m := range s.records.FetchMilkRecords(ctx) {
		if m.RFID == rfid {
			resume.MilkRecords = append(resume.MilkRecords, m)
			resume.TotalMilkLiters += m.Quantity
		}
	}

	resume.TotalCheckups = len(resume.HealthRecords)
	resume.RecentHealth = head(resume.HealthRecords, resumeHealthLimit)
	if len(resume.HealthRecords) > 0 {
		resume.LastCheckup = resume.HealthRecords[0].Timestamp
	}
	if len(resume.MilkRecords) > 0 {
		resume.LastMilking = resume.MilkRecords[0].Timestamp
	}
	resume.ActiveTreatments = activeTreatments(resume.Treatments, s.now())
	resume.QualityBreakdown = MilkQualityDistribution(resume.MilkRecords)

	return resume, nil
}

func activeTreatments(treatments []models.TreatmentRecord, now time.Time) []models.TreatmentRecord {
	cutoff := now.AddDate(0, 0, -activeTreatmentDays)
	out := []models.TreatmentRecord{}
	for _, t := range treatments {
		ts, ok := parseTimestamp(t.Timestamp)
		if ok && !ts.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out
}

// Overview holds the admin counters.
type Overview struct {
	TotalCattle        int `json:"totalCattle"`
	TotalOwners        int `json:"totalOwners"`
	TotalUsers         int `json:"totalUsers"`
	TotalMilkRecords   int `json:"totalMilkRecords"`
	TotalHealthRecords int `json:"totalHealthRecords"`
	TotalTreatments    int `json:"totalTreatments"`
}

// AdminOverview counts every collection. The fetches run concurrently; they
// never fail, so the group only bounds them by ctx.
func (s *Service) AdminOverview(ctx context.Context) (Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { out.TotalCattle = len(s.records.FetchCattleDatabase(gctx)); return nil })
	g.Go(func() error { out.TotalOwners = len(s.records.FetchOwners(gctx)); return nil })
	g.Go(func() error { out.TotalUsers = len(s.records.FetchUsers(gctx)); return nil })
	g.Go(func() error { out.TotalMilkRecords = len(s.records.FetchMilkRecords(gctx)); return nil })
	g.Go(func() error { out.TotalHealthRecords = len(s.records.FetchHealthRecords(gctx)); return nil })
	g.Go(func() error { out.TotalTreatments = len(s.records.FetchTreatments(gctx)); return nil })

	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	if err := ctx.Err(); err != nil {
		return Overview{}, err
	}
	return out, nil
}

// DailyReport builds the herd digest for now's calendar day.
func (s *Service) DailyReport(ctx context.Context) models.DailyHerdReport {
	now := s.now()
	cattle := s.records.FetchCattleDatabase(ctx)
	milk := s.records.FetchMilkRecords(ctx)
	stats := ComputeHerdStats(cattle)

	return models.DailyHerdReport{
		Date:            time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		TotalCattle:     stats.Total,
		HealthyCattle:   stats.Healthy,
		NeedsCare:       stats.NeedsCare,
		MilkLiters:      MilkTodayTotal(milk, now),
		MilkQuality:     MilkAverageQuality(milk),
		Alerts:          s.GetHealthAlerts(ctx),
		ActiveTreatment: len(activeTreatments(s.records.FetchTreatments(ctx), now)),
		CreatedAt:       now.UTC(),
	}
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
