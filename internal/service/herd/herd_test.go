package herd

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/cattlehealth/internal/domain/models"
)

type fakeRecords struct {
	owners     []models.Owner
	cattle     []models.Cattle
	logs       []models.RFIDLog
	milk       []models.MilkRecord
	health     []models.HealthRecord
	treatments []models.TreatmentRecord
	users      []models.User
	calls      atomic.Int32
}

func (f *fakeRecords) FetchOwners(context.Context) []models.Owner {
	f.calls.Add(1)
	return f.owners
}

func (f *fakeRecords) FetchCattleDatabase(context.Context) []models.Cattle {
	f.calls.Add(1)
	return f.cattle
}

func (f *fakeRecords) FetchRFIDLogs(context.Context) []models.RFIDLog {
	f.calls.Add(1)
	return f.logs
}

func (f *fakeRecords) FetchMilkRecords(context.Context) []models.MilkRecord {
	f.calls.Add(1)
	return f.milk
}

func (f *fakeRecords) FetchHealthRecords(context.Context) []models.HealthRecord {
	f.calls.Add(1)
	return f.health
}

func (f *fakeRecords) FetchTreatments(context.Context) []models.TreatmentRecord {
	f.calls.Add(1)
	return f.treatments
}

func (f *fakeRecords) FetchUsers(context.Context) []models.User {
	f.calls.Add(1)
	return f.users
}

var fixedNow = time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

func newTestService(source Records) *Service {
	return NewService(source, nil, WithClock(func() time.Time { return fixedNow }))
}

func herdFixture() *fakeRecords {
	return &fakeRecords{
		owners: []models.Owner{{OwnerID: "OWN001", OwnerName: "Rajesh Kumar"}, {OwnerID: "OWN002", OwnerName: "Priya Sharma"}},
		cattle: []models.Cattle{
			{RFID: "R1", CattleName: "Bella", Breed: "Jersey", OwnerID: "OWN001", HealthStatus: models.HealthHealthy},
			{RFID: "R2", CattleName: "Daisy", Breed: "Gir", OwnerID: "OWN002", HealthStatus: models.HealthSick},
			{RFID: "R3", CattleName: "Stray", Breed: "Unknown", OwnerID: "", HealthStatus: models.HealthUnderObservation},
			{RFID: "R4", CattleName: "Rosie", Breed: "Sahiwal", OwnerID: "OWN001", HealthStatus: models.HealthUnderTreatment},
		},
		logs: []models.RFIDLog{
			{RFID: "R4", Location: "Entry"},
			{RFID: "R2", Location: "Exit"},
			{RFID: "R1", Location: "Exit"},
			{RFID: "R9", Location: "Entry"},
		},
		milk: []models.MilkRecord{
			{ID: "M1", RFID: "R1", CattleName: "Bella", Quantity: 20, Quality: models.QualityExcellent, Session: models.SessionMorning, Timestamp: "2024-03-10T06:00:00.000Z"},
			{ID: "M2", RFID: "R2", CattleName: "Daisy", Quantity: 15, Quality: models.QualityGood, Session: models.SessionMorning, Timestamp: "2024-03-10T06:30:00.000Z"},
			{ID: "M3", RFID: "R1", CattleName: "Bella", Quantity: 18, Quality: models.QualityGood, Session: models.SessionEvening, Timestamp: "2024-03-09T18:00:00.000Z"},
			{ID: "M4", RFID: "R4", CattleName: "Rosie", Quantity: 10, Quality: models.QualityFair, Session: models.SessionEvening, Timestamp: "2024-03-04T18:00:00.000Z"},
		},
		health: []models.HealthRecord{
			{ID: "H1", RFID: "R1", RiskLevel: models.RiskLow, HealthStatus: models.HealthHealthy, Timestamp: "2024-03-09T10:00:00.000Z"},
			{ID: "H2", RFID: "R2", RiskLevel: models.RiskLow, HealthStatus: models.HealthSick},
			{ID: "H3", RFID: "R1", RiskLevel: models.RiskCritical, HealthStatus: models.HealthUnderTreatment, Timestamp: "2024-02-01T10:00:00.000Z"},
		},
		treatments: []models.TreatmentRecord{
			{ID: "T1", RFID: "R1", Medication: "Amoxicillin", Timestamp: "2024-03-01T10:00:00.000Z"},
			{ID: "T2", RFID: "R1", Medication: "Ivermectin", Timestamp: "2024-01-05T10:00:00.000Z"},
			{ID: "T3", RFID: "R1", Medication: "Oxytetracycline", Timestamp: "not a date"},
		},
		users: []models.User{{UserID: "USER001"}, {UserID: "USER009"}, {UserID: "admin"}},
	}
}

func TestGetCattleByOwner_KeepsSourceOrder(t *testing.T) {
	svc := newTestService(herdFixture())

	cattle := svc.GetCattleByOwner(context.Background(), "OWN001")

	require.Len(t, cattle, 2)
	assert.Equal(t, "R1", cattle[0].RFID)
	assert.Equal(t, "R4", cattle[1].RFID)
}

func TestGetLogsAndMilkByOwner(t *testing.T) {
	svc := newTestService(herdFixture())
	ctx := context.Background()

	logs := svc.GetLogsByOwner(ctx, "OWN001")
	require.Len(t, logs, 2)
	assert.Equal(t, "R4", logs[0].RFID)
	assert.Equal(t, "R1", logs[1].RFID)

	milk := svc.GetMilkRecordsByOwner(ctx, "OWN001")
	ids := make([]string, 0, len(milk))
	for _, m := range milk {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"M1", "M3", "M4"}, ids)

	assert.Empty(t, svc.GetLogsByOwner(ctx, "OWN404"))
}

func TestHealthAlerts(t *testing.T) {
	records := []models.HealthRecord{
		{ID: "a", RiskLevel: models.RiskLow, HealthStatus: models.HealthHealthy},
		{ID: "b", RiskLevel: models.RiskLow, HealthStatus: models.HealthSick},
	}

	alerts := HealthAlerts(records)

	require.Len(t, alerts, 1)
	assert.Equal(t, "b", alerts[0].ID)

	all := newTestService(herdFixture()).GetHealthAlerts(context.Background())
	require.Len(t, all, 2)
	assert.Equal(t, "H2", all[0].ID)
	assert.Equal(t, "H3", all[1].ID)
}

func TestNextID(t *testing.T) {
	assert.Equal(t, "OWN004", NextID([]string{"OWN001", "OWN003"}, OwnerIDPrefix))
	assert.Equal(t, "OWN001", NextID(nil, OwnerIDPrefix))
	assert.Equal(t, "OWN001", NextID([]string{"OWNX"}, OwnerIDPrefix))
	assert.Equal(t, "OWN1000", NextID([]string{"OWN999"}, OwnerIDPrefix))

	svc := newTestService(herdFixture())
	assert.Equal(t, "OWN003", svc.GenerateOwnerID(context.Background()))
	assert.Equal(t, "USER010", svc.GenerateUserID(context.Background()))
}

func TestCattleImage(t *testing.T) {
	first := CattleImage("Jersey", "E2000019060401821860959A")
	assert.Equal(t, first, CattleImage("Jersey", "E2000019060401821860959A"))
	assert.Equal(t, imageCow3, first)

	// "AB" sums to 131, which selects index 1 of the Holstein pair.
	assert.Equal(t, imageCow2, CattleImage("Holstein", "AB"))
	// 131 mod 4 selects the fourth default image.
	assert.Equal(t, imageBuffalo1, CattleImage("Unknown breed", "AB"))
	assert.Equal(t, imageCow1, CattleImage("Unknown breed", ""))
}

func TestComputeHerdStats(t *testing.T) {
	stats := ComputeHerdStats(herdFixture().cattle)

	assert.Equal(t, HerdStats{Total: 4, Healthy: 1, NeedsCare: 3}, stats)
}

func TestMilkAnalytics(t *testing.T) {
	milk := herdFixture().milk

	assert.InDelta(t, 35.0, MilkTodayTotal(milk, fixedNow), 1e-9)
	// Scores 4+3+3+2 = 12 over 4 records gives 3.0.
	assert.Equal(t, "Good", MilkAverageQuality(milk))
	assert.Equal(t, QualityNotAvailable, MilkAverageQuality(nil))
	assert.Equal(t, "Poor", MilkAverageQuality([]models.MilkRecord{{Quality: "Unknown"}}))

	trend := MilkDailyTrend(milk, fixedNow, 7)
	require.Len(t, trend, 7)
	assert.Equal(t, "2024-03-04", trend[0].Date)
	assert.InDelta(t, 10.0, trend[0].Liters, 1e-9)
	assert.Equal(t, "2024-03-10", trend[6].Date)
	assert.InDelta(t, 35.0, trend[6].Liters, 1e-9)

	assert.Equal(t, []QualityCount{
		{Quality: models.QualityExcellent, Count: 1},
		{Quality: models.QualityGood, Count: 2},
		{Quality: models.QualityFair, Count: 1},
		{Quality: models.QualityPoor, Count: 0},
	}, MilkQualityDistribution(milk))

	top := TopProducers(milk, 2)
	assert.Equal(t, []Producer{{CattleName: "Bella", Liters: 38}, {CattleName: "Daisy", Liters: 15}}, top)

	analytics := ComputeMilkAnalytics(milk, fixedNow)
	assert.InDelta(t, 63.0, analytics.TotalLiters, 1e-9)
	assert.InDelta(t, 35.0, analytics.MorningLiters, 1e-9)
	assert.InDelta(t, 28.0, analytics.EveningLiters, 1e-9)
	assert.InDelta(t, 0.75, analytics.GoodOrBetterRate, 1e-9)
}

func TestHealthDistribution(t *testing.T) {
	dist := HealthDistribution(herdFixture().health)

	assert.Equal(t, []StatusCount{
		{Status: models.HealthHealthy, Count: 1},
		{Status: models.HealthUnderObservation, Count: 0},
		{Status: models.HealthSick, Count: 1},
		{Status: models.HealthCritical, Count: 0},
	}, dist)
}

func TestDashboard_ScopesFarmer(t *testing.T) {
	svc := newTestService(herdFixture())

	farmer := svc.Dashboard(context.Background(), models.Session{Role: models.RoleFarmer, OwnerID: "OWN001"})
	assert.Equal(t, 2, farmer.Stats.Total)
	assert.Len(t, farmer.RecentLogs, 2)
	assert.Nil(t, farmer.Alerts)
	require.Len(t, farmer.Cattle, 2)
	assert.Equal(t, CattleImage("Jersey", "R1"), farmer.Cattle[0].Image)

	vet := svc.Dashboard(context.Background(), models.Session{Role: models.RoleVet})
	assert.Equal(t, 4, vet.Stats.Total)
	assert.Len(t, vet.Alerts, 2)
}

func TestSessionReads_UnlinkedFarmerHasNoHerd(t *testing.T) {
	svc := newTestService(herdFixture())
	unlinked := models.Session{UserID: "USER009", Role: models.RoleFarmer}

	assert.Empty(t, svc.CattleFor(context.Background(), unlinked))
	assert.NotNil(t, svc.CattleFor(context.Background(), unlinked))
	assert.Empty(t, svc.LogsFor(context.Background(), unlinked))
	assert.Empty(t, svc.MilkFor(context.Background(), unlinked))

	dash := svc.Dashboard(context.Background(), unlinked)
	assert.Equal(t, 0, dash.Stats.Total)
	assert.Empty(t, dash.Cattle)
}

func TestCattleResume(t *testing.T) {
	svc := newTestService(herdFixture())

	resume, err := svc.CattleResume(context.Background(), "R1")
	require.NoError(t, err)

	require.NotNil(t, resume.Owner)
	assert.Equal(t, "Rajesh Kumar", resume.Owner.OwnerName)
	assert.Equal(t, 2, resume.TotalCheckups)
	assert.Equal(t, "2024-03-09T10:00:00.000Z", resume.LastCheckup)
	assert.InDelta(t, 38.0, resume.TotalMilkLiters, 1e-9)
	assert.Equal(t, "2024-03-10T06:00:00.000Z", resume.LastMilking)
	require.Len(t, resume.ActiveTreatments, 1)
	assert.Equal(t, "T1", resume.ActiveTreatments[0].ID)
	assert.Len(t, resume.Treatments, 3)

	_, err = svc.CattleResume(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCattleNotFound)
}

func TestCattleResume_UnassignedHasNoOwner(t *testing.T) {
	resume, err := newTestService(herdFixture()).CattleResume(context.Background(), "R3")
	require.NoError(t, err)

	assert.Nil(t, resume.Owner)
	assert.Empty(t, resume.MilkRecords)
	assert.Empty(t, resume.LastMilking)
}

func TestAdminOverview(t *testing.T) {
	source := herdFixture()
	overview, err := newTestService(source).AdminOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Overview{
		TotalCattle:        4,
		TotalOwners:        2,
		TotalUsers:         3,
		TotalMilkRecords:   4,
		TotalHealthRecords: 3,
		TotalTreatments:    3,
	}, overview)
	assert.EqualValues(t, 6, source.calls.Load())
}

func TestAdminOverview_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestService(herdFixture()).AdminOverview(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDailyReport(t *testing.T) {
	report := newTestService(herdFixture()).DailyReport(context.Background())

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), report.Date)
	assert.Equal(t, 4, report.TotalCattle)
	assert.Equal(t, 3, report.NeedsCare)
	assert.InDelta(t, 35.0, report.MilkLiters, 1e-9)
	assert.Equal(t, "Good", report.MilkQuality)
	assert.Len(t, report.Alerts, 2)
	assert.Equal(t, 1, report.ActiveTreatment)
}
