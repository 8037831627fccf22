package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/cattlehealth/internal/config"
	"github.com/mamadbah2/cattlehealth/internal/domain/models"
	"github.com/mamadbah2/cattlehealth/internal/server/handlers"
	"github.com/mamadbah2/cattlehealth/internal/server/router"
	"github.com/mamadbah2/cattlehealth/internal/service/commands"
	"github.com/mamadbah2/cattlehealth/internal/service/herd"
	"github.com/mamadbah2/cattlehealth/pkg/auth"
)

type fakeRecords struct{}

func (fakeRecords) FetchOwners(context.Context) []models.Owner {
	return []models.Owner{{OwnerID: "OWN001", OwnerName: "Rajesh Kumar"}}
}

func (fakeRecords) FetchCattleDatabase(context.Context) []models.Cattle {
	return []models.Cattle{
		{RFID: "R1", CattleName: "Bella", Breed: "Jersey", OwnerID: "OWN001", HealthStatus: models.HealthHealthy},
		{RFID: "R2", CattleName: "Daisy", Breed: "Gir", OwnerID: "OWN002", HealthStatus: models.HealthSick},
	}
}

func (fakeRecords) FetchRFIDLogs(context.Context) []models.RFIDLog {
	return []models.RFIDLog{{RFID: "R1", Location: "Entry"}, {RFID: "R2", Location: "Exit"}}
}

func (fakeRecords) FetchMilkRecords(context.Context) []models.MilkRecord {
	return []models.MilkRecord{
		{ID: "M1", RFID: "R1", CattleName: "Bella", Quantity: 20, Quality: models.QualityGood},
		{ID: "M2", RFID: "R2", CattleName: "Daisy", Quantity: 15, Quality: models.QualityFair},
	}
}

func (fakeRecords) FetchHealthRecords(context.Context) []models.HealthRecord {
	return []models.HealthRecord{{ID: "H1", RFID: "R2", HealthStatus: models.HealthSick, RiskLevel: models.RiskHigh}}
}

func (fakeRecords) FetchTreatments(context.Context) []models.TreatmentRecord {
	return nil
}

func (fakeRecords) FetchUsers(context.Context) []models.User {
	return []models.User{{UserID: "USER001", Username: "admin", Password: "hash", UserRole: models.RoleAdmin}}
}

type fakeDispatcher struct {
	commands.Dispatcher
	loginErr   error
	writeErr   error
	lastCattle models.Cattle
	lastMilk   models.MilkRecord
	registered []models.NewUser
}

func (f *fakeDispatcher) Login(_ context.Context, username, _ string) (*models.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.Session{UserID: "USER002", Role: models.RoleFarmer, OwnerID: "OWN001"}, nil
}

func (f *fakeDispatcher) AddCattle(_ context.Context, cattle models.Cattle) (*models.CommandResult, error) {
	f.lastCattle = cattle
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return &models.CommandResult{Success: true, Message: "Cattle added"}, nil
}

func (f *fakeDispatcher) DeleteCattle(context.Context, string) (*models.CommandResult, error) {
	return &models.CommandResult{Success: true, Message: "Cattle deleted"}, nil
}

func (f *fakeDispatcher) AddMilkRecord(_ context.Context, record models.MilkRecord) (*models.CommandResult, error) {
	f.lastMilk = record
	return &models.CommandResult{Success: false, Message: "Cattle not registered"}, nil
}

func (f *fakeDispatcher) RegisterUser(_ context.Context, user models.NewUser) *models.CommandResult {
	f.registered = append(f.registered, user)
	return &models.CommandResult{Success: true, Message: "Registered", UserID: "USER005"}
}

func (f *fakeDispatcher) AddOwnerWithID(context.Context, models.Owner) *models.CommandResult {
	return &models.CommandResult{Success: true, OwnerID: "OWN002"}
}

type testServer struct {
	engine     http.Handler
	dispatcher *fakeDispatcher
	tokens     *auth.TokenService
}

func newTestServer(t *testing.T, opts ...handlers.Option) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenService(config.AuthConfig{JWTSecret: "secret", TokenTTL: time.Hour, TokenIssuer: "cattlehealth"})
	dispatcher := &fakeDispatcher{}
	views := herd.NewService(fakeRecords{}, nil)
	h := handlers.New(views, dispatcher, tokens, nil, opts...)

	return &testServer{
		engine:     router.New(h, router.Options{Tokens: tokens}),
		dispatcher: dispatcher,
		tokens:     tokens,
	}
}

func (s *testServer) do(t *testing.T, method, path string, session *models.Session, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if session != nil {
		token, err := s.tokens.Issue(*session)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

var (
	farmer   = &models.Session{UserID: "USER002", Role: models.RoleFarmer, OwnerID: "OWN001"}
	unlinked = &models.Session{UserID: "USER006", Role: models.RoleFarmer}
	vet    = &models.Session{UserID: "USER003", Role: models.RoleVet}
	admin  = &models.Session{UserID: "USER001", Role: models.RoleAdmin}
)

func TestLogin(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/auth/login", nil, map[string]string{"username": "rajesh", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool           `json:"success"`
		User    models.Session `json:"user"`
		Token   auth.Token     `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "OWN001", body.User.OwnerID)

	session, err := srv.tokens.Validate(body.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, *farmer, *session)
}

func TestLogin_Failures(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodPost, "/api/auth/login", nil, map[string]string{"username": "x"}).Code)

	srv.dispatcher.loginErr = commands.ErrInvalidCredentials
	assert.Equal(t, http.StatusUnauthorized, srv.do(t, http.MethodPost, "/api/auth/login", nil, map[string]string{"username": "x", "password": "y"}).Code)

	srv.dispatcher.loginErr = errors.New("dial tcp: timeout")
	assert.Equal(t, http.StatusBadGateway, srv.do(t, http.MethodPost, "/api/auth/login", nil, map[string]string{"username": "x", "password": "y"}).Code)
}

func TestRegister_RejectsAdmin(t *testing.T) {
	srv := newTestServer(t)
	user := models.NewUser{Username: "u", Password: "p", FullName: "U", UserRole: models.RoleAdmin}

	assert.Equal(t, http.StatusForbidden, srv.do(t, http.MethodPost, "/api/auth/register", nil, user).Code)

	user.UserRole = models.RoleFarmer
	w := srv.do(t, http.MethodPost, "/api/auth/register", nil, user)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, srv.dispatcher.registered, 1)
}

func TestListCattle_ScopedToFarmer(t *testing.T) {
	srv := newTestServer(t)

	var cattle []models.Cattle
	w := srv.do(t, http.MethodGet, "/api/cattle", farmer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cattle))
	require.Len(t, cattle, 1)
	assert.Equal(t, "R1", cattle[0].RFID)

	w = srv.do(t, http.MethodGet, "/api/cattle", vet, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cattle))
	assert.Len(t, cattle, 2)

	assert.Equal(t, http.StatusUnauthorized, srv.do(t, http.MethodGet, "/api/cattle", nil, nil).Code)
}

func TestCattleResume(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/cattle/R1/resume", farmer, nil).Code)
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/api/cattle/R2/resume", farmer, nil).Code)
	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/cattle/R2/resume", vet, nil).Code)
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/api/cattle/R9/resume", admin, nil).Code)
}

func TestAddCattle(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/cattle", farmer, models.Cattle{RFID: "R5", CattleName: "Gauri", OwnerID: "OWN002"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OWN001", srv.dispatcher.lastCattle.OwnerID)
	assert.Equal(t, models.HealthHealthy, srv.dispatcher.lastCattle.HealthStatus)

	srv.dispatcher.writeErr = errors.New("api call failed")
	assert.Equal(t, http.StatusBadGateway, srv.do(t, http.MethodPost, "/api/cattle", admin, models.Cattle{RFID: "R6"}).Code)

	srv.dispatcher.writeErr = commands.ErrInvalidArguments
	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodPost, "/api/cattle", admin, models.Cattle{}).Code)

	assert.Equal(t, http.StatusForbidden, srv.do(t, http.MethodPost, "/api/cattle", vet, models.Cattle{RFID: "R7"}).Code)
}

func TestDeleteCattle_FarmerOwnsOnly(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodDelete, "/api/cattle/R2", farmer, nil).Code)
	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodDelete, "/api/cattle/R1", farmer, nil).Code)
}

func TestCattleWrites_UnlinkedFarmerForbidden(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusForbidden, srv.do(t, http.MethodDelete, "/api/cattle/R2", unlinked, nil).Code)

	name := "Renamed"
	w := srv.do(t, http.MethodPatch, "/api/cattle/R2", unlinked, models.CattleUpdate{CattleName: &name})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = srv.do(t, http.MethodPost, "/api/cattle", unlinked, models.Cattle{RFID: "R5", OwnerID: "OWN002"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, srv.dispatcher.lastCattle.RFID)

	w = srv.do(t, http.MethodPost, "/api/milk", unlinked, models.MilkRecord{RFID: "R2", Quantity: 5})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, srv.dispatcher.lastMilk.RFID)
}

func TestReads_UnlinkedFarmerSeesNothing(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/cattle", unlinked, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/api/cattle/R1/resume", unlinked, nil).Code)
}

func TestAddMilkRecord_FarmerOwnsOnly(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/milk", farmer, models.MilkRecord{RFID: "R2", Quantity: 9})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, srv.dispatcher.lastMilk.RFID)

	w = srv.do(t, http.MethodPost, "/api/milk", admin, models.MilkRecord{RFID: "R2", Quantity: 9})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "R2", srv.dispatcher.lastMilk.RFID)
}

func TestAddMilkRecord_RefusalIsOK(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/milk", farmer, models.MilkRecord{RFID: "R1", Quantity: 12})

	require.Equal(t, http.StatusOK, w.Code)
	var result models.CommandResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, "Cattle not registered", result.Message)
	assert.Equal(t, "OWN001", srv.dispatcher.lastMilk.RecordedBy)
}

func TestAdminRoutes(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusForbidden, srv.do(t, http.MethodGet, "/api/admin/overview", vet, nil).Code)

	w := srv.do(t, http.MethodGet, "/api/admin/overview", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var overview herd.Overview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
	assert.Equal(t, 2, overview.TotalCattle)
	assert.Equal(t, 1, overview.TotalUsers)

	w = srv.do(t, http.MethodGet, "/api/admin/users", admin, nil)
	assert.NotContains(t, w.Body.String(), "hash")

	w = srv.do(t, http.MethodPost, "/api/admin/owners", admin, models.Owner{OwnerName: "Priya"})
	assert.Contains(t, w.Body.String(), `"ownerId":"OWN002"`)
}

func TestExport(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/export/milk", farmer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv;charset=utf-8;", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "milk_records_")
	assert.Equal(t, "id,timestamp,rfid,cattleName,quantity,quality,temperature,session,recordedBy\nM1,,R1,Bella,20,Good,0,,", w.Body.String())

	w = srv.do(t, http.MethodGet, "/api/export/cattle?format=xlsx", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.Bytes())

	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/api/export/treatments", admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/api/export/secrets", admin, nil).Code)
	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodGet, "/api/export/owners?format=pdf", admin, nil).Code)
}

func TestDashboardAndAlerts(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/dashboard", vet, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash herd.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
	assert.Equal(t, 2, dash.Stats.Total)
	assert.Len(t, dash.Alerts, 1)

	w = srv.do(t, http.MethodGet, "/api/health/alerts", farmer, nil)
	assert.Contains(t, w.Body.String(), `"H1"`)
}
