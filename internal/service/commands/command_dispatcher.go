// Package commands implements the write side of the spreadsheet database.
// Every operation is one or more actions of the remote script. Base writes
// return transport failures as errors; the admin helpers answer them with a
// failed CommandResult instead, so callers branch on Success only.
package commands

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/cattlehealth/internal/domain/models"
	"github.com/mamadbah2/cattlehealth/pkg/clients/appscript"
)

// ErrInvalidCredentials is returned by Login when the script refuses the pair.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrInvalidArguments indicates a write is missing its key.
var ErrInvalidArguments = errors.New("invalid command arguments")

const (
	msgAddRFIDCattleFailed  = "Failed to add RFID cattle"
	msgAddOwnerFailed       = "Failed to add owner"
	msgAddUserFailed        = "Failed to add user"
	msgUpdateUserFailed     = "Failed to update user"
	msgDeactivateUserFailed = "Failed to deactivate user"
)

// IDGenerator allocates sequential ids from the current collections.
type IDGenerator interface {
	GenerateOwnerID(ctx context.Context) string
	GenerateUserID(ctx context.Context) string
}

// Dispatcher lists the write operations.
type Dispatcher interface {
	AddOwner(ctx context.Context, owner models.Owner) (*models.CommandResult, error)
	AddCattle(ctx context.Context, cattle models.Cattle) (*models.CommandResult, error)
	UpdateCattle(ctx context.Context, rfid string, update models.CattleUpdate) (*models.CommandResult, error)
	DeleteCattle(ctx context.Context, rfid string) (*models.CommandResult, error)
	AddMilkRecord(ctx context.Context, record models.MilkRecord) (*models.CommandResult, error)
	AddHealthRecord(ctx context.Context, record models.HealthRecord) (*models.CommandResult, error)
	AddTreatment(ctx context.Context, record models.TreatmentRecord) (*models.CommandResult, error)
	AddRFIDCattle(ctx context.Context, cattle models.Cattle) *models.CommandResult
	AddOwnerWithID(ctx context.Context, owner models.Owner) *models.CommandResult
	AddUser(ctx context.Context, user models.NewUser) *models.CommandResult
	RegisterUser(ctx context.Context, user models.NewUser) *models.CommandResult
	UpdateUser(ctx context.Context, userID string, update models.UserUpdate) *models.CommandResult
	DeactivateUser(ctx context.Context, userID string) *models.CommandResult
	Login(ctx context.Context, username, password string) (*models.Session, error)
}

// Service implements Dispatcher over the remote script.
type Service struct {
	gateway appscript.Client
	ids     IDGenerator
	logger  *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(gateway appscript.Client, ids IDGenerator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		gateway: gateway,
		ids:     ids,
		logger:  logger,
	}
}

// AddOwner appends an owner with a caller supplied id.
func (s *Service) AddOwner(ctx context.Context, owner models.Owner) (*models.CommandResult, error) {
	return s.dispatch(ctx, appscript.ActionAddOwner, ownerParams(owner))
}

// AddCattle appends an animal.
func (s *Service) AddCattle(ctx context.Context, cattle models.Cattle) (*models.CommandResult, error) {
	if cattle.RFID == "" {
		return nil, fmt.Errorf("%w: rfid is required", ErrInvalidArguments)
	}
	return s.dispatch(ctx, appscript.ActionAddCattle, cattleParams(cattle))
}

// UpdateCattle sends the rfid and only the fields set in update.
func (s *Service) UpdateCattle(ctx context.Context, rfid string, update models.CattleUpdate) (*models.CommandResult, error) {
	if rfid == "" {
		return nil, fmt.Errorf("%w: rfid is required", ErrInvalidArguments)
	}
	params := appscript.Params{"rfid": rfid}
	setString(params, "cattleName", update.CattleName)
	setString(params, "breed", update.Breed)
	setInt(params, "age", update.Age)
	setInt(params, "weight", update.Weight)
	if update.HealthStatus != nil {
		params["healthStatus"] = string(*update.HealthStatus)
	}
	setString(params, "ownerId", update.OwnerID)
	setString(params, "location", update.Location)
	setString(params, "activityStatus", update.ActivityStatus)
	return s.dispatch(ctx, appscript.ActionUpdateCattle, params)
}

// DeleteCattle removes an animal's row.
func (s *Service) DeleteCattle(ctx context.Context, rfid string) (*models.CommandResult, error) {
	if rfid == "" {
		return nil, fmt.Errorf("%w: rfid is required", ErrInvalidArguments)
	}
	return s.dispatch(ctx, appscript.ActionDeleteCattle, appscript.Params{"rfid": rfid})
}

// AddMilkRecord appends a milking. The id and timestamp are assigned by the script.
func (s *Service) AddMilkRecord(ctx context.Context, record models.MilkRecord) (*models.CommandResult, error) {
	return s.dispatch(ctx, appscript.ActionAddMilkRecord, appscript.Params{
		"rfid":        record.RFID,
		"cattleName":  record.CattleName,
		"quantity":    record.Quantity,
		"quality":     string(record.Quality),
		"temperature": record.Temperature,
		"session":     string(record.Session),
		"recordedBy":  record.RecordedBy,
	})
}

// AddHealthRecord appends a checkup. Unrecorded optional vitals are sent empty.
func (s *Service) AddHealthRecord(ctx context.Context, record models.HealthRecord) (*models.CommandResult, error) {
	return s.dispatch(ctx, appscript.ActionAddHealthRecord, appscript.Params{
		"rfid":               record.RFID,
		"cattleName":         record.CattleName,
		"temperature":        record.Temperature,
		"heartRate":          record.HeartRate,
		"respiratoryRate":    record.RespiratoryRate,
		"bodyConditionScore": record.BodyConditionScore,
		"healthStatus":       string(record.HealthStatus),
		"riskLevel":          string(record.RiskLevel),
		"symptoms":           record.Symptoms,
		"diagnosis":          record.Diagnosis,
		"treatment":          record.Treatment,
		"notes":              record.Notes,
		"recordedBy":         record.RecordedBy,
	})
}

// AddTreatment appends a medication course.
func (s *Service) AddTreatment(ctx context.Context, record models.TreatmentRecord) (*models.CommandResult, error) {
	return s.dispatch(ctx, appscript.ActionAddTreatment, appscript.Params{
		"rfid":           record.RFID,
		"cattleName":     record.CattleName,
		"medication":     record.Medication,
		"dosage":         record.Dosage,
		"duration":       record.Duration,
		"administeredBy": record.AdministeredBy,
		"followUpDate":   record.FollowUpDate,
		"notes":          record.Notes,
	})
}

// AddRFIDCattle registers a freshly tagged animal in the master database,
// unassigned to any owner.
func (s *Service) AddRFIDCattle(ctx context.Context, cattle models.Cattle) *models.CommandResult {
	cattle.OwnerID = ""
	result, err := s.dispatch(ctx, appscript.ActionAddCattle, cattleParams(cattle))
	if err != nil {
		s.logger.Error("add rfid cattle failed", zap.String("rfid", cattle.RFID), zap.Error(err))
		return failed(msgAddRFIDCattleFailed)
	}
	return result
}

// AddOwnerWithID allocates the next owner id and appends the owner. The result
// carries the allocated id whatever the script answered.
func (s *Service) AddOwnerWithID(ctx context.Context, owner models.Owner) *models.CommandResult {
	owner.OwnerID = s.ids.GenerateOwnerID(ctx)
	result, err := s.dispatch(ctx, appscript.ActionAddOwner, ownerParams(owner))
	if err != nil {
		s.logger.Error("add owner failed", zap.String("owner_id", owner.OwnerID), zap.Error(err))
		return failed(msgAddOwnerFailed)
	}
	result.OwnerID = owner.OwnerID
	return result
}

// AddUser allocates the next user id and registers the account. A farmer
// without an owner id first gets an owner created from their profile; if that
// fails the account is registered unlinked. The two calls are independent.
func (s *Service) AddUser(ctx context.Context, user models.NewUser) *models.CommandResult {
	userID := s.ids.GenerateUserID(ctx)
	ownerID := user.OwnerID

	if user.UserRole == models.RoleFarmer && ownerID == "" {
		owner := s.AddOwnerWithID(ctx, models.Owner{
			OwnerName: user.FullName,
			Phone:     user.Phone,
			Email:     user.Email,
		})
		if owner.Success && owner.OwnerID != "" {
			ownerID = owner.OwnerID
		} else {
			s.logger.Warn("owner provisioning failed, registering unlinked farmer",
				zap.String("user_id", userID),
				zap.String("message", owner.Message))
		}
	}

	result, err := s.dispatch(ctx, appscript.ActionRegister, appscript.Params{
		"userId":   userID,
		"username": user.Username,
		"password": user.Password,
		"fullName": user.FullName,
		"email":    user.Email,
		"phone":    user.Phone,
		"userRole": string(user.UserRole),
		"ownerId":  ownerID,
	})
	if err != nil {
		s.logger.Error("add user failed", zap.String("user_id", userID), zap.Error(err))
		return failed(msgAddUserFailed)
	}
	result.UserID = userID
	result.OwnerID = ownerID
	return result
}

// RegisterUser is the public sign-up path.
func (s *Service) RegisterUser(ctx context.Context, user models.NewUser) *models.CommandResult {
	return s.AddUser(ctx, user)
}

// UpdateUser sends the user id and only the fields set in update.
func (s *Service) UpdateUser(ctx context.Context, userID string, update models.UserUpdate) *models.CommandResult {
	params := appscript.Params{"userId": userID}
	setString(params, "username", update.Username)
	setString(params, "password", update.Password)
	setString(params, "fullName", update.FullName)
	setString(params, "email", update.Email)
	setString(params, "phone", update.Phone)
	if update.UserRole != nil {
		params["userRole"] = string(*update.UserRole)
	}
	setString(params, "ownerId", update.OwnerID)
	if update.Status != nil {
		params["status"] = string(*update.Status)
	}

	result, err := s.dispatch(ctx, appscript.ActionUpdateUser, params)
	if err != nil {
		s.logger.Error("update user failed", zap.String("user_id", userID), zap.Error(err))
		return failed(msgUpdateUserFailed)
	}
	return result
}

// DeactivateUser marks the account inactive. Accounts are never deleted.
func (s *Service) DeactivateUser(ctx context.Context, userID string) *models.CommandResult {
	result, err := s.dispatch(ctx, appscript.ActionUpdateUser, appscript.Params{
		"userId": userID,
		"status": string(models.UserInactive),
	})
	if err != nil {
		s.logger.Error("deactivate user failed", zap.String("user_id", userID), zap.Error(err))
		return failed(msgDeactivateUserFailed)
	}
	return result
}

type loginUser struct {
	Role    models.Role `json:"role"`
	UserID  string      `json:"userId"`
	OwnerID string      `json:"ownerId"`
}

// Login checks a username and password with the script and returns the
// resulting session.
func (s *Service) Login(ctx context.Context, username, password string) (*models.Session, error) {
	env, err := s.gateway.Call(ctx, appscript.ActionLogin, appscript.Params{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !env.Success || !env.Has("user") {
		return nil, ErrInvalidCredentials
	}

	var user loginUser
	if err := env.Decode("user", &user); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &models.Session{UserID: user.UserID, Role: user.Role, OwnerID: user.OwnerID}, nil
}

func (s *Service) dispatch(ctx context.Context, action string, params appscript.Params) (*models.CommandResult, error) {
	s.logger.Debug("dispatching command", zap.String("action", action))

	env, err := s.gateway.Call(ctx, action, params)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		s.logger.Info("command refused", zap.String("action", action), zap.String("message", env.Message))
	}

	result := &models.CommandResult{Success: env.Success, Message: env.Message}
	s.decodeID(env, action, "ownerId", &result.OwnerID)
	s.decodeID(env, action, "userId", &result.UserID)
	return result, nil
}

// decodeID copies a string id from the answer. Ids of another JSON type are
// left empty and logged.
func (s *Service) decodeID(env *appscript.Envelope, action, key string, dst *string) {
	if !env.Has(key) {
		return
	}
	if err := env.Decode(key, dst); err != nil {
		s.logger.Debug("ignoring undecodable id",
			zap.String("action", action),
			zap.String("field", key),
			zap.Error(err))
	}
}

func failed(message string) *models.CommandResult {
	return &models.CommandResult{Success: false, Message: message}
}

func ownerParams(owner models.Owner) appscript.Params {
	return appscript.Params{
		"ownerId":   owner.OwnerID,
		"ownerName": owner.OwnerName,
		"phone":     owner.Phone,
		"address":   owner.Address,
		"email":     owner.Email,
	}
}

func cattleParams(cattle models.Cattle) appscript.Params {
	params := appscript.Params{
		"rfid":         cattle.RFID,
		"cattleName":   cattle.CattleName,
		"breed":        cattle.Breed,
		"age":          cattle.Age,
		"weight":       cattle.Weight,
		"healthStatus": string(cattle.HealthStatus),
		"ownerId":      cattle.OwnerID,
	}
	if cattle.Location != "" {
		params["location"] = cattle.Location
	}
	if cattle.ActivityStatus != "" {
		params["activityStatus"] = cattle.ActivityStatus
	}
	return params
}

func setString(params appscript.Params, key string, value *string) {
	if value != nil {
		params[key] = *value
	}
}

func setInt(params appscript.Params, key string, value *int) {
	if value != nil {
		params[key] = *value
	}
}
