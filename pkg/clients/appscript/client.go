// Package appscript talks to the spreadsheet's Apps Script web app, the only
// write path of the spreadsheet database. Every action is a GET carrying the
// action name and flat parameters in the query string; the answer is a JSON
// envelope {success, message, ...}.
package appscript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/cattlehealth/internal/config"
	"github.com/mamadbah2/cattlehealth/internal/metrics"
)

// Action names understood by the remote script.
const (
	ActionLogin           = "login"
	ActionGetCattle       = "getCattle"
	ActionGetUsers        = "getUsers"
	ActionAddOwner        = "addOwner"
	ActionAddCattle       = "addCattle"
	ActionUpdateCattle    = "updateCattle"
	ActionDeleteCattle    = "deleteCattle"
	ActionAddMilkRecord   = "addMilkRecord"
	ActionAddHealthRecord = "addHealthRecord"
	ActionAddTreatment    = "addTreatment"
	ActionRegister        = "register"
	ActionUpdateUser      = "updateUser"
)

var (
	// ErrUnexpectedStatus is returned for non-2xx answers.
	ErrUnexpectedStatus = errors.New("api call failed")
	// ErrMalformedEnvelope is returned when the body is not a JSON object.
	ErrMalformedEnvelope = errors.New("malformed api response")
)

// Params are the flat query parameters of an action. Values are stringified:
// strings as-is, numbers in shortest decimal form, booleans as true/false and
// nil as the empty string.
type Params map[string]any

// Client exposes the remote command endpoint.
type Client interface {
	Call(ctx context.Context, action string, params Params) (*Envelope, error)
}

// Envelope is the decoded answer of an action.
type Envelope struct {
	Success bool
	Message string
	Fields  map[string]json.RawMessage
}

// Has reports whether the answer carries a non-null field.
func (e *Envelope) Has(key string) bool {
	raw, ok := e.Fields[key]
	return ok && string(raw) != "null"
}

// Decode unmarshals an action specific field into v.
func (e *Envelope) Decode(key string, v any) error {
	raw, ok := e.Fields[key]
	if !ok {
		return fmt.Errorf("field %q missing from response", key)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode field %q: %w", key, err)
	}
	return nil
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	endpoint   string
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewClient builds a client for the configured script endpoint.
func NewClient(cfg config.AppScriptConfig, m *metrics.Metrics, logger *zap.Logger) *APIClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New().
		SetHeader("Accept", "application/json").
		SetHeader("Cache-Control", "no-cache")
	if cfg.Timeout > 0 {
		restyClient.SetTimeout(cfg.Timeout)
	}

	return &APIClient{
		httpClient: restyClient,
		endpoint:   cfg.URL,
		metrics:    m,
		logger:     logger,
	}
}

// Call runs an action. Transport failures, non-2xx statuses and undecodable
// bodies are errors; success=false is returned as a normal envelope.
func (c *APIClient) Call(ctx context.Context, action string, params Params) (env *Envelope, err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveGatewayCall(action, err, time.Since(start)) }()

	query := make(map[string]string, len(params)+1)
	for key, value := range params {
		query[key] = Stringify(value)
	}
	query["action"] = action

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", action, err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("call %s: %w: %s", action, ErrUnexpectedStatus, resp.Status())
	}

	env, err = decodeEnvelope(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", action, err)
	}

	c.logger.Debug("api call completed",
		zap.String("action", action),
		zap.Bool("success", env.Success),
		zap.String("message", env.Message))

	return env, nil
}

func decodeEnvelope(body []byte) (*Envelope, error) {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	env := &Envelope{Fields: fields}
	if raw, ok := fields["success"]; ok {
		if err := json.Unmarshal(raw, &env.Success); err != nil {
			return nil, fmt.Errorf("%w: success: %v", ErrMalformedEnvelope, err)
		}
	}
	if raw, ok := fields["message"]; ok {
		// A non-string message is tolerated and left empty.
		_ = json.Unmarshal(raw, &env.Message)
	}

	return env, nil
}

// Stringify renders a parameter value for the query string.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case *int:
		if v == nil {
			return ""
		}
		return strconv.Itoa(*v)
	case *string:
		if v == nil {
			return ""
		}
		return *v
	default:
		return fmt.Sprint(v)
	}
}
