// Package notify pushes herd notifications to the vet alert phone over
// WhatsApp.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/cattlehealth/internal/config"
	"github.com/mamadbah2/cattlehealth/internal/domain/models"
	client "github.com/mamadbah2/cattlehealth/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// ErrDisabled is returned when no WhatsApp credentials are configured.
var ErrDisabled = errors.New("notifications are disabled")

// Messenger describes the notifications the scheduler and admin routes send.
type Messenger interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) (string, error)
	SendDigest(ctx context.Context, report models.DailyHerdReport) error
}

// WhatsAppMessenger is the Messenger backed by the WhatsApp Cloud API.
type WhatsAppMessenger struct {
	cfg    config.WhatsAppConfig
	client client.Client
	logger *zap.Logger
}

// NewWhatsAppMessenger wires a messenger. A nil client disables sending.
func NewWhatsAppMessenger(cfg config.WhatsAppConfig, c client.Client, logger *zap.Logger) *WhatsAppMessenger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsAppMessenger{cfg: cfg, client: c, logger: logger}
}

// SendOutbound sends a free text message and returns the accepted message id.
func (m *WhatsAppMessenger) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) (string, error) {
	if m.client == nil {
		return "", ErrDisabled
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, err := m.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         req.To,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	if err != nil {
		m.logger.Error("whatsapp send failed", zap.String("to", req.To), zap.Error(err))
		return "", err
	}

	m.logger.Info("whatsapp message sent", zap.String("to", req.To), zap.String("message_id", resp.MessageID()))
	return resp.MessageID(), nil
}

// SendDigest sends the formatted daily report to the alert phone.
func (m *WhatsAppMessenger) SendDigest(ctx context.Context, report models.DailyHerdReport) error {
	if m.cfg.AlertPhone == "" {
		return ErrDisabled
	}

	_, err := m.SendOutbound(ctx, models.OutboundMessageRequest{
		To:      m.cfg.AlertPhone,
		Message: FormatDigest(report),
	})
	return err
}

// FormatDigest renders a daily report as a WhatsApp text message.
func FormatDigest(report models.DailyHerdReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Herd digest %s*\n\n", report.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "Cattle: %d (%d healthy, %d need care)\n", report.TotalCattle, report.HealthyCattle, report.NeedsCare)
	fmt.Fprintf(&b, "Milk today: %.1f L, quality %s\n", report.MilkLiters, report.MilkQuality)
	fmt.Fprintf(&b, "Active treatments: %d\n", report.ActiveTreatment)

	if len(report.Alerts) == 0 {
		b.WriteString("\nNo health alerts.")
		return b.String()
	}

	fmt.Fprintf(&b, "\nHealth alerts (%d):\n", len(report.Alerts))
	for _, alert := range report.Alerts {
		line := fmt.Sprintf("- %s (%s): %s, risk %s", alert.CattleName, alert.RFID, alert.HealthStatus, alert.RiskLevel)
		if alert.Notes != "" {
			line += " (" + alert.Notes + ")"
		}
		b.WriteString(line + "\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}
