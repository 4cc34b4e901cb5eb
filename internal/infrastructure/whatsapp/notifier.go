package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"geoeconews/internal/config"
	"geoeconews/internal/domain"
	"geoeconews/internal/phone"
	"geoeconews/internal/ports"
)

const defaultMessagesPerMinute = 30

var categoryIcons = map[domain.Category]string{
	domain.CategoryEconomy:     "📈",
	domain.CategoryGeopolitics: "🌍",
	domain.CategoryMarkets:     "💰",
}

const defaultIcon = "📈"

// Notifier sends alert messages through a WhatsApp-gateway HTTP API.
// Send never returns an error: the boolean is the whole delivery contract.
type Notifier struct {
	endpoint      string
	apiKey        string
	dashboardHost string
	client        *http.Client
	limiter       *rate.Limiter
	logger        *slog.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier builds a dispatcher from configuration. Outbound sends are
// throttled to MessagesPerMinute so the gateway does not reject bursts.
func NewNotifier(cfg config.WhatsAppConfig, logger *slog.Logger) *Notifier {
	perMinute := cfg.MessagesPerMinute
	if perMinute <= 0 {
		perMinute = defaultMessagesPerMinute
	}

	return &Notifier{
		endpoint:      cfg.Endpoint,
		apiKey:        cfg.APIKey,
		dashboardHost: cfg.DashboardHost,
		client:        &http.Client{Timeout: 10 * time.Second},
		limiter:       rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		logger:        logger,
	}
}

// Send formats and posts one alert message. Returns true only on an explicit
// HTTP 200 from the gateway; missing credentials, an invalid recipient and
// any transport failure all come back as false.
func (n *Notifier) Send(ctx context.Context, phoneNumber string, item domain.NewsItem) bool {
	if n.apiKey == "" || n.endpoint == "" {
		n.warn("messaging credentials not configured")
		return false
	}

	to, err := phone.Normalize(phoneNumber)
	if err != nil {
		n.warn("invalid recipient phone", "phone", phoneNumber, "error", err)
		return false
	}

	if err := n.limiter.Wait(ctx); err != nil {
		n.warn("rate limiter interrupted", "error", err)
		return false
	}

	body, err := json.Marshal(map[string]string{
		"to":   to,
		"text": formatMessage(item, n.dashboardHost),
	})
	if err != nil {
		n.warn("marshal message payload", "error", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		n.warn("build send request", "error", err)
		return false
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.warn("send message", "to", to, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		n.warn("gateway rejected message", "to", to, "status", resp.Status,
			"detail", strings.TrimSpace(string(detail)))
		return false
	}

	return true
}

// formatMessage renders the fixed multi-section alert template.
func formatMessage(item domain.NewsItem, dashboardHost string) string {
	icon, ok := categoryIcons[item.Category]
	if !ok {
		icon = defaultIcon
	}

	return fmt.Sprintf(`🚨 GEOECO NEWS

%s %s | ALTO IMPACTO
%s

💬 %s

🔗 %s
⏰ %s

---
⚙️ Configurar alertas: https://%s/settings`,
		icon,
		strings.ToUpper(string(item.Category)),
		strings.ToUpper(item.Title),
		item.Content,
		item.URL,
		item.PublishedAt.Format("02/01/2006 15:04"),
		dashboardHost,
	)
}

func (n *Notifier) warn(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Warn(msg, args...)
	}
}
