package config

import (
	"os"
	"strconv"

	"github.com/hiresphere/hiresphere/internal/notify"
	"github.com/hiresphere/hiresphere/internal/providers/llm"
)

// App carries every tunable read from the environment. Secrets stay in the
// environment; this is assembled once at startup.
type App struct {
	Port string

	// Provider chain, in fallback order. Entries without an API key are
	// skipped.
	Providers []llm.Config

	SMTP            notify.SMTPConfig
	RecruiterEmails bool // send email alerts
	SlackWebhookURL string

	ScoreAlertThreshold float64
	PortalURL           string

	// GCSBucket switches storage to GCS; otherwise UploadDir is used.
	GCSBucket string
	UploadDir string

	WorkerCount int
}

func Load() App {
	cfg := App{
		Port: getenv("PORT", "8080"),
		Providers: []llm.Config{
			{
				Kind:    "deepseek",
				APIKey:  os.Getenv("DEEPSEEK_API_KEY"),
				BaseURL: getenv("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
				Model:   getenv("DEEPSEEK_MODEL", "deepseek-chat"),
			},
			{
				Kind:    "openai",
				APIKey:  os.Getenv("OPENAI_API_KEY"),
				BaseURL: getenv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
				Model:   getenv("OPENAI_MODEL", "gpt-4o-mini"),
			},
			{
				Kind:   "gemini",
				APIKey: os.Getenv("GEMINI_API_KEY"),
				Model:  os.Getenv("GEMINI_MODEL"),
			},
		},
		SMTP: notify.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getenvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getenv("SMTP_FROM", "alerts@hiresphere.io"),
		},
		SlackWebhookURL:     os.Getenv("SLACK_WEBHOOK_URL"),
		ScoreAlertThreshold: getenvFloat("SCORE_ALERT_THRESHOLD", 50.0),
		PortalURL:           getenv("PORTAL_URL", "http://localhost:3000"),
		GCSBucket:           os.Getenv("GCS_BUCKET"),
		UploadDir:           getenv("UPLOAD_DIR", "uploads"),
		WorkerCount:         getenvInt("WORKER_COUNT", 5),
	}
	cfg.RecruiterEmails = cfg.SMTP.Host != ""
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
