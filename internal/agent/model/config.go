package model

import "time"

// ================ Config ================
type SessionConfig struct {
	Backend        string        `envconfig:"SESSION_BACKEND" default:"memory"`
	TTL            time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	SharedIdentity string        `envconfig:"SESSION_SHARED_IDENTITY"`
	SweepInterval  time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"1m"`

	// LockTTL bounds how long a crashed replica can hold a session lease (redis backend).
	LockTTL time.Duration `envconfig:"SESSION_LOCK_TTL" default:"10s"`
}

type CompletionModelConfig struct {
	APIKey       string        `envconfig:"GEMINI_API_KEY"`
	BaseURL      string        `envconfig:"GEMINI_BASE_URL"`
	Model        string        `envconfig:"COMPLETION_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens    int           `envconfig:"COMPLETION_MAX_TOKENS" default:"250"`
	Temperature  float32       `envconfig:"COMPLETION_TEMPERATURE" default:"0.7"`
	Timeout      time.Duration `envconfig:"COMPLETION_TIMEOUT" default:"8s"`
	HistoryTurns int           `envconfig:"COMPLETION_HISTORY_TURNS" default:"4"`
}

type SearchConfig struct {
	Enabled  bool          `envconfig:"SEARCH_ENABLED" default:"true"`
	Endpoint string        `envconfig:"SEARCH_ENDPOINT" default:"https://api.duckduckgo.com/"`
	Timeout  time.Duration `envconfig:"SEARCH_TIMEOUT" default:"5s"`
}

type BusinessConfig struct {
	Name   string `envconfig:"BUSINESS_NAME" default:"Damsole Technologies"`
	Email  string `envconfig:"BUSINESS_EMAIL" default:"sales@damsole.com"`
	Phone  string `envconfig:"BUSINESS_PHONE" default:"91+9356917424"`
	Office string `envconfig:"BUSINESS_OFFICE" default:"Office No. 103, 104, Madhuban Complex, 1st Floor, Near Maxcare Hospital, Manchar 410503"`
	Hours  string `envconfig:"BUSINESS_HOURS" default:"Monday to Saturday, 9:30 AM to 6:30 PM"`

	// Suggestions overrides the quick replies; empty keeps the built-in list.
	Suggestions []string `envconfig:"CHAT_SUGGESTIONS"`
}

type LeadStoreConfig struct {
	DBPath         string        `envconfig:"LEADS_DB_PATH" default:"./data/leads.db"`
	HandoffTimeout time.Duration `envconfig:"LEADS_HANDOFF_TIMEOUT" default:"15s"`
}

type MailConfig struct {
	Host     string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	Admin    string `envconfig:"ADMIN_EMAIL"`
	Password string `envconfig:"ADMIN_PASSWORD"`
}
