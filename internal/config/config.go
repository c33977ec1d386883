package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PlaceholderKey is shipped in sample configs and treated as an absent key.
const PlaceholderKey = "YOUR_API_KEY_HERE"

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	AI struct {
		Provider       string `yaml:"provider"`
		APIKey         string `yaml:"apiKey"`
		Endpoint       string `yaml:"endpoint"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
		// MaskRiskPhrases makes the heuristic ignore protective words found inside risk phrases.
		MaskRiskPhrases bool `yaml:"maskRiskPhrases"`
	} `yaml:"ai"`

	Crisis struct {
		SuicideRiskThreshold *int   `yaml:"suicideRiskThreshold"`
		Hotline              string `yaml:"hotline"`
		CareTeamEmail        string `yaml:"careTeamEmail"`
		WebhookURL           string `yaml:"webhookURL"`
	} `yaml:"crisis"`

	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
	} `yaml:"smtp"`

	Auth struct {
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"auth"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"rateLimit"`

	Probe struct {
		Schedule string `yaml:"schedule"`
	} `yaml:"probe"`

	Log struct {
		Level string `yaml:"level"`
		Debug bool   `yaml:"debug"`
	} `yaml:"log"`
}

// Load reads config.yaml, applies environment overrides and defaults, then validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse is Load without the file read.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.AI.APIKey, "AI_API_KEY")
	setString(&c.AI.Provider, "AI_PROVIDER")
	setString(&c.AI.Model, "AI_MODEL")
	setString(&c.AI.Endpoint, "AI_ENDPOINT")
	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.SMTP.Password, "SMTP_PASSWORD")
	setString(&c.Crisis.Hotline, "CRISIS_HOTLINE")
	setString(&c.Crisis.CareTeamEmail, "CRISIS_CARE_TEAM_EMAIL")
	setString(&c.Crisis.WebhookURL, "CRISIS_WEBHOOK_URL")
	setString(&c.Log.Level, "LOG_LEVEL")
	if v, ok := lookupInt("CRISIS_SUICIDE_RISK_THRESHOLD"); ok {
		c.Crisis.SuicideRiskThreshold = &v
	}
	if v, ok := lookupInt("SERVER_PORT"); ok {
		c.Server.Port = v
	}
	if v, ok := lookupInt("DB_PORT"); ok {
		c.Database.Port = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "openai"
	}
	if c.AI.TimeoutSeconds <= 0 {
		c.AI.TimeoutSeconds = 30
	}
	if c.Crisis.SuicideRiskThreshold == nil {
		v := 5
		c.Crisis.SuicideRiskThreshold = &v
	}
	if c.Crisis.Hotline == "" {
		c.Crisis.Hotline = "988"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.RateLimit.Capacity <= 0 {
		c.RateLimit.Capacity = 60
	}
	if c.RateLimit.RefillRate <= 0 {
		c.RateLimit.RefillRate = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.AI.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unsupported ai provider %q", c.AI.Provider)
	}
	if t := c.Threshold(); t < 0 || t > 10 {
		return fmt.Errorf("crisis.suicideRiskThreshold must be within [0,10], got %d", t)
	}
	return nil
}

// AIKey returns the configured key, or "" when it is missing or a placeholder.
func (c *Config) AIKey() string {
	k := strings.TrimSpace(c.AI.APIKey)
	if k == PlaceholderKey {
		return ""
	}
	return k
}

// Threshold returns the configured suicide-risk threshold.
func (c *Config) Threshold() int {
	if c.Crisis.SuicideRiskThreshold == nil {
		return 5
	}
	return *c.Crisis.SuicideRiskThreshold
}

// AITimeout returns the remote classifier timeout.
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}

// MySQLDSN builds the go-sql-driver DSN
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds the lib/pq URL
func (c *Config) PostgresDSN() string {
	ssl := c.Database.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Name,
		RawQuery: "sslmode=" + url.QueryEscape(ssl),
	}
	return u.String()
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func lookupInt(key string) (int, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
