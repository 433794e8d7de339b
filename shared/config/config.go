package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	LogLevel       string        `yaml:"log_level"`
	LogJSON        bool          `yaml:"log_json"`
	HttpPort       int           `yaml:"http_port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	SecureCookies  bool          `yaml:"secure_cookies"`
	JwtTTL         time.Duration `yaml:"jwt_ttl"`

	Embedding Embedding `yaml:"embedding"`

	SearchLimit        int `yaml:"search_limit"`         // max hits returned by semantic search
	NotificationsLimit int `yaml:"notifications_limit"` // max notifications returned per listing

	MaxTitleLength       int `yaml:"max_title_length"`
	MaxDescriptionLength int `yaml:"max_description_length"`
	MaxContentLength     int `yaml:"max_content_length"`

	Reconcile Reconcile `yaml:"reconcile"`
}

// Embedding describes the text embedding endpoint used to fill the vector index.
type Embedding struct {
	Url        string        `yaml:"url"`
	Model      string        `yaml:"model"`
	Dimensions int           `yaml:"dimensions"`
	Timeout    time.Duration `yaml:"timeout"`
}

// Reconcile configures the background job that repairs vector index drift.
type Reconcile struct {
	Enabled         bool          `yaml:"enabled"`
	Interval        time.Duration `yaml:"interval"`
	SafetyThreshold time.Duration `yaml:"safety_threshold"` // records younger than this are left alone
	MaxAttempts     uint          `yaml:"max_attempts"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

// Dsn returns a lib/pq connection string.
func (p Pg) Dsn() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		p.Host, p.Port, p.User, p.Password, p.Dbname)
}

type Private struct {
	Pg       Pg     `yaml:"pg"`
	VectorPg Pg     `yaml:"vector_pg"` // vector index database, may point to the same server as Pg
	JwtKey   string `yaml:"jwt_key"`
}

func (s *Config) JwtKey() string {
	return s.Private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

func (p *Public) applyDefaults() {
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
	if p.HttpPort == 0 {
		p.HttpPort = 8080
	}
	if p.RequestTimeout == 0 {
		p.RequestTimeout = 30 * time.Second
	}
	if p.JwtTTL == 0 {
		p.JwtTTL = 24 * time.Hour
	}
	if p.Embedding.Timeout == 0 {
		p.Embedding.Timeout = 10 * time.Second
	}
	if p.SearchLimit == 0 {
		p.SearchLimit = 20
	}
	if p.NotificationsLimit == 0 {
		p.NotificationsLimit = 50
	}
	if p.MaxTitleLength == 0 {
		p.MaxTitleLength = 200
	}
	if p.MaxDescriptionLength == 0 {
		p.MaxDescriptionLength = 2000
	}
	if p.MaxContentLength == 0 {
		p.MaxContentLength = 10000
	}
	if p.Reconcile.Interval == 0 {
		p.Reconcile.Interval = 10 * time.Minute
	}
	if p.Reconcile.SafetyThreshold == 0 {
		p.Reconcile.SafetyThreshold = time.Minute
	}
	if p.Reconcile.MaxAttempts == 0 {
		p.Reconcile.MaxAttempts = 3
	}
}

func (p Public) validate() error {
	if p.Embedding.Url == "" {
		return fmt.Errorf("embedding.url is required")
	}
	if p.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding.dimensions must be positive")
	}
	return nil
}

func (p Private) validate() error {
	if p.JwtKey == "" {
		return fmt.Errorf("jwt_key is required")
	}
	if p.Pg.Host == "" || p.Pg.Dbname == "" {
		return fmt.Errorf("pg.host and pg.dbname are required")
	}
	return nil
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)

	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file: " + err.Error())
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)
	public.applyDefaults()
	if err := public.validate(); err != nil {
		panic("invalid public config: " + err.Error())
	}

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)
	if private.VectorPg.Host == "" {
		private.VectorPg = private.Pg
	}
	if err := private.validate(); err != nil {
		panic("invalid private config: " + err.Error())
	}

	return &Config{public, private}
}
