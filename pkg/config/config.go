package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"scoutnet/pkg/client"
	"scoutnet/pkg/locale"
	"scoutnet/pkg/logger"
)

type Config struct {
	APIID             string        `env:"SCOUTNET_API_ID"`
	Endpoint          string        `env:"SCOUTNET_API_ENDPOINT" envDefault:"https://www.scoutnet.se/api"`
	APIKeyMemberlist  string        `env:"SCOUTNET_API_KEY_MEMBERLIST"`
	APIKeyCustomlists string        `env:"SCOUTNET_API_KEY_CUSTOMLISTS"`
	HTTPTimeout       time.Duration `env:"SCOUTNET_HTTP_TIMEOUT" envDefault:"30s"`
	PhoneRegion       string        `env:"SCOUTNET_PHONE_REGION" envDefault:"SE"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	DumpDir          string        `env:"SCOUTNET_DUMP_DIR" envDefault:"dumps"`
	MongoURI         string        `env:"SCOUTNET_MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase    string        `env:"SCOUTNET_MONGO_DATABASE" envDefault:"scoutnet"`
	MongoConnTimeout time.Duration `env:"SCOUTNET_MONGO_CONN_TIMEOUT" envDefault:"10s"`

	EventsTopic string `env:"SCOUTNET_EVENTS_TOPIC" envDefault:"scoutnet.roster"`

	Log *logger.Logger `env:"-"`
}

// Load parses the environment, validates the result and builds the logger.
func Load(serviceName string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Log = logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})
	return cfg, nil
}

func (cfg *Config) Credentials() client.Credentials {
	return client.Credentials{
		APIID:             cfg.APIID,
		APIKeyMemberlist:  cfg.APIKeyMemberlist,
		APIKeyCustomlists: cfg.APIKeyCustomlists,
	}
}

var reMongoURI = regexp.MustCompile(`^mongodb(\+srv)?://`)

func (cfg *Config) Validate() error {
	var errors []string

	if (cfg.APIKeyMemberlist != "" || cfg.APIKeyCustomlists != "") && cfg.APIID == "" {
		errors = append(errors, "APIID is required when an API key is set")
	}

	if u, err := url.Parse(cfg.Endpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, fmt.Sprintf("Endpoint must be an absolute http(s) URL, got: %s", cfg.Endpoint))
	}

	if cfg.HTTPTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("HTTPTimeout must be positive, got: %s", cfg.HTTPTimeout))
	}

	if _, ok := locale.Lookup(cfg.PhoneRegion); !ok {
		errors = append(errors, fmt.Sprintf("PhoneRegion is not supported, got: %s", cfg.PhoneRegion))
	}

	switch strings.ToLower(cfg.LogLevel) {
	case logger.DEBUG, logger.INFO, logger.WARN, logger.ERROR:
	default:
		errors = append(errors, fmt.Sprintf("LogLevel must be one of [debug, info, warn, error], got: %s", cfg.LogLevel))
	}
	switch strings.ToLower(cfg.LogFormat) {
	case logger.JSON, logger.TEXT:
	default:
		errors = append(errors, fmt.Sprintf("LogFormat must be json or text, got: %s", cfg.LogFormat))
	}

	if cfg.DumpDir == "" {
		errors = append(errors, "DumpDir cannot be empty")
	}

	if !reMongoURI.MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabase == "" {
		errors = append(errors, "MongoDatabase cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.EventsTopic == "" {
		errors = append(errors, "EventsTopic cannot be empty")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}
	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"api_id", cfg.APIID,
		"endpoint", cfg.Endpoint,
		"memberlist_key_set", cfg.APIKeyMemberlist != "",
		"customlists_key_set", cfg.APIKeyCustomlists != "",
		"http_timeout", cfg.HTTPTimeout,
		"phone_region", cfg.PhoneRegion,
		"dump_dir", cfg.DumpDir,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabase,
		"events_topic", cfg.EventsTopic,
	)
}

var reMongoCredentials = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)

func redactMongoURI(uri string) string {
	return reMongoCredentials.ReplaceAllString(uri, "${1}***:***@")
}
