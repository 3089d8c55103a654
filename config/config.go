// Package config loads and validates the intake service configuration from
// environment variables (optionally seeded from a .env file).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	apperrors "github.com/NomadCrew/feedback-intake/errors"
	"github.com/NomadCrew/feedback-intake/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Provisioning decides when collaborator clients are built.
type Provisioning string

const (
	// ProvisionShared builds clients once at startup and reuses them.
	ProvisionShared Provisioning = "shared"
	// ProvisionPerInvocation builds fresh clients for every request.
	ProvisionPerInvocation Provisioning = "per_invocation"
)

// NotificationPolicy decides whether a failed publish after a successful
// write is reported to the client.
type NotificationPolicy string

const (
	PolicyBestEffort NotificationPolicy = "best_effort"
	PolicyStrict     NotificationPolicy = "strict"
)

// Record store drivers.
const (
	StoreDynamoDB = "dynamodb"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreS3       = "s3"
	StoreMemory   = "memory"
)

// Notifier drivers.
const (
	NotifierSNS     = "sns"
	NotifierEmail   = "email"
	NotifierRedis   = "redis"
	NotifierWebhook = "webhook"
	NotifierLog     = "log"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
}

// IntakeConfig holds the request pipeline policies.
type IntakeConfig struct {
	Provisioning       Provisioning       `mapstructure:"PROVISIONING" yaml:"provisioning"`
	NotificationPolicy NotificationPolicy `mapstructure:"NOTIFICATION_POLICY" yaml:"notification_policy"`
}

// StoreConfig selects and addresses the record store. TableName doubles as the
// collection name (mongo) and bucket name (s3).
type StoreConfig struct {
	Driver    string `mapstructure:"DRIVER" yaml:"driver"`
	TableName string `mapstructure:"TABLE_NAME" yaml:"table_name"`
	Region    string `mapstructure:"REGION" yaml:"region"`
	Endpoint  string `mapstructure:"ENDPOINT" yaml:"endpoint"`
}

// NotifierConfig selects and addresses the notifier. Topic is the SNS topic
// ARN, the redis channel, or the label attached to emails and webhooks.
type NotifierConfig struct {
	Driver                string `mapstructure:"DRIVER" yaml:"driver"`
	Topic                 string `mapstructure:"TOPIC" yaml:"topic"`
	Region                string `mapstructure:"REGION" yaml:"region"`
	Endpoint              string `mapstructure:"ENDPOINT" yaml:"endpoint"`
	PublishTimeoutSeconds int    `mapstructure:"PUBLISH_TIMEOUT_SECONDS" yaml:"publish_timeout_seconds"`
}

// AWSConfig holds optional static credentials and the default region.
type AWSConfig struct {
	Region          string `mapstructure:"REGION" yaml:"region"`
	AccessKeyID     string `mapstructure:"ACCESS_KEY_ID" yaml:"access_key_id"`
	SecretAccessKey string `mapstructure:"SECRET_ACCESS_KEY" yaml:"secret_access_key"`
}

// DatabaseConfig holds PostgreSQL connection details for the postgres store.
type DatabaseConfig struct {
	Host           string `mapstructure:"HOST" yaml:"host"`
	Port           int    `mapstructure:"PORT" yaml:"port"`
	User           string `mapstructure:"USER" yaml:"user"`
	Password       string `mapstructure:"PASSWORD" yaml:"password"`
	Name           string `mapstructure:"NAME" yaml:"name"`
	SSLMode        string `mapstructure:"SSL_MODE" yaml:"ssl_mode"`
	MaxConnections int    `mapstructure:"MAX_CONNECTIONS" yaml:"max_connections"`
}

// URL returns a postgres:// connection URL usable by pgx and golang-migrate.
func (c *DatabaseConfig) URL() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Name,
		sslmode,
	)
}

// MongoConfig holds connection details for the mongo store.
type MongoConfig struct {
	URI      string `mapstructure:"URI" yaml:"uri"`
	Database string `mapstructure:"DATABASE" yaml:"database"`
}

// RedisConfig holds connection details for the redis notifier.
type RedisConfig struct {
	Address  string `mapstructure:"ADDRESS" yaml:"address"`
	Password string `mapstructure:"PASSWORD" yaml:"password"`
	DB       int    `mapstructure:"DB" yaml:"db"`
	UseTLS   bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
}

// EmailConfig holds Resend settings and the subscriber list for the email notifier.
type EmailConfig struct {
	FromAddress  string   `mapstructure:"FROM_ADDRESS" yaml:"from_address"`
	FromName     string   `mapstructure:"FROM_NAME" yaml:"from_name"`
	ResendAPIKey string   `mapstructure:"RESEND_API_KEY" yaml:"resend_api_key"`
	Recipients   []string `mapstructure:"RECIPIENTS" yaml:"recipients"`
}

// WebhookConfig holds settings for the webhook notifier.
type WebhookConfig struct {
	URL            string `mapstructure:"URL" yaml:"url"`
	APIKey         string `mapstructure:"API_KEY" yaml:"api_key"`
	TimeoutSeconds int    `mapstructure:"TIMEOUT_SECONDS" yaml:"timeout_seconds"`
}

// Config aggregates all configuration sections.
type Config struct {
	Server   ServerConfig   `mapstructure:"SERVER" yaml:"server"`
	Intake   IntakeConfig   `mapstructure:"INTAKE" yaml:"intake"`
	Store    StoreConfig    `mapstructure:"STORE" yaml:"store"`
	Notifier NotifierConfig `mapstructure:"NOTIFIER" yaml:"notifier"`
	AWS      AWSConfig      `mapstructure:"AWS" yaml:"aws"`
	Database DatabaseConfig `mapstructure:"DATABASE" yaml:"database"`
	Mongo    MongoConfig    `mapstructure:"MONGO" yaml:"mongo"`
	Redis    RedisConfig    `mapstructure:"REDIS" yaml:"redis"`
	Email    EmailConfig    `mapstructure:"EMAIL" yaml:"email"`
	Webhook  WebhookConfig  `mapstructure:"WEBHOOK" yaml:"webhook"`
}

// IsProduction returns true if the application is running in production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// StoreRegion returns the store region, falling back to AWS_REGION.
func (c *Config) StoreRegion() string {
	if c.Store.Region != "" {
		return c.Store.Region
	}
	return c.AWS.Region
}

// NotifierRegion returns the notifier region, falling back to AWS_REGION.
func (c *Config) NotifierRegion() string {
	if c.Notifier.Region != "" {
		return c.Notifier.Region
	}
	return c.AWS.Region
}

// bindEnvVars binds environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("INTAKE.PROVISIONING", ProvisionShared)
	v.SetDefault("INTAKE.NOTIFICATION_POLICY", PolicyBestEffort)
	v.SetDefault("STORE.DRIVER", StoreDynamoDB)
	v.SetDefault("STORE.TABLE_NAME", "")
	v.SetDefault("STORE.REGION", "")
	v.SetDefault("STORE.ENDPOINT", "")
	v.SetDefault("NOTIFIER.DRIVER", NotifierSNS)
	v.SetDefault("NOTIFIER.TOPIC", "")
	v.SetDefault("NOTIFIER.REGION", "")
	v.SetDefault("NOTIFIER.ENDPOINT", "")
	v.SetDefault("NOTIFIER.PUBLISH_TIMEOUT_SECONDS", 5)
	v.SetDefault("AWS.REGION", "")
	v.SetDefault("AWS.ACCESS_KEY_ID", "")
	v.SetDefault("AWS.SECRET_ACCESS_KEY", "")
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "")
	v.SetDefault("DATABASE.NAME", "feedback")
	v.SetDefault("DATABASE.SSL_MODE", "disable")
	v.SetDefault("DATABASE.MAX_CONNECTIONS", 5)
	v.SetDefault("MONGO.URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO.DATABASE", "feedback")
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("EMAIL.FROM_ADDRESS", "")
	v.SetDefault("EMAIL.FROM_NAME", "Feedback")
	v.SetDefault("EMAIL.RESEND_API_KEY", "")
	v.SetDefault("EMAIL.RECIPIENTS", []string{})
	v.SetDefault("WEBHOOK.URL", "")
	v.SetDefault("WEBHOOK.API_KEY", "")
	v.SetDefault("WEBHOOK.TIMEOUT_SECONDS", 10)
}

var envBindings = [][2]string{
	// Server
	{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
	{"SERVER.PORT", "PORT"},
	{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
	{"SERVER.VERSION", "VERSION"},
	// Intake
	{"INTAKE.PROVISIONING", "INTAKE_PROVISIONING"},
	{"INTAKE.NOTIFICATION_POLICY", "NOTIFICATION_POLICY"},
	// Store
	{"STORE.DRIVER", "STORE_DRIVER"},
	{"STORE.TABLE_NAME", "TABLE_NAME"},
	{"STORE.REGION", "STORE_REGION"},
	{"STORE.ENDPOINT", "STORE_ENDPOINT"},
	// Notifier
	{"NOTIFIER.DRIVER", "NOTIFIER_DRIVER"},
	{"NOTIFIER.TOPIC", "SNS_TOPIC_ARN"},
	{"NOTIFIER.REGION", "NOTIFIER_REGION"},
	{"NOTIFIER.ENDPOINT", "NOTIFIER_ENDPOINT"},
	{"NOTIFIER.PUBLISH_TIMEOUT_SECONDS", "NOTIFIER_PUBLISH_TIMEOUT_SECONDS"},
	// AWS
	{"AWS.REGION", "AWS_REGION"},
	{"AWS.ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID"},
	{"AWS.SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY"},
	// Database
	{"DATABASE.HOST", "DB_HOST"},
	{"DATABASE.PORT", "DB_PORT"},
	{"DATABASE.USER", "DB_USER"},
	{"DATABASE.PASSWORD", "DB_PASSWORD"},
	{"DATABASE.NAME", "DB_NAME"},
	{"DATABASE.SSL_MODE", "DB_SSL_MODE"},
	{"DATABASE.MAX_CONNECTIONS", "DB_MAX_CONNECTIONS"},
	// Mongo
	{"MONGO.URI", "MONGO_URI"},
	{"MONGO.DATABASE", "MONGO_DATABASE"},
	// Redis
	{"REDIS.ADDRESS", "REDIS_ADDRESS"},
	{"REDIS.PASSWORD", "REDIS_PASSWORD"},
	{"REDIS.DB", "REDIS_DB"},
	{"REDIS.USE_TLS", "REDIS_USE_TLS"},
	// Email
	{"EMAIL.FROM_ADDRESS", "EMAIL_FROM_ADDRESS"},
	{"EMAIL.FROM_NAME", "EMAIL_FROM_NAME"},
	{"EMAIL.RESEND_API_KEY", "RESEND_API_KEY"},
	{"EMAIL.RECIPIENTS", "EMAIL_RECIPIENTS"},
	// Webhook
	{"WEBHOOK.URL", "WEBHOOK_URL"},
	{"WEBHOOK.API_KEY", "WEBHOOK_API_KEY"},
	{"WEBHOOK.TIMEOUT_SECONDS", "WEBHOOK_TIMEOUT_SECONDS"},
}

// LoadConfig reads a .env file when present, binds environment variables,
// applies defaults and validates the result. Validation failures are
// CONFIGURATION_ERROR AppErrors.
func LoadConfig() (*Config, error) {
	log := logger.GetLogger()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}
	cfg.Server.AllowedOrigins = splitList(cfg.Server.AllowedOrigins)
	cfg.Email.Recipients = splitList(cfg.Email.Recipients)

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"server_port", cfg.Server.Port,
		"provisioning", cfg.Intake.Provisioning,
		"notification_policy", cfg.Intake.NotificationPolicy,
		"store_driver", cfg.Store.Driver,
		"table_name", cfg.Store.TableName,
		"notifier_driver", cfg.Notifier.Driver,
		"topic", cfg.Notifier.Topic,
	)

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	log.Info("Configuration validated successfully")
	return &cfg, nil
}

// splitList accepts both repeated values and a single comma separated value,
// which is how list env vars usually arrive.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return apperrors.Configuration("server port is required")
	}

	switch cfg.Intake.Provisioning {
	case ProvisionShared, ProvisionPerInvocation:
	default:
		return apperrors.Configuration(fmt.Sprintf("unknown provisioning strategy %q", cfg.Intake.Provisioning))
	}

	switch cfg.Intake.NotificationPolicy {
	case PolicyBestEffort, PolicyStrict:
	default:
		return apperrors.Configuration(fmt.Sprintf("unknown notification policy %q", cfg.Intake.NotificationPolicy))
	}

	if err := validateStoreConfig(cfg); err != nil {
		return err
	}
	return validateNotifierConfig(cfg)
}

func validateStoreConfig(cfg *Config) error {
	if cfg.Store.TableName == "" {
		return apperrors.Configuration("store table name (TABLE_NAME) is required")
	}

	switch cfg.Store.Driver {
	case StoreDynamoDB, StoreS3:
		if cfg.StoreRegion() == "" {
			return apperrors.Configuration("store region (STORE_REGION or AWS_REGION) is required")
		}
	case StorePostgres:
		if cfg.Database.Host == "" {
			return apperrors.Configuration("database host is required")
		}
		if cfg.Database.User == "" {
			return apperrors.Configuration("database user is required")
		}
		if cfg.Database.Name == "" {
			return apperrors.Configuration("database name is required")
		}
		if cfg.Database.Password == "" {
			logger.GetLogger().Warn("Database password is not set. Ensure this is intended (e.g., using trusted auth).")
		}
	case StoreMongo:
		if cfg.Mongo.URI == "" {
			return apperrors.Configuration("mongo URI is required")
		}
		if cfg.Mongo.Database == "" {
			return apperrors.Configuration("mongo database is required")
		}
	case StoreMemory:
	default:
		return apperrors.Configuration(fmt.Sprintf("unknown store driver %q", cfg.Store.Driver))
	}

	if cfg.Store.Endpoint != "" {
		if _, err := url.ParseRequestURI(cfg.Store.Endpoint); err != nil {
			return apperrors.Configuration(fmt.Sprintf("invalid store endpoint %q", cfg.Store.Endpoint))
		}
	}
	return nil
}

func validateNotifierConfig(cfg *Config) error {
	if cfg.Notifier.Topic == "" {
		return apperrors.Configuration("notification topic (SNS_TOPIC_ARN) is required")
	}

	switch cfg.Notifier.Driver {
	case NotifierSNS:
		if cfg.NotifierRegion() == "" {
			return apperrors.Configuration("notifier region (NOTIFIER_REGION or AWS_REGION) is required")
		}
	case NotifierEmail:
		if cfg.Email.ResendAPIKey == "" {
			return apperrors.Configuration("resend API key is required")
		}
		if cfg.Email.FromAddress == "" {
			return apperrors.Configuration("email from address is required")
		}
		if len(cfg.Email.Recipients) == 0 {
			return apperrors.Configuration("at least one email recipient is required")
		}
	case NotifierRedis:
		if cfg.Redis.Address == "" {
			return apperrors.Configuration("redis address is required")
		}
		if cfg.Redis.Password == "" && cfg.Redis.UseTLS {
			logger.GetLogger().Warn("Redis password is not set, but TLS is enabled. Ensure this is correct for your Redis provider.")
		}
	case NotifierWebhook:
		if _, err := url.ParseRequestURI(cfg.Webhook.URL); err != nil {
			return apperrors.Configuration("webhook URL is required and must be absolute")
		}
		if cfg.Webhook.TimeoutSeconds <= 0 {
			return apperrors.Configuration("webhook timeout must be positive")
		}
	case NotifierLog:
	default:
		return apperrors.Configuration(fmt.Sprintf("unknown notifier driver %q", cfg.Notifier.Driver))
	}

	if cfg.Notifier.PublishTimeoutSeconds <= 0 {
		return apperrors.Configuration("notifier publish timeout must be positive")
	}
	if cfg.Notifier.Endpoint != "" {
		if _, err := url.ParseRequestURI(cfg.Notifier.Endpoint); err != nil {
			return apperrors.Configuration(fmt.Sprintf("invalid notifier endpoint %q", cfg.Notifier.Endpoint))
		}
	}
	return nil
}
