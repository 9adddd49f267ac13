// Package config loads the service configuration from the environment.
//
// Variables use the MONITORIA_ prefix and a double underscore for nesting:
//
//	MONITORIA_SERVER__PORT=8080          -> server.port
//	MONITORIA_DATABASE__SSL_MODE=disable -> database.ssl_mode
//
// A `.env` file in the working directory is loaded first when present.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix every configuration variable carries.
const EnvPrefix = "MONITORIA_"

// Config is the root configuration object.
//
// Observability is optional; unset values come from DefaultObservabilityConfig.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig holds the HTTP server settings. Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimitPerSecond caps requests per client IP; 0 disables the limiter.
	RateLimitPerSecond float64 `koanf:"rate_limit_per_second" validate:"gte=0"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
// Lifetimes are in seconds.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// DSN renders the postgres:// connection string, escaping the password.
func (d DatabaseConfig) DSN() string {
	return buildDSN(d)
}

type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig holds the Clerk secret key and the role treated as administrator.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
	AdminRole string `koanf:"admin_role"`
}

// IntegrationConfig holds third-party API settings. An empty ResendAPIKey
// disables outgoing e-mail; jobs are still processed and logged.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	EmailFrom    string `koanf:"email_from"`
}

// DefaultAdminRole is the Clerk organization role allowed to manage every monitoria.
const DefaultAdminRole = "org:admin"

// LoadConfig reads, validates and completes the configuration.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKeyValue), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	// Observability starts from the defaults so a partial override such as
	// MONITORIA_OBSERVABILITY__LOGGING__LEVEL=debug keeps the other values.
	mainConfig := &Config{Observability: DefaultObservabilityConfig()}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Service name and environment always follow the primary config so logs
	// and traces are labelled consistently.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	if mainConfig.Auth.AdminRole == "" {
		mainConfig.Auth.AdminRole = DefaultAdminRole
	}
	if mainConfig.Integration.EmailFrom == "" {
		mainConfig.Integration.EmailFrom = "Monitorias <onboarding@resend.dev>"
	}

	return mainConfig, nil
}

// listKeys are the comma separated variables, e.g.
// MONITORIA_SERVER__CORS_ALLOWED_ORIGINS=http://a.test,http://b.test.
var listKeys = map[string]bool{
	"server.cors_allowed_origins":        true,
	"observability.health_checks.checks": true,
}

// envKeyValue maps MONITORIA_SERVER__PORT to server.port and splits list values.
func envKeyValue(name, value string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")

	if !listKeys[key] {
		return key, value
	}

	items := make([]string, 0, strings.Count(value, ",")+1)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

func buildDSN(d DatabaseConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}
