package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// RedisURL is the optional Redis connection string. Empty disables caching.
	RedisURL string `mapstructure:"REDIS_URL"`

	// ERP holds the upstream Business Central connection details.
	ERP ERPConfig `mapstructure:",squash"`

	// Proxy holds the optional egress proxy settings for outbound ERP calls.
	Proxy ProxyConfig `mapstructure:",squash"`
}

// ERPConfig holds the credentials and addressing for the upstream ERP.
// Credentials are only required when live mode is enabled, so they are
// validated by Validate rather than by the required tag.
type ERPConfig struct {
	// TenantID is the Azure AD tenant the service principal lives in.
	TenantID string `mapstructure:"ERP_TENANT_ID"`
	// ClientID is the OAuth2 client id of the service principal.
	ClientID string `mapstructure:"ERP_CLIENT_ID"`
	// ClientSecret is the OAuth2 client secret of the service principal.
	ClientSecret string `mapstructure:"ERP_CLIENT_SECRET"`
	// Environment is the Business Central environment name.
	Environment string `mapstructure:"ERP_ENVIRONMENT" default:"production"`
	// Company is the company identifier used in OData resource paths.
	Company string `mapstructure:"ERP_COMPANY"`
	// Scope is the OAuth2 scope requested during the token exchange.
	Scope string `mapstructure:"ERP_SCOPE" default:"https://api.businesscentral.dynamics.com/.default"`
	// BaseURL overrides the Business Central API root. Empty uses the public cloud URL.
	BaseURL string `mapstructure:"ERP_BASE_URL"`
	// TokenURL overrides the identity provider token endpoint. Empty derives it from TenantID.
	TokenURL string `mapstructure:"ERP_TOKEN_URL"`
	// DisableLiveAPI forces degraded mode: endpoints with substitute datasets
	// serve those instead of contacting the upstream.
	DisableLiveAPI bool `mapstructure:"ERP_DISABLE_LIVE_API" default:"false"`
}

// Validate checks that live mode has the credentials it needs.
func (c ERPConfig) Validate() error {
	if c.DisableLiveAPI {
		return nil
	}
	missing := ""
	switch {
	case c.TenantID == "":
		missing = "ERP_TENANT_ID"
	case c.ClientID == "":
		missing = "ERP_CLIENT_ID"
	case c.ClientSecret == "":
		missing = "ERP_CLIENT_SECRET"
	case c.Company == "":
		missing = "ERP_COMPANY"
	}
	if missing != "" {
		return fmt.Errorf("missing required configuration: %s", missing)
	}
	return nil
}

// ProxyConfig holds egress proxy settings for outbound HTTP calls.
type ProxyConfig struct {
	// Enabled turns the egress proxy on.
	Enabled bool `mapstructure:"PROXY_ENABLED" default:"false"`
	// Host is the proxy hostname.
	Host string `mapstructure:"PROXY_HOST"`
	// Port is the proxy port.
	Port int `mapstructure:"PROXY_PORT"`
	// Username is the optional proxy username.
	Username string `mapstructure:"PROXY_USERNAME"`
	// Password is the optional proxy password.
	Password string `mapstructure:"PROXY_PASSWORD"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
