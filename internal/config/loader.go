package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadConfig reads config.<env>.yaml plus NLN_-prefixed environment variables.
// A missing config file is not an error; env vars alone are enough to run.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	setDefaults()

	env := strings.ToLower(os.Getenv("APP_ENV"))
	if env == "" {
		env = "development"
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName(fmt.Sprintf("config.%s", env))
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/nln-auth")
	}

	viper.SetEnvPrefix("NLN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 5330)
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "15s")

	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.migrations_path", "migrations")

	viper.SetDefault("jwt.token_ttl", "720h")
	viper.SetDefault("jwt.issuer", "nln-auth")
	viper.SetDefault("jwt.audience", "nln-storefront")

	viper.SetDefault("security.bcrypt_cost", 10)
	viper.SetDefault("security.rate_limiting.enabled", true)
	viper.SetDefault("security.rate_limiting.login.enabled", true)
	viper.SetDefault("security.rate_limiting.login.limit", 10)
	viper.SetDefault("security.rate_limiting.login.window", "1m")
	viper.SetDefault("security.rate_limiting.signup.enabled", true)
	viper.SetDefault("security.rate_limiting.signup.limit", 5)
	viper.SetDefault("security.rate_limiting.signup.window", "1m")
	viper.SetDefault("security.rate_limiting.password_reset.enabled", true)
	viper.SetDefault("security.rate_limiting.password_reset.limit", 5)
	viper.SetDefault("security.rate_limiting.password_reset.window", "5m")
	viper.SetDefault("security.rate_limiting.general_auth.enabled", true)
	viper.SetDefault("security.rate_limiting.general_auth.limit", 60)
	viper.SetDefault("security.rate_limiting.general_auth.window", "1m")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	viper.SetDefault("telemetry.service_name", "nln-auth-service")
	viper.SetDefault("telemetry.metrics.enabled", true)

	viper.SetDefault("kafka.cloud_event_source", "/nln/auth-service")
	viper.SetDefault("kafka.producer.auth_topic", "nln.auth.events")
	viper.SetDefault("kafka.producer.notification_topic", "nln.notifications")
}
