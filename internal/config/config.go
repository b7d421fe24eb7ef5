/**
 * @description
 * This package handles the configuration management for the service. It uses the
 * Viper library to read configuration from environment variables, providing a
 * centralized and straightforward way to manage application settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort             string `mapstructure:"SERVER_PORT"`
	DatabaseURL            string `mapstructure:"DATABASE_URL"`
	RedisURL               string `mapstructure:"REDIS_URL"`
	RabbitMQURL            string `mapstructure:"RABBITMQ_URL"`
	NotificationQueue      string `mapstructure:"NOTIFICATION_QUEUE"`
	SupabaseURL            string `mapstructure:"SUPABASE_URL"`
	SupabaseAnonKey        string `mapstructure:"SUPABASE_ANON_KEY"`
	SupabaseServiceRoleKey string `mapstructure:"SUPABASE_SERVICE_ROLE_KEY"`
	SupabaseJWTSecret      string `mapstructure:"SUPABASE_JWT_SECRET"`
	StripeSecretKey        string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret    string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	FrontendURL            string `mapstructure:"FRONTEND_URL"`
	ResendAPIKey           string `mapstructure:"RESEND_API_KEY"`
	SupportEmail           string `mapstructure:"SUPPORT_EMAIL"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")
	viper.SetDefault("SUPPORT_EMAIL", "support@migrent.com.au")
	viper.SetDefault("NOTIFICATION_QUEUE", "migrent.notifications")

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("NOTIFICATION_QUEUE")
	_ = viper.BindEnv("SUPABASE_URL")
	_ = viper.BindEnv("SUPABASE_ANON_KEY")
	_ = viper.BindEnv("SUPABASE_SERVICE_ROLE_KEY")
	_ = viper.BindEnv("SUPABASE_JWT_SECRET")
	_ = viper.BindEnv("STRIPE_SECRET_KEY")
	_ = viper.BindEnv("STRIPE_WEBHOOK_SECRET")
	_ = viper.BindEnv("FRONTEND_URL")
	_ = viper.BindEnv("RESEND_API_KEY")
	_ = viper.BindEnv("SUPPORT_EMAIL")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		// If the config file is not found, we can ignore the error.
		// For other errors, we should return them.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}
	config.FrontendURL = strings.TrimRight(strings.TrimSpace(config.FrontendURL), "/")
	config.SupabaseURL = strings.TrimRight(strings.TrimSpace(config.SupabaseURL), "/")
	config.RedisURL = strings.TrimSpace(config.RedisURL)
	if strings.TrimSpace(config.SupportEmail) == "" {
		config.SupportEmail = "support@migrent.com.au"
	}

	return
}

// Validate fails fast when a secret required for core operation is missing.
// Optional collaborators (Redis, RabbitMQ, Resend) are allowed to be absent.
func (c Config) Validate() error {
	required := map[string]string{
		"DATABASE_URL":              c.DatabaseURL,
		"SUPABASE_URL":              c.SupabaseURL,
		"SUPABASE_ANON_KEY":         c.SupabaseAnonKey,
		"SUPABASE_SERVICE_ROLE_KEY": c.SupabaseServiceRoleKey,
		"SUPABASE_JWT_SECRET":       c.SupabaseJWTSecret,
		"STRIPE_SECRET_KEY":         c.StripeSecretKey,
		"STRIPE_WEBHOOK_SECRET":     c.StripeWebhookSecret,
	}

	var missing []string
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// CheckoutSuccessURL is where Stripe redirects after a completed checkout.
// The session id placeholder is substituted by Stripe.
func (c Config) CheckoutSuccessURL() string {
	return c.FrontendURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}"
}

// CheckoutCancelURL is where Stripe redirects after an abandoned checkout.
func (c Config) CheckoutCancelURL() string {
	return c.FrontendURL + "/payment-cancelled"
}
