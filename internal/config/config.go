/**
 * @description
 * This package handles the configuration management for the
 * cancellation-service. It uses the Viper library to read configuration from
 * environment variables (with an optional .env file), providing a
 * centralized and straightforward way to manage application settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */
package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the cancellation-service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort          string `mapstructure:"SERVER_PORT"`
	CRMAPIBaseURL       string `mapstructure:"CRM_API_BASE_URL"`
	CRMAPIKey           string `mapstructure:"CRM_API_KEY"`
	CRMLocationID       string `mapstructure:"CRM_LOCATION_ID"`
	StripeSecretKey     string `mapstructure:"STRIPE_SECRET_KEY"`
	RabbitMQURL         string `mapstructure:"RABBITMQ_URL"`
	CancelEventExchange string `mapstructure:"CANCEL_EVENT_EXCHANGE"`
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
	viper.SetDefault("CRM_API_BASE_URL", "https://rest.gohighlevel.com")
	viper.SetDefault("CANCEL_EVENT_EXCHANGE", "subscription.events")

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("CRM_API_BASE_URL")
	_ = viper.BindEnv("CRM_API_KEY")
	_ = viper.BindEnv("CRM_LOCATION_ID")
	_ = viper.BindEnv("STRIPE_SECRET_KEY")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("CANCEL_EVENT_EXCHANGE")

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

	// Platform-provided PORT wins over SERVER_PORT.
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}
	config.CRMAPIBaseURL = strings.TrimRight(strings.TrimSpace(config.CRMAPIBaseURL), "/")
	config.CRMAPIKey = strings.TrimSpace(config.CRMAPIKey)
	config.StripeSecretKey = strings.TrimSpace(config.StripeSecretKey)

	return
}
