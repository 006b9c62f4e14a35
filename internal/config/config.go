package config

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the dispatch service.
type Config struct {
	// Env is the current environment: local, development, production.
	Env string `validate:"required"`
	// Port is the HTTP API port.
	Port int `validate:"min=1,max=65535"`
	// Source selects where datasets are loaded from: excel or postgres.
	Source string `validate:"oneof=excel postgres"`
	// Customers and Technicians are workbook paths or table names.
	Customers   string `validate:"required"`
	Technicians string `validate:"required"`
	// Sheet is the worksheet to read, the first one when empty.
	Sheet string
	// RadiusKm is the default coverage radius.
	RadiusKm float64 `validate:"gte=0"`
	// SpeedKmh is the default average travel speed.
	SpeedKmh float64 `validate:"gt=0"`
	// RequestTimeout bounds the processing of one API request.
	RequestTimeout time.Duration `validate:"gt=0"`
	// Geocoder configures the fallback for rows without coordinates.
	Geocoder GeocoderConfig
	// Database is only checked when Source is postgres.
	Database PostgresConfig `validate:"-"`
}

// GeocoderConfig holds the geocoding fallback settings.
type GeocoderConfig struct {
	Provider string `validate:"oneof=none google nominatim"` // Provider specifies which geocoding provider to use.
	APIKey   string `validate:"required_if=Provider google"` // APIKey is required for Google.
	Region   string `validate:"omitempty,len=2"`             // Region is the country bias sent with each request.
	Workers  int    `validate:"min=1"`                       // Workers is the number of concurrent geocoding workers.
	Rate     int    `validate:"min=1"`                       // Rate is the request rate limit, per second.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `validate:"required"` // Host is the database server address.
	Port     string `validate:"required"` // Port is the database server port.
	User     string `validate:"-"`        // User is the database user.
	Password string `validate:"-"`        // Password is the database user's password.
	Name     string `validate:"required"` // Name is the name of the database.
}

// MustLoad reads the configuration from the environment and panics when a
// value is malformed or the result fails validation. A .env file in the
// working directory is read first when present; real environment variables
// take precedence over it.
func MustLoad() *Config {
	env := viper.New()
	env.SetConfigFile(".env")
	env.SetConfigType("env")
	_ = env.ReadInConfig()
	env.AutomaticEnv()

	env.SetDefault("MERIDIAN_ENV", "production")
	env.SetDefault("MERIDIAN_PORT", "8080")
	env.SetDefault("MERIDIAN_SOURCE", "excel")
	env.SetDefault("MERIDIAN_CUSTOMERS", "clientes.xlsx")
	env.SetDefault("MERIDIAN_TECHNICIANS", "tecnicos.xlsx")
	env.SetDefault("MERIDIAN_SHEET", "")
	env.SetDefault("MERIDIAN_RADIUS_KM", "200")
	env.SetDefault("MERIDIAN_SPEED_KMH", "80")
	env.SetDefault("MERIDIAN_REQUEST_TIMEOUT", "30s")
	env.SetDefault("MERIDIAN_GEOCODER", "none")
	env.SetDefault("MERIDIAN_GEOCODER_KEY", "")
	env.SetDefault("MERIDIAN_GEOCODER_REGION", "br")
	env.SetDefault("MERIDIAN_GEOCODER_WORKERS", "4")
	env.SetDefault("MERIDIAN_GEOCODER_RATE", "1")
	env.SetDefault("DB_PORT", "5432")

	port, err := strconv.Atoi(env.GetString("MERIDIAN_PORT"))
	if err != nil {
		panic("failed to parse port for http server from configuration")
	}

	radius, err := strconv.ParseFloat(env.GetString("MERIDIAN_RADIUS_KM"), 64)
	if err != nil {
		panic("failed to parse coverage radius from configuration")
	}

	speed, err := strconv.ParseFloat(env.GetString("MERIDIAN_SPEED_KMH"), 64)
	if err != nil {
		panic("failed to parse average speed from configuration")
	}

	timeout, err := time.ParseDuration(env.GetString("MERIDIAN_REQUEST_TIMEOUT"))
	if err != nil {
		panic("failed to parse request timeout from configuration")
	}

	workers, err := strconv.Atoi(env.GetString("MERIDIAN_GEOCODER_WORKERS"))
	if err != nil {
		panic("failed to parse geocoder workers from configuration, must be an integer types")
	}

	rate, err := strconv.Atoi(env.GetString("MERIDIAN_GEOCODER_RATE"))
	if err != nil {
		panic("failed to parse geocoder rate from configuration, must be an integer types")
	}

	cfg := &Config{
		Env:            env.GetString("MERIDIAN_ENV"),
		Port:           port,
		Source:         env.GetString("MERIDIAN_SOURCE"),
		Customers:      env.GetString("MERIDIAN_CUSTOMERS"),
		Technicians:    env.GetString("MERIDIAN_TECHNICIANS"),
		Sheet:          env.GetString("MERIDIAN_SHEET"),
		RadiusKm:       radius,
		SpeedKmh:       speed,
		RequestTimeout: timeout,
		Geocoder: GeocoderConfig{
			Provider: env.GetString("MERIDIAN_GEOCODER"),
			APIKey:   env.GetString("MERIDIAN_GEOCODER_KEY"),
			Region:   env.GetString("MERIDIAN_GEOCODER_REGION"),
			Workers:  workers,
			Rate:     rate,
		},
		Database: PostgresConfig{
			Host:     env.GetString("DB_HOST"),
			Port:     env.GetString("DB_PORT"),
			User:     env.GetString("DB_USERNAME"),
			Password: env.GetString("DB_PASSWORD"),
			Name:     env.GetString("DB_NAME"),
		},
	}

	if err = cfg.Validate(); err != nil {
		panic("invalid configuration: " + err.Error())
	}

	return cfg
}

// Validate checks the value constraints declared on the struct fields.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Source == "postgres" {
		return validate.Struct(c.Database)
	}

	return nil
}
