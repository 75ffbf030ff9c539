package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Strapi   StrapiConfig
	Txgen    TxgenConfig
}

type ServerConfig struct {
	Port            string
	FrontendOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type StrapiConfig struct {
	URL      string
	Identity string
	Password string
}

type TxgenConfig struct {
	Schedule string
}

// DSN builds a pgx connection string from the POSTGRES_* settings.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

func NewConfig() (*Config, error) {
	// Configure Viper to read .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// Enable automatic environment variable loading
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8000")
	viper.SetDefault("FRONTEND_ORIGINS", "")
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", "5432")
	viper.SetDefault("POSTGRES_DB", "statsdb")
	viper.SetDefault("POSTGRES_USER", "devuser")
	viper.SetDefault("POSTGRES_PASSWORD", "devpass")
	viper.SetDefault("TXGEN_SCHEDULE", "")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config
	config.Server.Port = viper.GetString("SERVER_PORT")

	origins := viper.GetString("FRONTEND_ORIGINS")
	for _, o := range strings.Split(origins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			config.Server.FrontendOrigins = append(config.Server.FrontendOrigins, o)
		}
	}

	config.Database.Host = viper.GetString("POSTGRES_HOST")
	config.Database.Port = viper.GetString("POSTGRES_PORT")
	config.Database.User = viper.GetString("POSTGRES_USER")
	config.Database.Password = viper.GetString("POSTGRES_PASSWORD")
	config.Database.Name = viper.GetString("POSTGRES_DB")

	config.Strapi.URL = viper.GetString("STRAPIURL")
	config.Strapi.Identity = viper.GetString("STRAPIID")
	config.Strapi.Password = viper.GetString("STRAPIPW")

	config.Txgen.Schedule = viper.GetString("TXGEN_SCHEDULE")

	log.Info().Str("server_port", config.Server.Port).
		Strs("frontend_origins", config.Server.FrontendOrigins).
		Str("db_host", config.Database.Host).
		Str("db_name", config.Database.Name).
		Msg("Config loaded")
	return &config, nil
}
