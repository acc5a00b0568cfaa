package config

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	JWT      JWT
	Scoring  Scoring
	// Organizations whose learners are identified by mobile number in CSV
	// templates instead of a free-form user id.
	MobileIdentifierOrgs []string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type JWT struct {
	Secret          string
	AccessTTLMins   int
	RefreshTTLHours int
}

type Scoring struct {
	// Optional path to a scoring-table file; compiled-in defaults are used
	// when empty.
	File string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("JWT_ACCESS_TTL_MINS", 60)
	viper.SetDefault("JWT_REFRESH_TTL_HOURS", 24)
	viper.SetDefault("MOBILE_IDENTIFIER_ORGS", []string{"immertive"})

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.JWT.Secret = viper.GetString("JWT_SECRET")
	config.JWT.AccessTTLMins = viper.GetInt("JWT_ACCESS_TTL_MINS")
	config.JWT.RefreshTTLHours = viper.GetInt("JWT_REFRESH_TTL_HOURS")

	config.Scoring.File = viper.GetString("SCORING_TABLE_FILE")
	config.MobileIdentifierOrgs = viper.GetStringSlice("MOBILE_IDENTIFIER_ORGS")

	log.Info().Str("port", config.Server.Port).Str("database", config.Database.Name).Msg("Config loaded")
	return &config, nil
}

// UsesMobileIdentifiers reports whether the named organization follows the
// mobile-number-as-identifier convention for its learner accounts.
func (c *Config) UsesMobileIdentifiers(orgName string) bool {
	for _, name := range c.MobileIdentifierOrgs {
		if strings.EqualFold(name, orgName) {
			return true
		}
	}
	return false
}
