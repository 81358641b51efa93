package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port string

	MatchDuration   time.Duration
	JoinTimeout     time.Duration
	RetentionWindow time.Duration
	QuestionCount   int

	BasePoints      int
	DisconnectBonus int

	WinRatingDelta  int
	LossRatingDelta int

	// AuthSecret enables HMAC bearer-token authentication on the
	// websocket upgrade when set. Empty means payload playerIds are
	// trusted as-is.
	AuthSecret string

	AwsRegion             string
	MatchResultsTableName string
	PlayerStatsTableName  string
}

// DefaultConfig returns the built-in tunables without reading any file.
// Tests start from this and override individual fields.
func DefaultConfig() Config {
	return Config{
		Port:                  "8080",
		MatchDuration:         600 * time.Second,
		JoinTimeout:           30 * time.Second,
		RetentionWindow:       60 * time.Second,
		QuestionCount:         3,
		BasePoints:            100,
		DisconnectBonus:       500,
		WinRatingDelta:        10,
		LossRatingDelta:       -5,
		MatchResultsTableName: "MatchResults",
		PlayerStatsTableName:  "PlayerStats",
	}
}

// NewConfig loads configs/server/config.yaml over the defaults, with
// environment variables taking final precedence.
func NewConfig() Config {
	defaults := DefaultConfig()

	viper.SetDefault("Server.Port", defaults.Port)
	viper.SetDefault("Match.Duration", defaults.MatchDuration)
	viper.SetDefault("Match.JoinTimeout", defaults.JoinTimeout)
	viper.SetDefault("Match.RetentionWindow", defaults.RetentionWindow)
	viper.SetDefault("Match.QuestionCount", defaults.QuestionCount)
	viper.SetDefault("Scoring.BasePoints", defaults.BasePoints)
	viper.SetDefault("Scoring.DisconnectBonus", defaults.DisconnectBonus)
	viper.SetDefault("Stats.WinRatingDelta", defaults.WinRatingDelta)
	viper.SetDefault("Stats.LossRatingDelta", defaults.LossRatingDelta)
	viper.SetDefault("Storage.MatchResultsTable", defaults.MatchResultsTableName)
	viper.SetDefault("Storage.PlayerStatsTable", defaults.PlayerStatsTableName)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs/server")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	return Config{
		Port:                  viper.GetString("Server.Port"),
		MatchDuration:         viper.GetDuration("Match.Duration"),
		JoinTimeout:           viper.GetDuration("Match.JoinTimeout"),
		RetentionWindow:       viper.GetDuration("Match.RetentionWindow"),
		QuestionCount:         viper.GetInt("Match.QuestionCount"),
		BasePoints:            viper.GetInt("Scoring.BasePoints"),
		DisconnectBonus:       viper.GetInt("Scoring.DisconnectBonus"),
		WinRatingDelta:        viper.GetInt("Stats.WinRatingDelta"),
		LossRatingDelta:       viper.GetInt("Stats.LossRatingDelta"),
		AuthSecret:            viper.GetString("AUTH_SECRET"),
		AwsRegion:             viper.GetString("AWS_REGION"),
		MatchResultsTableName: viper.GetString("Storage.MatchResultsTable"),
		PlayerStatsTableName:  viper.GetString("Storage.PlayerStatsTable"),
	}
}
