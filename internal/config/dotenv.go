package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	DebateSeconds            int
	VoteSeconds              int
	RevealWindowSeconds      int
	MissionIntervalSeconds   int
	MissionsPerGame          int
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
}

func Default() Config {
	return Config{
		DebateSeconds:            300,
		VoteSeconds:              60,
		RevealWindowSeconds:      30,
		MissionIntervalSeconds:   300,
		MissionsPerGame:          4,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("DEBATE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DebateSeconds = value
		}
	}
	if raw := os.Getenv("VOTE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.VoteSeconds = value
		}
	}
	if raw := os.Getenv("REVEAL_WINDOW_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.RevealWindowSeconds = value
		}
	}
	if raw := os.Getenv("MISSION_INTERVAL_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.MissionIntervalSeconds = value
		}
	}
	if raw := os.Getenv("MISSIONS_PER_GAME"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.MissionsPerGame = value
		}
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSeconds = value
		}
	}
	return cfg
}

func (c Config) DebateDuration() time.Duration {
	return time.Duration(c.DebateSeconds) * time.Second
}

func (c Config) VoteDuration() time.Duration {
	return time.Duration(c.VoteSeconds) * time.Second
}

func (c Config) RevealWindow() time.Duration {
	return time.Duration(c.RevealWindowSeconds) * time.Second
}

func (c Config) MissionInterval() time.Duration {
	return time.Duration(c.MissionIntervalSeconds) * time.Second
}

func (c Config) ConnMaxLifetime() time.Duration {
	return time.Duration(c.DBConnMaxLifetimeSeconds) * time.Second
}

func (c Config) ConnMaxIdleTime() time.Duration {
	return time.Duration(c.DBConnMaxIdleTimeSeconds) * time.Second
}
