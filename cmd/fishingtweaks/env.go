package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/faideww/fishing-tweaks/internal/automation"
	"github.com/faideww/fishing-tweaks/internal/fish"
	"github.com/joho/godotenv"
)

type Config struct {
	CatalogJson      string
	DiscordToken     string
	DevGuild         string
	DBPath           string
	PlayerId         string
	LogLevel         string
	CooldownStatsMin int
	CooldownStatsMax int
	Automation       automation.Options
}

func LoadConfig() (*Config, error) {
	// A missing .env is fine; the variables may come from the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return configFromEnv()
}

func configFromEnv() (*Config, error) {
	catalogJson := os.Getenv("CATALOG_JSON")
	if catalogJson == "" {
		return nil, fmt.Errorf("no CATALOG_JSON in environment")
	}

	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("no DISCORD_TOKEN in environment")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		return nil, fmt.Errorf("no DB_PATH in environment")
	}

	playerId := os.Getenv("PLAYER_ID")
	if playerId == "" {
		return nil, fmt.Errorf("no PLAYER_ID in environment")
	}

	opts := automation.DefaultOptions()
	var err error

	if opts.Thresholds.MinCatch, err = loadInt("MIN_CATCH_COUNT", opts.Thresholds.MinCatch); err != nil {
		return nil, err
	}
	if opts.Thresholds.MinPerfect, err = loadInt("MIN_PERFECT_COUNT", opts.Thresholds.MinPerfect); err != nil {
		return nil, err
	}
	if opts.BiteBuffer, err = loadFloat("BITE_BUFFER_MS", opts.BiteBuffer); err != nil {
		return nil, err
	}
	noticeSec, err := loadInt("NOTICE_COOLDOWN_SECONDS", int(opts.NoticeCooldown/time.Second))
	if err != nil {
		return nil, err
	}
	opts.NoticeCooldown = time.Duration(noticeSec) * time.Second

	flags := []struct {
		key string
		dst *bool
	}{
		{"FORCE_PERFECT", &opts.ForcePerfect},
		{"SKIP_WITH_TREASURE", &opts.SkipWithTreasure},
		{"ENABLE_AUTO_HOOK", &opts.EnableAutoHook},
		{"ENABLE_SKIP_MINIGAME", &opts.EnableSkipMinigame},
		{"ENABLE_AUTO_BAITING", &opts.EnableAutoBaiting},
		{"ENABLE_AUTO_TACKLING", &opts.EnableAutoTackling},
		{"ENABLE_GRAB_TREASURE", &opts.EnableGrabTreasure},
		{"ENABLE_SKIP_FISH_SHOWING", &opts.EnableSkipFishShowing},
	}
	for _, f := range flags {
		if *f.dst, err = loadBool(f.key, *f.dst); err != nil {
			return nil, err
		}
	}

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid automation config: %w", err)
	}

	cooldownStatsMin, err := loadInt("COOLDOWN_STATS_MIN", 5)
	if err != nil {
		return nil, err
	}
	cooldownStatsMax, err := loadInt("COOLDOWN_STATS_MAX", 5)
	if err != nil {
		return nil, err
	}
	if cooldownStatsMin < 0 || cooldownStatsMax < 0 {
		return nil, fmt.Errorf("stats cooldowns must not be negative")
	}

	return &Config{
		CatalogJson:      catalogJson,
		DiscordToken:     token,
		DevGuild:         os.Getenv("DEV_GUILD_ID"),
		DBPath:           dbPath,
		PlayerId:         playerId,
		LogLevel:         os.Getenv("LOG_LEVEL"),
		CooldownStatsMin: cooldownStatsMin,
		CooldownStatsMax: cooldownStatsMax,
		Automation:       opts,
	}, nil
}

func loadInt(key string, defValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func loadFloat(key string, defValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func loadBool(key string, defValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// Thresholds returns the skip-minigame gate.
func (c *Config) Thresholds() fish.Thresholds {
	return c.Automation.Thresholds
}
