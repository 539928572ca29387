package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/fjordlab/afkwatch/internal/config"
)

type envConfig struct {
	Env             string `env:"ENV" envDefault:"production"`
	DiscordToken    string `env:"DISCORD_TOKEN,required"`
	DiscordGuildID  string `env:"DISCORD_GUILD_ID,required"`
	AFKChannelID    string `env:"AFK_CHANNEL_ID"`
	DatabaseURL     string `env:"DATABASE_URL,required"`
	Timezone        string `env:"TIMEZONE" envDefault:"Europe/Oslo"`
	TopChannelCount int    `env:"TOP_CHANNEL_COUNT" envDefault:"3"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:             raw.Env,
		DiscordToken:    raw.DiscordToken,
		DiscordGuildID:  raw.DiscordGuildID,
		AFKChannelID:    raw.AFKChannelID,
		DatabaseURL:     raw.DatabaseURL,
		Timezone:        raw.Timezone,
		TopChannelCount: raw.TopChannelCount,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
