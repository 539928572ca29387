package stats

import (
	"context"
	"log/slog"

	"github.com/fjordlab/afkwatch/internal/discord"
)

const (
	commandAFK   = "afk"
	commandStats = "stats"
	commandTop   = "top"

	commandUserOptionName = "user"
)

func SlashCommandDefinitions() []discord.SlashCommandDefinition {
	return []discord.SlashCommandDefinition{
		{
			Name:        commandAFK,
			Description: "Show how long a member has been inactive.",
			UserOptions: []discord.SlashCommandOption{
				{Name: commandUserOptionName, Description: "Member to look up, defaults to you."},
			},
		},
		{
			Name:        commandStats,
			Description: "Show a member's top channels and totals.",
			UserOptions: []discord.SlashCommandOption{
				{Name: commandUserOptionName, Description: "Member to look up, defaults to you."},
			},
		},
		{
			Name:        commandTop,
			Description: "Show the server's top channels.",
		},
	}
}

func (m *Manager) HandleSlashCommand(event discord.SlashCommandEvent) {
	if event.GuildID != m.cfg.DiscordGuildID {
		m.respond(event, messageWrongGuild)
		return
	}
	targetUserID := event.TargetUserID
	if targetUserID == "" {
		targetUserID = event.UserID
	}
	ctx := context.Background()

	switch event.CommandName {
	case commandAFK:
		report, err := m.Inactivity(ctx, targetUserID)
		if err != nil {
			slog.Error("inactivity query failed", "error", err, "user_id", targetUserID)
			m.respond(event, messageQueryFailed)
			return
		}
		m.respond(event, m.afkResponse(report))
	case commandStats:
		report, err := m.UserStats(ctx, targetUserID, m.cfg.TopChannelCount)
		if err != nil {
			slog.Error("user stats query failed", "error", err, "user_id", targetUserID)
			m.respond(event, messageQueryFailed)
			return
		}
		m.respond(event, m.statsResponse(report))
	case commandTop:
		report, err := m.ServerTop(ctx, m.cfg.TopChannelCount)
		if err != nil {
			slog.Error("server top query failed", "error", err)
			m.respond(event, messageQueryFailed)
			return
		}
		m.respond(event, m.topResponse(report))
	default:
		m.respond(event, messageUnknownCommand)
	}
}

func (m *Manager) respond(event discord.SlashCommandEvent, content string) {
	if event.Respond == nil {
		return
	}
	if err := event.Respond(content); err != nil {
		slog.Error("failed to respond to slash command", "error", err, "command", event.CommandName)
	}
}
