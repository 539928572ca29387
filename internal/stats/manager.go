package stats

import (
	"context"
	"log/slog"

	"github.com/fjordlab/afkwatch/internal/clock"
	"github.com/fjordlab/afkwatch/internal/config"
	"github.com/fjordlab/afkwatch/internal/discord"
	"github.com/fjordlab/afkwatch/internal/repository"
	"github.com/fjordlab/afkwatch/internal/tracker"
)

// Manager turns gateway events into aggregate updates and answers the
// activity queries. It owns the in-memory session tracker; all persisted
// state lives behind the repository.
type Manager struct {
	cfg       *config.Config
	repo      repository.Repository
	discord   discord.Client
	clock     clock.Clock
	sessions  *tracker.Tracker
	botUserID string
}

func NewManager(cfg *config.Config, repo repository.Repository, dc discord.Client, clk clock.Clock) *Manager {
	return &Manager{
		cfg:      cfg,
		repo:     repo,
		discord:  dc,
		clock:    clk,
		sessions: tracker.New(),
	}
}

// SetBotUserID records the bot's own user id so its events are never counted.
func (m *Manager) SetBotUserID(userID string) {
	m.botUserID = userID
}

// Resume reconciles persisted open voice sessions against the live guild
// roster after a restart. A session whose user still occupies its channel is
// reloaded into the tracker with the original join time and credited on the
// next leave. A session whose user left or moved while the bot was down is
// discarded: the departure time is unknown, so no time is credited and the
// stale row is deleted.
func (m *Manager) Resume(ctx context.Context) error {
	open, err := m.repo.ListOpenSessions(ctx)
	if err != nil {
		return err
	}
	resumed, discarded := 0, 0
	for _, s := range open {
		channelID, err := m.discord.VoiceChannelOf(m.cfg.DiscordGuildID, s.UserID)
		if err != nil {
			return err
		}
		if channelID != s.ChannelID {
			if err := m.repo.CloseVoiceSession(ctx, s.UserID, s.ChannelID, 0); err != nil {
				return err
			}
			slog.Warn("discarded stale voice session", "user_id", s.UserID, "channel_id", s.ChannelID)
			discarded++
			continue
		}
		m.sessions.Open(s.UserID, s.ChannelID, m.clock.In(s.JoinTime))
		resumed++
	}
	if resumed > 0 || discarded > 0 {
		slog.Info("reconciled persisted voice sessions", "resumed", resumed, "discarded", discarded)
	}
	return nil
}

// HandleMessage records the author's activity and increments the per-channel
// message counter. A storage failure drops this event only.
func (m *Manager) HandleMessage(event discord.MessageEvent) {
	if event.GuildID != m.cfg.DiscordGuildID {
		return
	}
	if m.isBot(event.AuthorID, event.AuthorIsBot) {
		return
	}
	at := m.clock.In(event.Timestamp)
	ctx := context.Background()
	if err := m.repo.RecordMessage(ctx, event.AuthorID, event.ChannelID, at); err != nil {
		slog.Error("failed to record message", "error", err, "user_id", event.AuthorID, "channel_id", event.ChannelID)
	}
}

// HandleReaction records the reacting user's activity. Reactions do not
// affect any channel counter.
func (m *Manager) HandleReaction(event discord.ReactionEvent) {
	if event.GuildID != m.cfg.DiscordGuildID {
		return
	}
	if m.isBot(event.UserID, event.UserIsBot) {
		return
	}
	ctx := context.Background()
	if err := m.repo.RecordActivity(ctx, event.UserID, m.clock.Now()); err != nil {
		slog.Error("failed to record reaction activity", "error", err, "user_id", event.UserID)
	}
}

// HandleVoiceStateUpdate closes the session on the channel being left and
// opens one on the channel being joined, unless the target is the AFK
// channel. A leave with no tracked session credits zero and is not an error.
func (m *Manager) HandleVoiceStateUpdate(event discord.VoiceStateEvent) {
	if event.GuildID != m.cfg.DiscordGuildID {
		return
	}
	if m.isBot(event.UserID, event.UserIsBot) {
		return
	}
	if event.BeforeChannelID == event.AfterChannelID {
		return
	}
	now := m.clock.Now()
	ctx := context.Background()

	if event.BeforeChannelID != "" && event.BeforeChannelID != m.cfg.AFKChannelID {
		elapsed, found := m.sessions.Close(event.UserID, event.BeforeChannelID, now)
		if !found {
			slog.Warn("voice leave without tracked session", "user_id", event.UserID, "channel_id", event.BeforeChannelID)
		}
		if err := m.repo.CloseVoiceSession(ctx, event.UserID, event.BeforeChannelID, elapsed.Seconds()); err != nil {
			slog.Error("failed to close voice session", "error", err, "user_id", event.UserID, "channel_id", event.BeforeChannelID)
		}
	}

	if event.AfterChannelID != "" && event.AfterChannelID != m.cfg.AFKChannelID {
		m.sessions.Open(event.UserID, event.AfterChannelID, now)
		if err := m.repo.OpenVoiceSession(ctx, event.UserID, event.AfterChannelID, now); err != nil {
			slog.Error("failed to open voice session", "error", err, "user_id", event.UserID, "channel_id", event.AfterChannelID)
		}
	}
}

func (m *Manager) isBot(userID string, flagged bool) bool {
	if flagged {
		return true
	}
	return m.botUserID != "" && userID == m.botUserID
}
