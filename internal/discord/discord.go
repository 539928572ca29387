package discord

import (
	"context"
	"time"
)

type MessageEvent struct {
	GuildID     string
	ChannelID   string
	AuthorID    string
	AuthorIsBot bool
	Timestamp   time.Time
}

type ReactionEvent struct {
	GuildID   string
	UserID    string
	UserIsBot bool
}

type VoiceStateEvent struct {
	GuildID         string
	UserID          string
	UserIsBot       bool
	BeforeChannelID string
	AfterChannelID  string
}

// VoiceOccupant is a member currently connected to a voice channel according
// to the live guild roster.
type VoiceOccupant struct {
	UserID    string
	ChannelID string
	IsBot     bool
}

type SlashCommandOption struct {
	Name        string
	Description string
}

type SlashCommandDefinition struct {
	Name        string
	Description string
	// UserOptions are optional user-typed options, e.g. the member a stats
	// command targets.
	UserOptions []SlashCommandOption
}

type SlashCommandEvent struct {
	GuildID     string
	ChannelID   string
	CommandName string
	UserID      string
	// TargetUserID is the resolved user option when provided, empty otherwise.
	TargetUserID string
	Respond      func(content string) error
}

type Client interface {
	Connect(ctx context.Context) error
	Close() error
	RegisterMessageHandler(handler func(MessageEvent))
	RegisterReactionHandler(handler func(ReactionEvent))
	RegisterVoiceStateUpdateHandler(handler func(VoiceStateEvent))
	RegisterSlashCommandHandler(handler func(SlashCommandEvent))
	UpsertGuildSlashCommands(guildID string, defs []SlashCommandDefinition) error
	GetBotUserID() (string, error)
	// VoiceChannelOf reports the voice channel the user currently occupies,
	// empty when not connected.
	VoiceChannelOf(guildID, userID string) (string, error)
	// ListVoiceOccupants returns everyone currently connected to any voice
	// channel in the guild. The roster is authoritative for presence.
	ListVoiceOccupants(guildID string) ([]VoiceOccupant, error)
	// ChannelName resolves a channel id to its display name, falling back to
	// the id when it cannot be resolved.
	ChannelName(channelID string) string
	// MemberName resolves a user id to a display name, falling back to the id.
	MemberName(guildID, userID string) string
	SendChannelMessage(channelID, content string) error
	Run() error
}
