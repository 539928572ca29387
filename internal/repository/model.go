package repository

import "time"

type UserActivity struct {
	UserID           string
	LastActivityTime time.Time
}

type ChannelMessageCount struct {
	UserID       string
	ChannelID    string
	MessageCount int64
}

type VoiceChannelTime struct {
	UserID    string
	ChannelID string
	// Seconds is closed time only; an in-progress session is reconciled at
	// query time from the tracker, never stored here.
	Seconds float64
}

type OpenVoiceSession struct {
	UserID    string
	ChannelID string
	JoinTime  time.Time
}

// ChannelTotal is a per-channel aggregate across all users.
type ChannelTotal struct {
	ChannelID string
	Seconds   float64
	Messages  int64
}
