package repository

import (
	"context"
	"time"
)

// ActivityRepository owns the per-user last-seen timestamp and per-channel
// message counters. Each method applies its writes in a single transaction so
// one gateway event can never be half-recorded.
type ActivityRepository interface {
	// RecordActivity upserts the user's last activity time, last write wins.
	RecordActivity(ctx context.Context, userID string, at time.Time) error
	// RecordMessage upserts the last activity time and increments the
	// (user, channel) message counter by one, atomically.
	RecordMessage(ctx context.Context, userID, channelID string, at time.Time) error
	GetLastActivity(ctx context.Context, userID string) (*UserActivity, error)
	// ListMessageCountsByUser returns the user's per-channel counters ordered
	// by count descending, channel id ascending on ties. Callers rank by
	// truncating, so the ordering is part of the contract.
	ListMessageCountsByUser(ctx context.Context, userID string) ([]ChannelMessageCount, error)
	// SumMessageCountsByChannel returns channel-wide counter totals in the
	// same order as ListMessageCountsByUser.
	SumMessageCountsByChannel(ctx context.Context) ([]ChannelTotal, error)
}

// VoiceRepository owns voice session rows and closed-time totals.
type VoiceRepository interface {
	// OpenVoiceSession persists the open session row, touches the user's
	// activity and ensures a zero voice_time row exists, atomically.
	OpenVoiceSession(ctx context.Context, userID, channelID string, joinedAt time.Time) error
	// CloseVoiceSession deletes the open session row (if any) and credits the
	// elapsed seconds to the (user, channel) total, atomically.
	CloseVoiceSession(ctx context.Context, userID, channelID string, seconds float64) error
	// ListOpenSessions returns every persisted open session, used to resume
	// in-progress tracking after a restart.
	ListOpenSessions(ctx context.Context) ([]OpenVoiceSession, error)
	// ListVoiceTimesByUser returns the user's closed per-channel totals
	// ordered by seconds descending, channel id ascending on ties.
	ListVoiceTimesByUser(ctx context.Context, userID string) ([]VoiceChannelTime, error)
	// SumVoiceTimeByChannel returns channel-wide closed totals in the same
	// order as ListVoiceTimesByUser.
	SumVoiceTimeByChannel(ctx context.Context) ([]ChannelTotal, error)
}

type Repository interface {
	ActivityRepository
	VoiceRepository
}
