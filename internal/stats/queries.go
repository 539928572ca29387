package stats

import (
	"context"
	"sort"
	"time"
)

type OpenSessionInfo struct {
	ChannelID string
	JoinedAt  time.Time
}

type InactivityReport struct {
	UserID      string
	LastActive  *time.Time
	Inactivity  time.Duration
	OpenSession *OpenSessionInfo
}

type ChannelSeconds struct {
	ChannelID string
	Seconds   float64
}

type ChannelMessages struct {
	ChannelID string
	Messages  int64
}

type UserStatsReport struct {
	UserID            string
	TopVoice          []ChannelSeconds
	TopMessages       []ChannelMessages
	TotalVoiceSeconds float64
	TotalMessages     int64
}

type ServerTopReport struct {
	TopVoice    []ChannelSeconds
	TopMessages []ChannelMessages
}

// Inactivity reports how long the user has been away. A user with no
// activity row reports LastActive nil. When the user holds an open voice
// session its channel and join time are included.
func (m *Manager) Inactivity(ctx context.Context, userID string) (InactivityReport, error) {
	report := InactivityReport{UserID: userID}

	ua, err := m.repo.GetLastActivity(ctx, userID)
	if err != nil {
		return report, err
	}
	now := m.clock.Now()
	if ua != nil {
		lastActive := m.clock.In(ua.LastActivityTime)
		report.LastActive = &lastActive
		report.Inactivity = now.Sub(lastActive)
	}

	if channelID, joinedAt, ok := m.sessions.OpenChannelOf(userID); ok {
		report.OpenSession = &OpenSessionInfo{
			ChannelID: channelID,
			JoinedAt:  m.clock.In(joinedAt),
		}
	}
	return report, nil
}

// UserStats ranks the user's channels by voice time and message count. Voice
// totals reconcile the persisted closed seconds with the live duration of an
// open session. A user with no rows reports zeros, never an error.
func (m *Manager) UserStats(ctx context.Context, userID string, topN int) (UserStatsReport, error) {
	report := UserStatsReport{UserID: userID}
	now := m.clock.Now()

	voiceRows, err := m.repo.ListVoiceTimesByUser(ctx, userID)
	if err != nil {
		return report, err
	}
	voice := make([]ChannelSeconds, 0, len(voiceRows))
	seenChannel := make(map[string]bool, len(voiceRows))
	for _, row := range voiceRows {
		seconds := row.Seconds + m.sessions.Peek(userID, row.ChannelID, now).Seconds()
		voice = append(voice, ChannelSeconds{ChannelID: row.ChannelID, Seconds: seconds})
		seenChannel[row.ChannelID] = true
	}
	// An open session may exist without a persisted row if the open-write was
	// lost; still surface its live duration.
	if channelID, _, ok := m.sessions.OpenChannelOf(userID); ok && !seenChannel[channelID] {
		voice = append(voice, ChannelSeconds{
			ChannelID: channelID,
			Seconds:   m.sessions.Peek(userID, channelID, now).Seconds(),
		})
	}
	sort.SliceStable(voice, func(i, j int) bool { return voice[i].Seconds > voice[j].Seconds })
	for _, v := range voice {
		report.TotalVoiceSeconds += v.Seconds
	}
	report.TopVoice = topChannelSeconds(voice, topN)

	messageRows, err := m.repo.ListMessageCountsByUser(ctx, userID)
	if err != nil {
		return report, err
	}
	messages := make([]ChannelMessages, 0, len(messageRows))
	for _, row := range messageRows {
		messages = append(messages, ChannelMessages{ChannelID: row.ChannelID, Messages: row.MessageCount})
		report.TotalMessages += row.MessageCount
	}
	report.TopMessages = topChannelMessages(messages, topN)

	return report, nil
}

// ServerTop ranks channels across all users. The live guild roster is
// authoritative for presence: every currently connected member adds their
// in-progress duration to their channel's total before ranking.
func (m *Manager) ServerTop(ctx context.Context, topN int) (ServerTopReport, error) {
	report := ServerTopReport{}
	now := m.clock.Now()

	voiceTotals, err := m.repo.SumVoiceTimeByChannel(ctx)
	if err != nil {
		return report, err
	}
	seconds := make(map[string]float64, len(voiceTotals))
	order := make([]string, 0, len(voiceTotals))
	for _, t := range voiceTotals {
		seconds[t.ChannelID] = t.Seconds
		order = append(order, t.ChannelID)
	}

	occupants, err := m.discord.ListVoiceOccupants(m.cfg.DiscordGuildID)
	if err != nil {
		return report, err
	}
	for _, o := range occupants {
		if o.IsBot || o.ChannelID == m.cfg.AFKChannelID {
			continue
		}
		if m.isBot(o.UserID, false) {
			continue
		}
		live := m.sessions.Peek(o.UserID, o.ChannelID, now).Seconds()
		if live <= 0 {
			continue
		}
		if _, ok := seconds[o.ChannelID]; !ok {
			order = append(order, o.ChannelID)
		}
		seconds[o.ChannelID] += live
	}

	voice := make([]ChannelSeconds, 0, len(order))
	for _, channelID := range order {
		voice = append(voice, ChannelSeconds{ChannelID: channelID, Seconds: seconds[channelID]})
	}
	sort.SliceStable(voice, func(i, j int) bool { return voice[i].Seconds > voice[j].Seconds })
	report.TopVoice = topChannelSeconds(voice, topN)

	messageTotals, err := m.repo.SumMessageCountsByChannel(ctx)
	if err != nil {
		return report, err
	}
	messages := make([]ChannelMessages, 0, len(messageTotals))
	for _, t := range messageTotals {
		messages = append(messages, ChannelMessages{ChannelID: t.ChannelID, Messages: t.Messages})
	}
	report.TopMessages = topChannelMessages(messages, topN)

	return report, nil
}

func topChannelSeconds(list []ChannelSeconds, n int) []ChannelSeconds {
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	return list
}

func topChannelMessages(list []ChannelMessages, n int) []ChannelMessages {
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	return list
}
