package stats

import (
	"fmt"
	"strings"
	"time"
)

const (
	messageNeverActiveFormat  = "🔍 %s hasn't been active yet."
	messageInactiveForFormat  = "⏰ %s has been inactive for %dd %dh %dm."
	messageInVoiceSinceFormat = "🎧 %s is in %s since %s."

	messageStatsHeaderFormat = "📊 Stats for %s"
	messageServerTopHeader   = "📊 Server top channels"
	messageTotalVoiceFormat  = "Voice: %s total"
	messageTotalMsgsFormat   = "Messages: %d total"
	messageTopVoiceTitle     = "Top voice channels:"
	messageTopMessagesTitle  = "Top message channels:"
	messageNoVoiceTime       = "No voice time recorded yet."
	messageNoMessages        = "No messages recorded yet."

	messageWrongGuild     = "⚠️ This command is not available in this server."
	messageUnknownCommand = "⚠️ Unknown command."
	messageQueryFailed    = "⚠️ Something went wrong fetching statistics."
)

var rankDecorations = []string{"🥇", "🥈", "🥉"}

func rankDecoration(rank int) string {
	if rank < len(rankDecorations) {
		return rankDecorations[rank]
	}
	return fmt.Sprintf("#%d", rank+1)
}

// formatInactivity decomposes a duration into whole days, hours and minutes.
func formatInactivity(d time.Duration) (days, hours, minutes int64) {
	total := int64(d.Seconds())
	days = total / 86400
	remainder := total % 86400
	hours = remainder / 3600
	minutes = (remainder % 3600) / 60
	return days, hours, minutes
}

func formatVoiceSeconds(seconds float64) string {
	total := int64(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

func formatJoinTime(t time.Time) string {
	return t.Format("15:04:05")
}

func (m *Manager) afkResponse(report InactivityReport) string {
	name := m.discord.MemberName(m.cfg.DiscordGuildID, report.UserID)
	var b strings.Builder
	if report.LastActive == nil {
		fmt.Fprintf(&b, messageNeverActiveFormat, name)
	} else {
		days, hours, minutes := formatInactivity(report.Inactivity)
		fmt.Fprintf(&b, messageInactiveForFormat, name, days, hours, minutes)
	}
	if report.OpenSession != nil {
		channelName := m.discord.ChannelName(report.OpenSession.ChannelID)
		b.WriteString("\n")
		fmt.Fprintf(&b, messageInVoiceSinceFormat, name, channelName, formatJoinTime(report.OpenSession.JoinedAt))
	}
	return b.String()
}

func (m *Manager) statsResponse(report UserStatsReport) string {
	name := m.discord.MemberName(m.cfg.DiscordGuildID, report.UserID)
	var b strings.Builder
	fmt.Fprintf(&b, messageStatsHeaderFormat, name)
	b.WriteString("\n")
	fmt.Fprintf(&b, messageTotalVoiceFormat, formatVoiceSeconds(report.TotalVoiceSeconds))
	b.WriteString("\n")
	b.WriteString(m.voiceRanking(report.TopVoice))
	b.WriteString("\n")
	fmt.Fprintf(&b, messageTotalMsgsFormat, report.TotalMessages)
	b.WriteString("\n")
	b.WriteString(m.messageRanking(report.TopMessages))
	return b.String()
}

func (m *Manager) topResponse(report ServerTopReport) string {
	var b strings.Builder
	b.WriteString(messageServerTopHeader)
	b.WriteString("\n")
	b.WriteString(m.voiceRanking(report.TopVoice))
	b.WriteString("\n")
	b.WriteString(m.messageRanking(report.TopMessages))
	return b.String()
}

func (m *Manager) voiceRanking(top []ChannelSeconds) string {
	if len(top) == 0 {
		return messageNoVoiceTime
	}
	lines := make([]string, 0, len(top)+1)
	lines = append(lines, messageTopVoiceTitle)
	for i, entry := range top {
		lines = append(lines, fmt.Sprintf("%s %s: %s", rankDecoration(i), m.discord.ChannelName(entry.ChannelID), formatVoiceSeconds(entry.Seconds)))
	}
	return strings.Join(lines, "\n")
}

func (m *Manager) messageRanking(top []ChannelMessages) string {
	if len(top) == 0 {
		return messageNoMessages
	}
	lines := make([]string, 0, len(top)+1)
	lines = append(lines, messageTopMessagesTitle)
	for i, entry := range top {
		lines = append(lines, fmt.Sprintf("%s %s: %d", rankDecoration(i), m.discord.ChannelName(entry.ChannelID), entry.Messages))
	}
	return strings.Join(lines, "\n")
}
