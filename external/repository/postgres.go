package repository

import (
	"context"
	"time"

	"github.com/fjordlab/afkwatch/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) RecordActivity(ctx context.Context, userID string, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_activity (user_id, last_activity_time)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET last_activity_time = EXCLUDED.last_activity_time`,
		userID, at)
	return err
}

func (r *PostgresRepository) RecordMessage(ctx context.Context, userID, channelID string, at time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO user_activity (user_id, last_activity_time)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET last_activity_time = EXCLUDED.last_activity_time`,
		userID, at); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO message_counts (user_id, channel_id, count)
		 VALUES ($1, $2, 1)
		 ON CONFLICT (user_id, channel_id) DO UPDATE SET count = message_counts.count + 1`,
		userID, channelID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PostgresRepository) GetLastActivity(ctx context.Context, userID string) (*repository.UserActivity, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT user_id, last_activity_time FROM user_activity WHERE user_id = $1`,
		userID)
	var ua repository.UserActivity
	if err := row.Scan(&ua.UserID, &ua.LastActivityTime); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &ua, nil
}

func (r *PostgresRepository) ListMessageCountsByUser(ctx context.Context, userID string) ([]repository.ChannelMessageCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT channel_id, count FROM message_counts
		 WHERE user_id = $1 ORDER BY count DESC, channel_id ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.ChannelMessageCount
	for rows.Next() {
		var c repository.ChannelMessageCount
		if err := rows.Scan(&c.ChannelID, &c.MessageCount); err != nil {
			return nil, err
		}
		c.UserID = userID
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) SumMessageCountsByChannel(ctx context.Context) ([]repository.ChannelTotal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT channel_id, SUM(count) FROM message_counts
		 GROUP BY channel_id ORDER BY SUM(count) DESC, channel_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.ChannelTotal
	for rows.Next() {
		var t repository.ChannelTotal
		if err := rows.Scan(&t.ChannelID, &t.Messages); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) OpenVoiceSession(ctx context.Context, userID, channelID string, joinedAt time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO voice_open_sessions (user_id, channel_id, join_time)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, channel_id) DO UPDATE SET join_time = EXCLUDED.join_time`,
		userID, channelID, joinedAt); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO voice_time (user_id, channel_id, seconds)
		 VALUES ($1, $2, 0)
		 ON CONFLICT (user_id, channel_id) DO NOTHING`,
		userID, channelID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO user_activity (user_id, last_activity_time)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET last_activity_time = EXCLUDED.last_activity_time`,
		userID, joinedAt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PostgresRepository) CloseVoiceSession(ctx context.Context, userID, channelID string, seconds float64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM voice_open_sessions WHERE user_id = $1 AND channel_id = $2`,
		userID, channelID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO voice_time (user_id, channel_id, seconds)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, channel_id) DO UPDATE SET seconds = voice_time.seconds + EXCLUDED.seconds`,
		userID, channelID, seconds); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PostgresRepository) ListOpenSessions(ctx context.Context) ([]repository.OpenVoiceSession, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, channel_id, join_time FROM voice_open_sessions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.OpenVoiceSession
	for rows.Next() {
		var s repository.OpenVoiceSession
		if err := rows.Scan(&s.UserID, &s.ChannelID, &s.JoinTime); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) ListVoiceTimesByUser(ctx context.Context, userID string) ([]repository.VoiceChannelTime, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT channel_id, seconds FROM voice_time
		 WHERE user_id = $1 ORDER BY seconds DESC, channel_id ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.VoiceChannelTime
	for rows.Next() {
		var vt repository.VoiceChannelTime
		if err := rows.Scan(&vt.ChannelID, &vt.Seconds); err != nil {
			return nil, err
		}
		vt.UserID = userID
		list = append(list, vt)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) SumVoiceTimeByChannel(ctx context.Context) ([]repository.ChannelTotal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT channel_id, SUM(seconds) FROM voice_time
		 GROUP BY channel_id ORDER BY SUM(seconds) DESC, channel_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.ChannelTotal
	for rows.Next() {
		var t repository.ChannelTotal
		if err := rows.Scan(&t.ChannelID, &t.Seconds); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
