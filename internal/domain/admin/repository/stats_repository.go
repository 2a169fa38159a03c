package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// Counts 各业务表的聚合统计
type Counts struct {
	TotalPosts        int64 `db:"total_posts" json:"totalPosts"`
	HiddenPosts       int64 `db:"hidden_posts" json:"hiddenPosts"`
	FlaggedPosts      int64 `db:"flagged_posts" json:"flaggedPosts"`
	RecentPosts       int64 `db:"recent_posts" json:"recentPosts"`
	TotalPolls        int64 `db:"total_polls" json:"totalPolls"`
	ActivePolls       int64 `db:"active_polls" json:"activePolls"`
	TotalVotes        int64 `db:"total_votes" json:"totalVotes"`
	BannedWords       int64 `db:"banned_words" json:"bannedWords"`
	Announcements     int64 `db:"announcements" json:"activeAnnouncements"`
	NewContacts       int64 `db:"new_contacts" json:"newContacts"`
	ChatMessages      int64 `db:"chat_messages" json:"chatMessages"`
	RecentChatAuthors int64 `db:"recent_chat_authors" json:"recentChatAuthors"`
}

// countsQuery since 同时用于近期发帖与近期聊天
const countsQuery = `
SELECT
	(SELECT COUNT(*) FROM posts) AS total_posts,
	(SELECT COUNT(*) FROM posts WHERE is_hidden = ?) AS hidden_posts,
	(SELECT COUNT(*) FROM posts WHERE is_flagged = ?) AS flagged_posts,
	(SELECT COUNT(*) FROM posts WHERE created_at >= ?) AS recent_posts,
	(SELECT COUNT(*) FROM polls) AS total_polls,
	(SELECT COUNT(*) FROM polls WHERE is_active = ?) AS active_polls,
	(SELECT COALESCE(SUM(total_votes), 0) FROM polls) AS total_votes,
	(SELECT COUNT(*) FROM banned_words WHERE is_active = ?) AS banned_words,
	(SELECT COUNT(*) FROM announcements WHERE is_active = ?) AS announcements,
	(SELECT COUNT(*) FROM contacts WHERE status = ?) AS new_contacts,
	(SELECT COUNT(*) FROM chat_messages) AS chat_messages,
	(SELECT COUNT(DISTINCT pen_name) FROM chat_messages WHERE sent_at >= ?) AS recent_chat_authors`

// StatsRepository 只读统计，直接走 SQL
type StatsRepository interface {
	Counts(ctx context.Context, since time.Time) (*Counts, error)
}

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Counts(ctx context.Context, since time.Time) (*Counts, error) {
	var c Counts
	query := r.db.Rebind(countsQuery)
	if err := r.db.GetContext(ctx, &c, query, true, true, since, true, true, true, "new", since); err != nil {
		return nil, err
	}
	return &c, nil
}
