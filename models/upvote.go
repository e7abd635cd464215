package models

import "time"

// PodcastUpvote is the per-voter ledger backing the one-vote-per-browser
// rule. The voter token is an opaque id generated client-side.
type PodcastUpvote struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	VoterToken string    `gorm:"type:varchar(120);not null;uniqueIndex:idx_voter_podcast" json:"voter_token"`
	PodcastID  string    `gorm:"type:char(36);not null;uniqueIndex:idx_voter_podcast" json:"podcast_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
