package models

import "time"

// Submission statuses. A submission leaves "pending" exactly once.
const (
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

type PodcastSubmission struct {
	ID          string `gorm:"type:char(36);primaryKey" json:"id"`
	Ref         uint64 `gorm:"index" json:"ref"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Hosts       string `gorm:"type:varchar(255);not null" json:"hosts"`
	Category    string `gorm:"type:varchar(120)" json:"category"`
	Summary     string `gorm:"type:varchar(300);not null" json:"summary"`
	ListenURL   string `gorm:"type:text;not null" json:"listen_url"`
	CoverImage  string `gorm:"type:text" json:"cover_image"`
	SubmittedBy string `gorm:"type:varchar(255);default:'Anonymous'" json:"submitted_by"`

	Status             string     `gorm:"type:varchar(16);index;default:'pending'" json:"status"`
	ModeratedBy        string     `gorm:"type:varchar(255)" json:"moderated_by,omitempty"`
	ModeratedAt        *time.Time `json:"moderated_at,omitempty"`
	RejectionReason    string     `gorm:"type:text" json:"rejection_reason,omitempty"`
	PublishedPodcastID string     `gorm:"type:char(36)" json:"published_podcast_id,omitempty"`

	// Set once by the notification worker; presence means the admin
	// email for this submission has already gone out.
	NotifiedAt      *time.Time `json:"notified_at,omitempty"`
	NotifyProvider  string     `gorm:"type:varchar(40)" json:"notify_provider,omitempty"`
	NotifyMessageID string     `gorm:"type:varchar(120)" json:"notify_message_id,omitempty"`
	NotifyTarget    string     `gorm:"type:varchar(255)" json:"notify_target,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
