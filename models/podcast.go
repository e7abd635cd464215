package models

import "time"

// Podcast statuses. Removal hides the entry from the public directory
// without reverting the submission it came from.
const (
	PodcastPublished = "published"
	PodcastRemoved   = "removed"
)

type Podcast struct {
	ID          string `gorm:"type:char(36);primaryKey" json:"id"`
	Slug        string `gorm:"type:varchar(255);index" json:"slug"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Hosts       string `gorm:"type:varchar(255)" json:"hosts"`
	CoverImage  string `gorm:"type:text" json:"cover_image"`
	Category    string `gorm:"type:varchar(120)" json:"category"`
	Summary     string `gorm:"type:text" json:"summary"`
	ListenURL   string `gorm:"type:text" json:"listen_url"`
	Featured    bool   `gorm:"default:false" json:"featured"`
	Upvotes     int64  `gorm:"default:0" json:"upvotes"`
	SubmittedBy string `gorm:"type:varchar(255)" json:"submitted_by"`

	// Back-reference to the community submission this entry was
	// published from. Empty for curated picks.
	SourceSubmissionID string `gorm:"type:char(36)" json:"source_submission_id,omitempty"`

	Status      string     `gorm:"type:varchar(16);index;default:'published'" json:"status"`
	ModeratedBy string     `gorm:"type:varchar(255)" json:"moderated_by,omitempty"`
	ModeratedAt *time.Time `json:"moderated_at,omitempty"`

	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}
