package models

import (
	"net/url"
	"strings"
)

const MaxSummaryLen = 300

// SubmissionDraft carries the user-editable fields of a submission. It is
// bound from the intake form and again from the moderator's review form,
// where the edited values are what actually get published.
type SubmissionDraft struct {
	Name        string `json:"name"`
	Hosts       string `json:"hosts"`
	Category    string `json:"category"`
	Summary     string `json:"summary"`
	ListenURL   string `json:"listen_url"`
	CoverImage  string `json:"cover_image"`
	SubmittedBy string `json:"submitted_by"`
}

// Trim normalizes all fields in place and defaults the submitter name.
func (d *SubmissionDraft) Trim() {
	d.Name = strings.TrimSpace(d.Name)
	d.Hosts = strings.TrimSpace(d.Hosts)
	d.Category = strings.TrimSpace(d.Category)
	d.Summary = strings.TrimSpace(d.Summary)
	d.ListenURL = strings.TrimSpace(d.ListenURL)
	d.CoverImage = strings.TrimSpace(d.CoverImage)
	d.SubmittedBy = strings.TrimSpace(d.SubmittedBy)
	if d.SubmittedBy == "" {
		d.SubmittedBy = "Anonymous"
	}
}

// Validate checks the intake rules and returns field -> message for
// everything wrong with the draft. Category is optional at intake.
func (d *SubmissionDraft) Validate() map[string]string {
	d.Trim()
	errs := map[string]string{}

	if d.Name == "" {
		errs["name"] = "Name is required"
	}
	if d.Hosts == "" {
		errs["hosts"] = "Hosts is required"
	}
	if d.Summary == "" {
		errs["summary"] = "Summary is required"
	} else if len([]rune(d.Summary)) > MaxSummaryLen {
		errs["summary"] = "Summary must be 300 characters or fewer"
	}
	if d.ListenURL == "" {
		errs["listen_url"] = "Listen URL is required"
	} else if !validHTTPURL(d.ListenURL) {
		errs["listen_url"] = "Listen URL must be a valid URL"
	}
	if d.CoverImage != "" && !validHTTPURL(d.CoverImage) {
		errs["cover_image"] = "Cover image must be a valid URL"
	}
	return errs
}

// ValidateForPublish adds the approval-path rule that a category must be
// set before a draft can go live on the directory.
func (d *SubmissionDraft) ValidateForPublish() map[string]string {
	errs := d.Validate()
	if d.Category == "" {
		errs["category"] = "Category is required"
	}
	return errs
}

func validHTTPURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
