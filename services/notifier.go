package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/bpollak/podboard/models"
)

const notifyProvider = "resend"

// Field caps applied before a submission is rendered into the admin email.
const (
	maxMailName      = 140
	maxMailHosts     = 160
	maxMailSubmitter = 120
	maxMailCategory  = 80
	maxMailSummary   = 1000
)

// Notifier emails the site owner once per new submission. Jobs arrive on a
// channel from the intake handler; delivery is at-least-once (a startup
// sweep re-enqueues anything unsent), so Process guards on the persisted
// notified_at marker before touching the mail API.
type Notifier struct {
	db     *gorm.DB
	mailer *Mailer
	jobs   chan string

	// retryDelays[i] is the wait before re-enqueueing a job that has
	// failed i+1 times. A job that exhausts the list is dropped and
	// left for the next recovery sweep.
	retryDelays []time.Duration

	// attempts is touched only from the Run goroutine.
	attempts map[string]int
}

func NewNotifier(db *gorm.DB, mailer *Mailer) *Notifier {
	return &Notifier{
		db:          db,
		mailer:      mailer,
		jobs:        make(chan string, 64),
		retryDelays: []time.Duration{time.Second, 5 * time.Second, 20 * time.Second},
		attempts:    make(map[string]int),
	}
}

// Enqueue hands a submission id to the worker. Never blocks the intake
// path; a dropped job is picked up by the next RecoverPending sweep.
func (n *Notifier) Enqueue(submissionID string) {
	select {
	case n.jobs <- submissionID:
	default:
		log.Println("notifier queue full, dropping job for", submissionID)
	}
}

// RecoverPending re-enqueues pending submissions that were never notified,
// covering jobs lost to a crash or a full queue.
func (n *Notifier) RecoverPending() error {
	if n.db == nil {
		return nil
	}
	var ids []string
	err := n.db.Model(&models.PodcastSubmission{}).
		Where("status = ? AND notified_at IS NULL", models.SubmissionPending).
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}
	for _, id := range ids {
		n.Enqueue(id)
	}
	return nil
}

// Run drains the job channel. A failed job is re-enqueued on a timer
// rather than retried in place, so one flaky delivery never stalls the
// rest of the queue. A job that exhausts its retries is left for the
// next recovery sweep.
func (n *Notifier) Run() {
	for id := range n.jobs {
		err := n.Process(id)
		if err == nil {
			delete(n.attempts, id)
			continue
		}

		n.attempts[id]++
		tries := n.attempts[id]
		log.Printf("notify %s attempt %d: %v", id, tries, err)
		if tries > len(n.retryDelays) {
			delete(n.attempts, id)
			log.Println("giving up on notification for", id)
			continue
		}

		retry := id
		time.AfterFunc(n.retryDelays[tries-1], func() { n.Enqueue(retry) })
	}
}

// Process sends the admin email for one submission. It no-ops when the
// submission is gone, already moderated, or already notified, which makes
// redelivery of the same job harmless. The notified_at write-back happens
// only after the mail API accepted the message.
func (n *Notifier) Process(submissionID string) error {
	if n.db == nil {
		return nil
	}

	var sub models.PodcastSubmission
	err := n.db.First(&sub, "id = ?", submissionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if sub.Status != models.SubmissionPending {
		return nil
	}
	if sub.NotifiedAt != nil {
		return nil
	}
	if !n.mailer.Configured() {
		log.Println("mailer not configured, skipping notification for", sub.ID)
		return nil
	}

	subject, text, htmlBody := composeSubmissionMail(&sub)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	msgID, err := n.mailer.Send(ctx, subject, text, htmlBody)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return n.db.Model(&sub).Updates(map[string]interface{}{
		"notified_at":       now,
		"notify_provider":   notifyProvider,
		"notify_message_id": msgID,
		"notify_target":     n.mailer.To,
	}).Error
}

func composeSubmissionMail(sub *models.PodcastSubmission) (subject, text, htmlBody string) {
	name := truncate(sub.Name, maxMailName)
	hosts := truncate(sub.Hosts, maxMailHosts)
	submitter := truncate(sub.SubmittedBy, maxMailSubmitter)
	category := truncate(sub.Category, maxMailCategory)
	if category == "" {
		category = "Uncategorized"
	}
	summary := truncate(sub.Summary, maxMailSummary)

	subject = fmt.Sprintf("New podcast submission: %s", name)

	text = fmt.Sprintf(
		"A new podcast was submitted for review.\n\n"+
			"Name: %s\nHosts: %s\nCategory: %s\nSubmitted by: %s\nListen: %s\n\nSummary:\n%s\n",
		name, hosts, category, submitter, sub.ListenURL, summary)

	htmlBody = fmt.Sprintf(
		"<h2>New podcast submission</h2>"+
			"<p><strong>%s</strong> by %s</p>"+
			"<p>Category: %s<br>Submitted by: %s</p>"+
			"<p><a href=\"%s\">Listen</a></p>"+
			"<p>%s</p>",
		html.EscapeString(name),
		html.EscapeString(hosts),
		html.EscapeString(category),
		html.EscapeString(submitter),
		html.EscapeString(sub.ListenURL),
		html.EscapeString(summary))

	return subject, text, htmlBody
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
