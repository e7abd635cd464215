package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/bpollak/podboard/models"
)

var errAlreadyModerated = errors.New("already moderated")

// GetDashboard loads everything the console needs in one shot: the three
// submission queues, the removed-podcast audit list, and the published
// directory split into featured and community. The five queries run in
// parallel; if any one fails the whole response is an error rather than a
// partially filled dashboard.
func GetDashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Store is not configured"})
			return
		}

		var (
			pending, approved, rejected []models.PodcastSubmission
			removed, published          []models.Podcast
		)

		g := new(errgroup.Group)
		loadSubmissions := func(status string, dst *[]models.PodcastSubmission) func() error {
			return func() error {
				return db.Where("status = ?", status).
					Order("created_at DESC").
					Find(dst).Error
			}
		}
		g.Go(loadSubmissions(models.SubmissionPending, &pending))
		g.Go(loadSubmissions(models.SubmissionApproved, &approved))
		g.Go(loadSubmissions(models.SubmissionRejected, &rejected))
		g.Go(func() error {
			return db.Where("status = ?", models.PodcastRemoved).
				Order("moderated_at DESC").
				Find(&removed).Error
		})
		g.Go(func() error {
			return db.Where("status = ?", models.PodcastPublished).
				Order("published_at DESC").
				Find(&published).Error
		})

		if err := g.Wait(); err != nil {
			// Internal tool: raw error text is fine here.
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		featured := make([]models.Podcast, 0, len(published))
		community := make([]models.Podcast, 0, len(published))
		for _, p := range published {
			if p.Featured {
				featured = append(featured, p)
			} else {
				community = append(community, p)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"pending":   pending,
			"approved":  approved,
			"rejected":  rejected,
			"removed":   removed,
			"featured":  featured,
			"community": community,
		})
	}
}

// ApproveSubmission publishes a pending submission using the moderator's
// edited draft; the edits, not the original submission, are what go live.
// The podcast row is created before the submission flips to approved, so a
// crash in between can never leave an approved submission with nothing
// published.
func ApproveSubmission(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Store is not configured"})
			return
		}

		id := c.Param("id")
		moderator := c.GetString("email")

		var draft models.SubmissionDraft
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if errs := draft.ValidateForPublish(); len(errs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
			return
		}

		var published models.Podcast
		err := db.Transaction(func(tx *gorm.DB) error {
			var sub models.PodcastSubmission
			if err := tx.First(&sub, "id = ?", id).Error; err != nil {
				return err
			}
			if sub.Status != models.SubmissionPending {
				return errAlreadyModerated
			}

			now := time.Now().UTC()
			published = models.Podcast{
				ID:                 uuid.New().String(),
				Slug:               slug.Make(draft.Name),
				Name:               draft.Name,
				Hosts:              draft.Hosts,
				CoverImage:         draft.CoverImage,
				Category:           draft.Category,
				Summary:            draft.Summary,
				ListenURL:          draft.ListenURL,
				Featured:           false,
				Upvotes:            0,
				SubmittedBy:        draft.SubmittedBy,
				SourceSubmissionID: sub.ID,
				Status:             models.PodcastPublished,
				PublishedAt:        &now,
			}
			if err := tx.Create(&published).Error; err != nil {
				return err
			}

			res := tx.Model(&models.PodcastSubmission{}).
				Where("id = ? AND status = ?", sub.ID, models.SubmissionPending).
				Updates(map[string]interface{}{
					"status":               models.SubmissionApproved,
					"moderated_by":         moderator,
					"moderated_at":         now,
					"published_podcast_id": published.ID,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errAlreadyModerated
			}
			return nil
		})

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		case errors.Is(err, errAlreadyModerated):
			c.JSON(http.StatusConflict, gin.H{"error": "Submission was already moderated"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusOK, gin.H{"podcast": published})
		}
	}
}

// RejectSubmission closes a pending submission with a reason. A blank
// reason is refused before anything is written.
func RejectSubmission(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Store is not configured"})
			return
		}

		id := c.Param("id")
		moderator := c.GetString("email")

		var input struct {
			Reason string `json:"reason"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		reason := strings.TrimSpace(input.Reason)
		if reason == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rejection reason is required"})
			return
		}

		var sub models.PodcastSubmission
		if err := db.First(&sub, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if sub.Status != models.SubmissionPending {
			c.JSON(http.StatusConflict, gin.H{"error": "Submission was already moderated"})
			return
		}

		now := time.Now().UTC()
		res := db.Model(&models.PodcastSubmission{}).
			Where("id = ? AND status = ?", id, models.SubmissionPending).
			Updates(map[string]interface{}{
				"status":           models.SubmissionRejected,
				"moderated_by":     moderator,
				"moderated_at":     now,
				"rejection_reason": reason,
			})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Submission was already moderated"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": id, "status": models.SubmissionRejected})
	}
}

// RemovePodcast hides a published entry from the directory. This acts on
// the podcast only; the submission it came from keeps its approved status
// as a separate audit trail. The confirm flag is the destructive-action
// acknowledgment from the console.
func RemovePodcast(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Store is not configured"})
			return
		}

		id := c.Param("id")
		moderator := c.GetString("email")

		var input struct {
			Confirm bool `json:"confirm"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if !input.Confirm {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Confirmation is required to remove a podcast"})
			return
		}

		var podcast models.Podcast
		if err := db.First(&podcast, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Podcast not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if podcast.Status == models.PodcastRemoved {
			c.JSON(http.StatusConflict, gin.H{"error": "Podcast is already removed"})
			return
		}

		now := time.Now().UTC()
		res := db.Model(&models.Podcast{}).
			Where("id = ? AND status = ?", id, models.PodcastPublished).
			Updates(map[string]interface{}{
				"status":       models.PodcastRemoved,
				"moderated_by": moderator,
				"moderated_at": now,
			})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Podcast is already removed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": id, "status": models.PodcastRemoved})
	}
}
