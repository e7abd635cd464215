package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bpollak/podboard/models"
	"github.com/bpollak/podboard/services"
	"github.com/bpollak/podboard/utils"
	"github.com/bpollak/podboard/ws"
)

// CreateSubmission is the public intake endpoint. A valid draft becomes a
// pending submission; the notification job is queued after the row exists
// so the worker can always re-read it.
func CreateSubmission(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Submissions are currently closed"})
			return
		}

		var draft models.SubmissionDraft
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		if errs := draft.Validate(); len(errs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
			return
		}

		sub := models.PodcastSubmission{
			ID:          uuid.New().String(),
			Ref:         utils.NextRef(),
			Name:        draft.Name,
			Hosts:       draft.Hosts,
			Category:    draft.Category,
			Summary:     draft.Summary,
			ListenURL:   draft.ListenURL,
			CoverImage:  draft.CoverImage,
			SubmittedBy: draft.SubmittedBy,
			Status:      models.SubmissionPending,
		}

		if err := db.Create(&sub).Error; err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				c.JSON(http.StatusGatewayTimeout, gin.H{"error": "The request timed out, please try again"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again"})
			return
		}

		notifier.Enqueue(sub.ID)

		var pending int64
		if err := db.Model(&models.PodcastSubmission{}).
			Where("status = ?", models.SubmissionPending).
			Count(&pending).Error; err == nil {
			ws.SendSubmissionAlert(sub.ID, pending)
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":     sub.ID,
			"ref":    sub.Ref,
			"status": sub.Status,
		})
	}
}
