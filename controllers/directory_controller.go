package controllers

import (
	"errors"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bpollak/podboard/models"
)

type categoryFacet struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// GetDirectory returns the public podcast list: featured picks first, then
// community entries, both by upvotes. With no store (or a broken one) it
// degrades to the curated picks with voting and submission switched off.
func GetDirectory(db *gorm.DB, picks []models.Podcast) gin.HandlerFunc {
	return func(c *gin.Context) {
		category := strings.TrimSpace(c.Query("category"))

		if db == nil {
			c.JSON(http.StatusOK, staticDirectory(picks, category, false))
			return
		}

		var podcasts []models.Podcast
		err := db.Where("status = ?", models.PodcastPublished).
			Order("featured DESC").
			Order("upvotes DESC").
			Order("created_at ASC").
			Find(&podcasts).Error
		if err != nil {
			log.Println("directory query failed, serving static list:", err)
			c.JSON(http.StatusOK, staticDirectory(picks, category, false))
			return
		}
		// Zero entries in a working store: show the picks in insertion
		// order, but keep the submission door open.
		if len(podcasts) == 0 {
			c.JSON(http.StatusOK, staticDirectory(picks, category, true))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"podcasts":   filterByCategory(podcasts, category),
			"categories": categoryFacets(podcasts),
			"can_vote":   true,
			"can_submit": true,
		})
	}
}

func staticDirectory(picks []models.Podcast, category string, canSubmit bool) gin.H {
	list := make([]models.Podcast, len(picks))
	copy(list, picks)
	for i := range list {
		list[i].Featured = true
		list[i].Upvotes = 0
		list[i].Status = models.PodcastPublished
	}
	return gin.H{
		"podcasts":   filterByCategory(list, category),
		"categories": categoryFacets(list),
		"can_vote":   false,
		"can_submit": canSubmit,
	}
}

func filterByCategory(podcasts []models.Podcast, category string) []models.Podcast {
	if category == "" || category == "all" {
		return podcasts
	}
	out := make([]models.Podcast, 0, len(podcasts))
	for _, p := range podcasts {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// categoryFacets derives the filter set from whatever categories are in
// the list right now, with "all" always first.
func categoryFacets(podcasts []models.Podcast) []categoryFacet {
	counts := map[string]int{}
	for _, p := range podcasts {
		if p.Category != "" {
			counts[p.Category]++
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	facets := []categoryFacet{{Name: "all", Count: len(podcasts)}}
	for _, name := range names {
		facets = append(facets, categoryFacet{Name: name, Count: counts[name]})
	}
	return facets
}

// UpvotePodcast records one vote per (voter token, podcast). A repeat vote
// is a no-op that just echoes the current count. The ledger insert and the
// counter increment share a transaction, and the counter moves via an
// atomic in-database add, never read-modify-write.
func UpvotePodcast(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Voting is not available"})
			return
		}

		podcastID := c.Param("id")
		voter := strings.TrimSpace(c.GetHeader("X-Voter-Token"))
		if voter == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing voter token"})
			return
		}

		var podcast models.Podcast
		err := db.First(&podcast, "id = ? AND status = ?", podcastID, models.PodcastPublished).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Podcast not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again"})
			return
		}

		already := false
		upvotes := podcast.Upvotes
		err = db.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.PodcastUpvote{}).
				Where("voter_token = ? AND podcast_id = ?", voter, podcastID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				already = true
				return nil
			}

			vote := models.PodcastUpvote{VoterToken: voter, PodcastID: podcastID}
			if err := tx.Create(&vote).Error; err != nil {
				// A concurrent vote from the same token landed first.
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					already = true
					return nil
				}
				return err
			}

			if err := tx.Model(&models.Podcast{}).
				Where("id = ?", podcastID).
				UpdateColumn("upvotes", gorm.Expr("upvotes + 1")).Error; err != nil {
				return err
			}

			// Read the count back inside the transaction so the response
			// can never report a stale or zero total on a committed vote.
			return tx.Model(&models.Podcast{}).
				Select("upvotes").
				Where("id = ?", podcastID).
				Scan(&upvotes).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"upvotes":       upvotes,
			"already_voted": already,
		})
	}
}
