package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bpollak/podboard/services"
)

// SearchPodcasts proxies the iTunes lookup used by the submission form to
// autofill podcast details. Upstream failure and timeout both come back as
// an empty result set so the form keeps working.
func SearchPodcasts(client *services.ITunesClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		term := strings.TrimSpace(c.Query("q"))
		if term == "" {
			c.JSON(http.StatusOK, gin.H{"results": []services.SearchResult{}})
			return
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))
		if limit < 1 {
			limit = 1
		}
		if limit > 25 {
			limit = 25
		}

		results, err := client.Search(c.Request.Context(), term, limit)
		if err != nil {
			log.Println("podcast search failed:", err)
			c.JSON(http.StatusOK, gin.H{
				"results":   []services.SearchResult{},
				"timed_out": errors.Is(err, context.DeadlineExceeded),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"results": results})
	}
}
