package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bpollak/podboard/models"
)

const moderator = "brett@brettpollak.com"

func moderationRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	mod := r.Group("/api/moderation")
	mod.Use(asModerator(moderator))
	{
		mod.GET("/dashboard", GetDashboard(db))
		mod.POST("/submissions/:id/approve", ApproveSubmission(db))
		mod.POST("/submissions/:id/reject", RejectSubmission(db))
		mod.POST("/podcasts/:id/remove", RemovePodcast(db))
	}
	return r
}

func seedSubmission(t *testing.T, db *gorm.DB, name string) models.PodcastSubmission {
	t.Helper()
	sub := models.PodcastSubmission{
		ID:          uuid.New().String(),
		Name:        name,
		Hosts:       "J. Doe",
		Category:    "Technology",
		Summary:     "Great show",
		ListenURL:   "https://example.com/feed",
		SubmittedBy: "Anonymous",
		Status:      models.SubmissionPending,
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("seed submission: %v", err)
	}
	return sub
}

func approveBody(sub models.PodcastSubmission) map[string]string {
	return map[string]string{
		"name":         sub.Name,
		"hosts":        sub.Hosts,
		"category":     sub.Category,
		"summary":      sub.Summary,
		"listen_url":   sub.ListenURL,
		"cover_image":  sub.CoverImage,
		"submitted_by": sub.SubmittedBy,
	}
}

func TestApproveSubmission(t *testing.T) {
	db := newTestDB(t)
	sub := seedSubmission(t, db, "Tech Weekly")
	r := moderationRouter(db)

	// The moderator edited the category before approving; the edited
	// value is what gets published.
	body := approveBody(sub)
	body["category"] = "AI & Tech"

	w := doJSON(t, r, http.MethodPost, "/api/moderation/submissions/"+sub.ID+"/approve", body, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var podcasts []models.Podcast
	if err := db.Find(&podcasts).Error; err != nil {
		t.Fatalf("load podcasts: %v", err)
	}
	if len(podcasts) != 1 {
		t.Fatalf("podcasts = %d, want exactly 1", len(podcasts))
	}
	p := podcasts[0]
	if p.Category != "AI & Tech" {
		t.Fatalf("category = %q, want the edited value", p.Category)
	}
	if p.Featured || p.Upvotes != 0 {
		t.Fatalf("community publish must start unfeatured with zero votes: %+v", p)
	}
	if p.SourceSubmissionID != sub.ID {
		t.Fatalf("source submission = %q, want %q", p.SourceSubmissionID, sub.ID)
	}
	if p.PublishedAt == nil || p.Slug == "" {
		t.Fatalf("missing publish metadata: %+v", p)
	}

	var stored models.PodcastSubmission
	db.First(&stored, "id = ?", sub.ID)
	if stored.Status != models.SubmissionApproved {
		t.Fatalf("submission status = %q, want approved", stored.Status)
	}
	if stored.PublishedPodcastID != p.ID {
		t.Fatalf("published_podcast_id = %q, want %q", stored.PublishedPodcastID, p.ID)
	}
	if stored.ModeratedBy != moderator || stored.ModeratedAt == nil {
		t.Fatalf("missing moderation metadata: %+v", stored)
	}
}

func TestApproveAlreadyModerated(t *testing.T) {
	db := newTestDB(t)
	sub := seedSubmission(t, db, "Tech Weekly")
	r := moderationRouter(db)

	first := doJSON(t, r, http.MethodPost, "/api/moderation/submissions/"+sub.ID+"/approve", approveBody(sub), nil)
	if first.Code != http.StatusOK {
		t.Fatalf("first approve = %d", first.Code)
	}

	second := doJSON(t, r, http.MethodPost, "/api/moderation/submissions/"+sub.ID+"/approve", approveBody(sub), nil)
	if second.Code != http.StatusConflict {
		t.Fatalf("second approve = %d, want 409", second.Code)
	}

	var n int64
	db.Model(&models.Podcast{}).Count(&n)
	if n != 1 {
		t.Fatalf("podcasts = %d, the retry must not publish twice", n)
	}
}

func TestApproveValidatesDraft(t *testing.T) {
	db := newTestDB(t)
	sub := seedSubmission(t, db, "Tech Weekly")
	r := moderationRouter(db)

	body := approveBody(sub)
	body["listen_url"] = "not a url"

	w := doJSON(t, r, http.MethodPost, "/api/moderation/submissions/"+sub.ID+"/approve", body, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	// Approval also requires a category, unlike intake.
	body = approveBody(sub)
	body["category"] = ""
	w = doJSON(t, r, http.MethodPost, "/api/moderation/submissions/"+sub.ID+"/approve", body, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for missing category", w.Code)
	}

	var stored models.PodcastSubmission
	db.First(&stored, "id = ?", sub.ID)
	if stored.Status != models.SubmissionPending {
		t.Fatalf("failed approval must leave the submission pending, got %q", stored.Status)
	}
}

func TestApproveUnknownSubmission(t *testing.T) {
	db := newTestDB(t)
	r := moderationRouter(db)

	w := doJSON(t, r, http.MethodPost, "/api/moderation/submissions/nope/approve",
		approveBody(models.PodcastSubmission{
			Name: "n", Hosts: "h", Category: "c", Summary: "s", ListenURL: "https://a.com",
		}), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	db := newTestDB(t)
	sub := seedSubmission(t, db, "Tech Weekly")
	r := moderationRouter(db)

	for _, reason := range []string{"", "   "} {
		w := doJSON(t, r, http.MethodPost, "/api/moderation/submissions/"+sub.ID+"/reject",
			map[string]string{"reason": reason}, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		body := decodeBody(t, w)
		if body["error"] != "Rejection reason is required" {
			t.Fatalf("error = %v", body["error"])
		}
	}

	var stored models.PodcastSubmission
	db.First(&stored, "id = ?", sub.ID)
	if stored.Status != models.SubmissionPending {
		t.Fatalf("blocked reject must not write, status = %q", stored.Status)
	}
}

func TestRejectSubmission(t *testing.T) {
	db := newTestDB(t)
	sub := seedSubmission(t, db, "Tech Weekly")
	r := moderationRouter(db)

	w := doJSON(t, r, http.MethodPost, "/api/moderation/submissions/"+sub.ID+"/reject",
		map[string]string{"reason": "Not a podcast"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var stored models.PodcastSubmission
	db.First(&stored, "id = ?", sub.ID)
	if stored.Status != models.SubmissionRejected {
		t.Fatalf("status = %q, want rejected", stored.Status)
	}
	if stored.RejectionReason != "Not a podcast" {
		t.Fatalf("reason = %q", stored.RejectionReason)
	}
	if stored.ModeratedBy != moderator || stored.ModeratedAt == nil {
		t.Fatalf("missing moderation metadata: %+v", stored)
	}

	var n int64
	db.Model(&models.Podcast{}).Count(&n)
	if n != 0 {
		t.Fatalf("reject must not publish anything, got %d podcasts", n)
	}

	// One transition away from pending: rejecting again conflicts.
	w = doJSON(t, r, http.MethodPost, "/api/moderation/submissions/"+sub.ID+"/reject",
		map[string]string{"reason": "again"}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("second reject = %d, want 409", w.Code)
	}
}

func TestRemovePodcast(t *testing.T) {
	db := newTestDB(t)
	sub := seedSubmission(t, db, "Tech Weekly")
	r := moderationRouter(db)

	w := doJSON(t, r, http.MethodPost, "/api/moderation/submissions/"+sub.ID+"/approve", approveBody(sub), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("approve = %d", w.Code)
	}
	var podcast models.Podcast
	db.First(&podcast)

	// Removal without the acknowledgment flag is refused.
	w = doJSON(t, r, http.MethodPost, "/api/moderation/podcasts/"+podcast.ID+"/remove",
		map[string]bool{"confirm": false}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unconfirmed remove = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/moderation/podcasts/"+podcast.ID+"/remove",
		map[string]bool{"confirm": true}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("remove = %d, body %s", w.Code, w.Body.String())
	}

	var stored models.Podcast
	db.First(&stored, "id = ?", podcast.ID)
	if stored.Status != models.PodcastRemoved {
		t.Fatalf("podcast status = %q, want removed", stored.Status)
	}
	if stored.ModeratedBy != moderator || stored.ModeratedAt == nil {
		t.Fatalf("missing moderation metadata: %+v", stored)
	}

	// The submission's own audit trail is untouched by removal.
	var storedSub models.PodcastSubmission
	db.First(&storedSub, "id = ?", sub.ID)
	if storedSub.Status != models.SubmissionApproved {
		t.Fatalf("submission status = %q, removal must not revert it", storedSub.Status)
	}

	w = doJSON(t, r, http.MethodPost, "/api/moderation/podcasts/"+podcast.ID+"/remove",
		map[string]bool{"confirm": true}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("second remove = %d, want 409", w.Code)
	}
}

func TestDashboard(t *testing.T) {
	db := newTestDB(t)
	r := moderationRouter(db)

	seedSubmission(t, db, "Pending Show")
	rejected := seedSubmission(t, db, "Rejected Show")
	approvedSub := seedSubmission(t, db, "Approved Show")

	if w := doJSON(t, r, http.MethodPost, "/api/moderation/submissions/"+rejected.ID+"/reject",
		map[string]string{"reason": "spam"}, nil); w.Code != http.StatusOK {
		t.Fatalf("reject = %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/api/moderation/submissions/"+approvedSub.ID+"/approve",
		approveBody(approvedSub), nil); w.Code != http.StatusOK {
		t.Fatalf("approve = %d", w.Code)
	}
	seedPodcast(t, db, "curated", "Business", true, 3)

	body := decodeBody(t, doJSON(t, r, http.MethodGet, "/api/moderation/dashboard", nil, nil))

	counts := map[string]int{}
	for _, key := range []string{"pending", "approved", "rejected", "removed", "featured", "community"} {
		list, ok := body[key].([]interface{})
		if !ok {
			t.Fatalf("dashboard missing %q: %v", key, body)
		}
		counts[key] = len(list)
	}
	want := map[string]int{"pending": 1, "approved": 1, "rejected": 1, "removed": 0, "featured": 1, "community": 1}
	for key, n := range want {
		if counts[key] != n {
			t.Fatalf("%s = %d, want %d (all: %v)", key, counts[key], n, counts)
		}
	}
}

func TestDashboardStoreUnconfigured(t *testing.T) {
	r := moderationRouter(nil)
	w := doJSON(t, r, http.MethodGet, "/api/moderation/dashboard", nil, nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}

func TestDashboardQueryFailure(t *testing.T) {
	db := newTestDB(t)
	r := moderationRouter(db)

	seedSubmission(t, db, "Pending Show")
	seedPodcast(t, db, "curated", "Business", true, 3)
	if err := db.Migrator().DropTable(&models.Podcast{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	w := doJSON(t, r, http.MethodGet, "/api/moderation/dashboard", nil, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	body := decodeBody(t, w)
	if _, ok := body["error"]; !ok {
		t.Fatalf("error body missing: %v", body)
	}
	// No partial payload alongside the error.
	for _, key := range []string{"pending", "approved", "rejected", "removed", "featured", "community"} {
		if _, ok := body[key]; ok {
			t.Fatalf("failed dashboard must not carry %q: %v", key, body)
		}
	}
}
