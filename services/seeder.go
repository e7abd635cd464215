package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/bpollak/podboard/models"
)

// CuratedPicks is the owner-maintained featured list. It seeds the store
// on startup and doubles as the static directory when no store is
// configured.
func CuratedPicks() []models.Podcast {
	return []models.Podcast{
		{
			Name:       "Acquired",
			Hosts:      "Ben Gilbert & David Rosenthal",
			Category:   "Business",
			Summary:    "Deep-dive histories of great companies, told over three-hour episodes.",
			ListenURL:  "https://www.acquired.fm/",
			CoverImage: "https://www.acquired.fm/images/cover.jpg",
		},
		{
			Name:       "Hard Fork",
			Hosts:      "Kevin Roose & Casey Newton",
			Category:   "Technology",
			Summary:    "A weekly look at the wild frontier of tech, from AI to social platforms.",
			ListenURL:  "https://www.nytimes.com/column/hard-fork",
			CoverImage: "https://static01.nyt.com/images/hardfork.jpg",
		},
		{
			Name:       "The EdUp Experience",
			Hosts:      "Joe Sallustio & Elvin Freytes",
			Category:   "Higher Education",
			Summary:    "Conversations with the leaders shaping the future of higher education.",
			ListenURL:  "https://www.edupexperience.com/",
			CoverImage: "https://www.edupexperience.com/cover.png",
		},
		{
			Name:       "Lenny's Podcast",
			Hosts:      "Lenny Rachitsky",
			Category:   "Product",
			Summary:    "Interviews with product and growth leaders on building great products.",
			ListenURL:  "https://www.lennyspodcast.com/",
			CoverImage: "https://www.lennyspodcast.com/cover.jpg",
		},
	}
}

// SeedFeatured bulk-inserts the curated picks, skipping any podcast whose
// name already exists so reruns are harmless. Returns how many were
// created.
func SeedFeatured(db *gorm.DB, picks []models.Podcast) (int, error) {
	if db == nil {
		return 0, nil
	}

	created := 0
	for _, p := range picks {
		var existing models.Podcast
		err := db.Where("name = ?", p.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, err
		}

		now := time.Now().UTC()
		p.ID = uuid.New().String()
		p.Slug = slug.Make(p.Name)
		p.Featured = true
		p.Upvotes = 0
		p.Status = models.PodcastPublished
		p.SubmittedBy = "Brett"
		p.PublishedAt = &now

		if err := db.Create(&p).Error; err != nil {
			return created, err
		}
		created++
	}

	if created > 0 {
		log.Printf("seeded %d featured podcasts", created)
	}
	return created, nil
}
