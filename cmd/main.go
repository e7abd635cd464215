package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/clerkinc/clerk-sdk-go/clerk"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/bpollak/podboard/config"
	"github.com/bpollak/podboard/models"
	"github.com/bpollak/podboard/routes"
	"github.com/bpollak/podboard/services"
	"github.com/bpollak/podboard/ws"
)

func main() {
	if os.Getenv("DOCKER_ENV") != "true" {
		_ = godotenv.Load()
	}

	cfg := config.Load()

	db, err := config.Connect(cfg)
	if errors.Is(err, config.ErrNotConfigured) {
		log.Println("no database configured, serving the static directory only")
		db = nil
	} else if err != nil {
		log.Fatal("failed to connect DB:", err)
	}

	picks := services.CuratedPicks()

	if db != nil {
		if err := db.AutoMigrate(
			&models.PodcastSubmission{},
			&models.Podcast{},
			&models.PodcastUpvote{},
		); err != nil {
			log.Fatal("auto migration failed:", err)
		}

		if _, err := services.SeedFeatured(db, picks); err != nil {
			log.Println("seeding featured podcasts failed:", err)
		}
	}

	var clerkClient clerk.Client
	if cfg.ClerkSecretKey != "" {
		clerkClient, err = clerk.NewClient(cfg.ClerkSecretKey)
		if err != nil {
			log.Fatal("failed to create Clerk client:", err)
		}
	} else {
		log.Println("CLERK_SECRET_KEY not set, moderator sign-in disabled")
	}

	mailer := services.NewMailer(cfg)
	notifier := services.NewNotifier(db, mailer)
	if db != nil {
		if err := notifier.RecoverPending(); err != nil {
			log.Println("notification recovery sweep failed:", err)
		}
		go notifier.Run()
	}

	go ws.HandleConsoleMessages()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Voter-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, routes.Deps{
		Cfg:      cfg,
		DB:       db,
		Notifier: notifier,
		Search:   services.NewITunesClient(),
		Clerk:    clerkClient,
		Picks:    picks,
	})

	fmt.Printf("Server running on port %s\n", cfg.Port)
	log.Fatal(r.Run(":" + cfg.Port))
}
