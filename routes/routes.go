package routes

import (
	"github.com/clerkinc/clerk-sdk-go/clerk"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bpollak/podboard/config"
	"github.com/bpollak/podboard/controllers"
	"github.com/bpollak/podboard/middleware"
	"github.com/bpollak/podboard/models"
	"github.com/bpollak/podboard/services"
	"github.com/bpollak/podboard/ws"
)

// Deps carries everything the handlers need; main builds one of these at
// startup. DB may be nil, in which case the public surface runs in static
// fallback mode and the console reports the store as unconfigured.
type Deps struct {
	Cfg      config.Config
	DB       *gorm.DB
	Notifier *services.Notifier
	Search   *services.ITunesClient
	Clerk    clerk.Client
	Picks    []models.Podcast
}

func SetupRoutes(r *gin.Engine, deps Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "store": deps.DB != nil})
	})

	api := r.Group("/api")

	// ---------------- PUBLIC DIRECTORY ----------------
	api.GET("/directory", controllers.GetDirectory(deps.DB, deps.Picks))
	api.POST("/directory/:id/upvote", controllers.UpvotePodcast(deps.DB))
	api.POST("/submissions", controllers.CreateSubmission(deps.DB, deps.Notifier))
	api.GET("/search/podcasts", controllers.SearchPodcasts(deps.Search))

	// ---------------- AUTH ----------------
	auth := api.Group("/auth")
	{
		auth.POST("/login", controllers.Login(deps.Cfg, deps.Clerk))

		session := auth.Group("/")
		session.Use(middleware.AdminAuth(deps.Cfg))
		session.GET("/me", controllers.Me)
	}

	// ---------------- MODERATION ----------------
	// Not linked from public navigation; protection is the allow-list
	// check in the middleware, not the path.
	mod := api.Group("/moderation")
	mod.Use(middleware.AdminAuth(deps.Cfg))
	{
		mod.GET("/dashboard", controllers.GetDashboard(deps.DB))
		mod.POST("/submissions/:id/approve", controllers.ApproveSubmission(deps.DB))
		mod.POST("/submissions/:id/reject", controllers.RejectSubmission(deps.DB))
		mod.POST("/podcasts/:id/remove", controllers.RemovePodcast(deps.DB))
	}

	// ---------------- WebSockets ----------------
	r.GET("/ws/moderation", func(c *gin.Context) {
		ws.HandleConsoleWS(c.Writer, c.Request)
	})
}
