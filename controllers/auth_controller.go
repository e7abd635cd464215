package controllers

import (
	"net/http"
	"strings"

	"github.com/clerkinc/clerk-sdk-go/clerk"
	"github.com/gin-gonic/gin"

	"github.com/bpollak/podboard/config"
	"github.com/bpollak/podboard/utils"
)

// Login exchanges a Clerk session token for a local moderator session.
// Signing in is open to anyone; only allow-listed emails get a token back,
// everyone else lands in the signed-in-but-not-a-moderator state.
func Login(cfg config.Config, clerkClient clerk.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if clerkClient == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Sign-in is not configured"})
			return
		}

		var input struct {
			Token string `json:"token"`
		}
		if err := c.ShouldBindJSON(&input); err != nil || input.Token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing sign-in token"})
			return
		}

		sess, err := clerkClient.VerifyToken(input.Token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid sign-in token"})
			return
		}

		clerkUser, err := clerkClient.Users().Read(sess.Subject)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Could not read user profile"})
			return
		}

		email := ""
		if len(clerkUser.EmailAddresses) > 0 {
			email = clerkUser.EmailAddresses[0].EmailAddress
		}
		email = strings.ToLower(strings.TrimSpace(email))

		if !cfg.IsAdmin(email) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "This account is not authorized to moderate",
				"code":  "not_admin",
				"email": email,
			})
			return
		}

		token, err := utils.GenerateToken(email, "admin")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"email": email,
			"role":  "admin",
		})
	}
}

// Me lets the console probe whether its stored session is still valid.
func Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"email": c.GetString("email"),
		"role":  c.GetString("role"),
	})
}
