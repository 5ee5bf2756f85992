package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"band-backend/controllers"
	"band-backend/middleware"
)

// Options are the router settings taken from configuration.
type Options struct {
	CORSOrigins        []string
	UploadDir          string
	UploadURLPrefix    string
	MaxMultipartMemory int64
	// MaxBodyBytes caps admin create/update bodies; 0 disables the cap.
	MaxBodyBytes int64
}

// Controllers bundles the handlers the router wires up.
type Controllers struct {
	Contact      *controllers.ContactController
	Auth         *controllers.AuthController
	Members      *controllers.MemberController
	Performances *controllers.PerformanceController
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

// SetupRouter builds the engine with the public site API and the
// token-gated admin API.
func SetupRouter(opts Options, ctl Controllers, auth middleware.Authenticator) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), middleware.Recovery())
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))
	if opts.MaxMultipartMemory > 0 {
		r.MaxMultipartMemory = opts.MaxMultipartMemory
	}
	r.Static(opts.UploadURLPrefix, opts.UploadDir)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/send-email", ctl.Contact.SendEmail)
		api.GET("/members", ctl.Members.ListPublic)
		api.GET("/performances", ctl.Performances.ListPublic)

		api.POST("/admin/login", ctl.Auth.Login)
		api.POST("/admin/reset-password", ctl.Auth.RequestPasswordReset)
		api.POST("/admin/reset-password/:userId/:token", ctl.Auth.ResetPassword)

		admin := api.Group("/admin", middleware.RequireAdmin(auth))
		{
			admin.GET("/me", ctl.Auth.Me)
			limit := middleware.LimitBody(opts.MaxBodyBytes)

			members := admin.Group("/members")
			{
				members.GET("", ctl.Members.ListAll)
				members.GET("/:id", ctl.Members.Get)
				members.POST("", limit, ctl.Members.Create)
				members.PUT("/:id", limit, ctl.Members.Update)
				members.DELETE("/:id", ctl.Members.Delete)
			}

			performances := admin.Group("/performances")
			{
				performances.GET("", ctl.Performances.ListAll)
				performances.GET("/:id", ctl.Performances.Get)
				performances.POST("", limit, ctl.Performances.Create)
				performances.PUT("/:id", limit, ctl.Performances.Update)
				performances.DELETE("/:id", ctl.Performances.Delete)
			}
		}
	}

	return r
}
