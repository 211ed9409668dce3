package server

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yukikurage/group-task-api/internal/constants"
	"github.com/yukikurage/group-task-api/internal/handlers"
	"github.com/yukikurage/group-task-api/internal/middleware"
	"github.com/yukikurage/group-task-api/internal/services"
)

// Services bundles what the router needs to serve the API.
type Services struct {
	Auth   *services.AuthService
	Groups *services.GroupService
	Tasks  *services.TaskService
}

// NewRouter wires middleware, handlers and routes onto a gin engine.
// alive controls the health check; nil means always healthy.
func NewRouter(serviceName string, store sessions.Store, svc Services, alive *atomic.Bool) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics(serviceName))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	authHandler := handlers.NewAuthHandler(svc.Auth)
	userHandler := handlers.NewUserHandler(svc.Auth, svc.Groups, svc.Tasks)
	groupHandler := handlers.NewGroupHandler(svc.Groups)
	taskHandler := handlers.NewTaskHandler(svc.Tasks)

	requireAuth := middleware.RequireAuth(svc.Auth)
	groupAccess := middleware.RequireGroupAccess(svc.Groups)
	groupOwner := middleware.RequireGroupOwner()
	taskAccess := middleware.RequireTaskAccess(svc.Tasks)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		if alive != nil && !alive.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Group Task API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
		}

		me := api.Group("/me")
		me.Use(requireAuth)
		{
			me.GET("", userHandler.GetMe)
			me.PATCH("", userHandler.UpdateMe)
			me.DELETE("", userHandler.DeleteMe)
			me.PUT("/password", userHandler.ChangePassword)
			me.GET("/groups", userHandler.ListMyGroups)
			me.GET("/tasks", userHandler.ListMyTasks)
		}

		groups := api.Group("/groups")
		groups.Use(requireAuth)
		{
			groups.POST("", groupHandler.CreateGroup)
			groups.POST("/join", groupHandler.JoinGroup)

			group := groups.Group("/:group_id")
			group.Use(groupAccess)
			{
				group.GET("", groupHandler.GetGroup)
				group.PATCH("", groupHandler.UpdateGroup)
				group.DELETE("", groupOwner, groupHandler.DeleteGroup)
				group.POST("/invite-code", groupOwner, groupHandler.RegenerateInviteCode)
				group.GET("/members", groupHandler.ListMembers)
				group.POST("/members", groupOwner, groupHandler.AddMember)
				group.DELETE("/members/:user_id", groupHandler.RemoveMember)
				group.GET("/tasks", taskHandler.ListGroupTasks)
				group.POST("/tasks", taskHandler.CreateTask)
			}
		}

		tasks := api.Group("/tasks/:task_id")
		tasks.Use(requireAuth, taskAccess)
		{
			tasks.GET("", taskHandler.GetTask)
			tasks.PATCH("", taskHandler.UpdateTask)
			tasks.DELETE("", taskHandler.DeleteTask)
			tasks.POST("/assign", taskHandler.AssignTask)
			tasks.POST("/unassign", taskHandler.UnassignTask)
			tasks.PUT("/reaction", taskHandler.SetReaction)
			tasks.DELETE("/reaction", taskHandler.ClearReaction)
		}
	}

	return r
}
