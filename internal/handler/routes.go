package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/studyhub-app/studyhub-api/internal/middleware"
	"github.com/studyhub-app/studyhub-api/internal/models"
	"github.com/studyhub-app/studyhub-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Class        *ClassHandler
	Enrollment   *EnrollmentHandler
	Quiz         *QuizHandler
	QuizTaking   *QuizTakingHandler
	Flashcard    *FlashcardHandler
	StudySession *StudySessionHandler
	Goal         *GoalHandler
	Resource     *ResourceHandler
	Progress     *ProgressHandler
	Contact      *ContactHandler
	Metrics      *MetricsHandler
}

// RouteOptions toggles optional surfaces of the API.
type RouteOptions struct {
	ContactFormEnabled bool
}

// RegisterRoutes mounts every endpoint under the given prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, auth *service.AuthService, opts RouteOptions) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/forgot-password", h.Auth.ForgotPassword)
		authGroup.POST("/reset-password", h.Auth.ResetPassword)
		authGroup.POST("/logout", middleware.JWT(auth), h.Auth.Logout)
	}

	if opts.ContactFormEnabled {
		api.POST("/contact", h.Contact.Submit)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(auth))

	users := protected.Group("/users")
	{
		users.GET("/me", h.User.Me)
		users.PUT("/me", h.User.UpdateMe)
		users.GET("/me/stats", h.User.Stats)
		users.GET("/me/dashboard", h.User.Dashboard)
	}

	teacherOnly := middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin)
	studentOnly := middleware.RequireRoles(models.RoleStudent)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	classes := protected.Group("/classes")
	{
		classes.GET("", teacherOnly, h.Class.List)
		classes.POST("", teacherOnly, h.Class.Create)
		classes.GET("/enrolled", h.Enrollment.MyClasses)
		classes.POST("/join", studentOnly, h.Enrollment.Join)
		classes.GET("/:id", h.Class.Get)
		classes.PUT("/:id", teacherOnly, h.Class.Update)
		classes.POST("/:id/regenerate-code", teacherOnly, h.Class.RegenerateCode)
		classes.DELETE("/:id", teacherOnly, h.Class.Delete)
		classes.GET("/:id/students", h.Enrollment.Students)
		classes.DELETE("/:id/students/:studentId", teacherOnly, h.Enrollment.RemoveStudent)
		classes.DELETE("/:id/leave", studentOnly, h.Enrollment.Leave)
	}

	quizzes := protected.Group("/quizzes")
	{
		quizzes.GET("", h.Quiz.List)
		quizzes.POST("", teacherOnly, h.Quiz.Create)
		quizzes.GET("/:id", teacherOnly, h.Quiz.Get)
		quizzes.PUT("/:id", teacherOnly, h.Quiz.Update)
		quizzes.DELETE("/:id", teacherOnly, h.Quiz.Delete)
		quizzes.POST("/:id/questions", teacherOnly, h.Quiz.AddQuestion)
		quizzes.PUT("/questions/:questionId", teacherOnly, h.Quiz.UpdateQuestion)
		quizzes.DELETE("/questions/:questionId", teacherOnly, h.Quiz.DeleteQuestion)

		quizzes.GET("/:id/take", studentOnly, h.QuizTaking.Take)
		quizzes.POST("/:id/submit", studentOnly, h.QuizTaking.Submit)
		quizzes.GET("/:id/results", studentOnly, h.QuizTaking.Results)
		quizzes.GET("/:id/submissions", teacherOnly, h.QuizTaking.Submissions)
		quizzes.GET("/:id/submissions/export", teacherOnly, h.QuizTaking.Export)
	}

	sets := protected.Group("/flashcard-sets")
	{
		sets.GET("", h.Flashcard.ListSets)
		sets.POST("", h.Flashcard.CreateSet)
		sets.GET("/:id", h.Flashcard.GetSet)
		sets.PUT("/:id", h.Flashcard.UpdateSet)
		sets.DELETE("/:id", h.Flashcard.DeleteSet)
		sets.POST("/:id/cards", h.Flashcard.AddCard)
	}

	cards := protected.Group("/flashcards")
	{
		cards.PUT("/:cardId", h.Flashcard.UpdateCard)
		cards.DELETE("/:cardId", h.Flashcard.DeleteCard)
	}

	sessions := protected.Group("/study-sessions")
	{
		sessions.GET("", h.StudySession.List)
		sessions.POST("", h.StudySession.Create)
		sessions.PUT("/:id", h.StudySession.Update)
		sessions.DELETE("/:id", h.StudySession.Delete)
	}

	goals := protected.Group("/goals")
	{
		goals.GET("", h.Goal.List)
		goals.POST("", h.Goal.Create)
		goals.PUT("/:id", h.Goal.Update)
		goals.PATCH("/:id/toggle", h.Goal.Toggle)
		goals.DELETE("/:id", h.Goal.Delete)
	}

	resources := protected.Group("/resources")
	{
		resources.GET("", h.Resource.List)
		resources.POST("", h.Resource.Create)
		resources.GET("/:id", h.Resource.Get)
		resources.PUT("/:id", h.Resource.Update)
		resources.DELETE("/:id", h.Resource.Delete)
	}

	protected.GET("/progress/stats", h.Progress.Stats)

	contactAdmin := protected.Group("/contact", adminOnly)
	{
		contactAdmin.GET("", h.Contact.List)
		contactAdmin.PATCH("/:id/status", h.Contact.UpdateStatus)
		contactAdmin.DELETE("/:id", h.Contact.Delete)
	}
}
