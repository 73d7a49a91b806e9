package rest

import (
	authapp "github.com/dfryer1193/goblog-api/auth/application"
	blogapp "github.com/dfryer1193/goblog-api/blog/application"
	"github.com/dfryer1193/goblog-api/internal/middleware"
	mediaapp "github.com/dfryer1193/goblog-api/media/application"
	"github.com/dfryer1193/goblog-api/shared/db"
	"github.com/gin-gonic/gin"
)

// Services are the application services the routes are served from
type Services struct {
	Auth       *authapp.AuthService
	Posts      *blogapp.PostService
	Comments   *blogapp.CommentService
	Categories *blogapp.CategoryService
	Images     *mediaapp.UploadService
	DB         db.Database
}

// NewApi registers every route on router
func NewApi(router *gin.Engine, s *Services) {
	requireAuth := middleware.RequireAuth(s.Auth)

	authRoutes := &authHandler{auth: s.Auth}
	auth := router.Group("/auth")
	{
		auth.POST("/register", authRoutes.register)
		auth.POST("/login", authRoutes.login)
	}

	postRoutes := &postHandler{posts: s.Posts}
	commentRoutes := &commentHandler{comments: s.Comments}
	posts := router.Group("/posts")
	{
		posts.GET("", postRoutes.listPosts)
		posts.GET("/:id", postRoutes.getPost)
		posts.POST("", requireAuth, postRoutes.createPost)
		posts.PUT("/:id", requireAuth, postRoutes.updatePost)
		posts.DELETE("/:id", requireAuth, postRoutes.deletePost)
		posts.PUT("/:id/like", requireAuth, postRoutes.toggleLike)
		posts.POST("/:id/comment", requireAuth, commentRoutes.addComment)
		posts.DELETE("/:id/comment/:commentId", requireAuth, commentRoutes.deleteComment)
	}

	categoryRoutes := &categoryHandler{categories: s.Categories}
	categories := router.Group("/categories")
	{
		categories.POST("", categoryRoutes.createCategory)
		categories.GET("", categoryRoutes.listCategories)
	}

	imageRoutes := &imageHandler{images: s.Images}
	router.GET("/images/:name", imageRoutes.getImage)

	health := &healthHandler{db: s.DB}
	router.GET("/healthz", health.healthz)
}
