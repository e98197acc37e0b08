package routes

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"socialweb/api/handlers"
	"socialweb/api/middleware"
	"socialweb/guard"
)

// path - путь маршрута из таблицы guard. Неизвестное имя - ошибка сборки приложения
func path(name string) string {
	r, ok := guard.ByName(name)
	if !ok {
		panic(fmt.Sprintf("route %q is not declared in guard.Routes", name))
	}
	return r.Path
}

// AppShell регистрирует представления под basePath, все через middleware.Guard
func AppShell(router *gin.Engine, basePath string, auth guard.AuthState) *gin.RouterGroup {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	shell := router.Group(strings.TrimRight(basePath, "/"))
	shell.Use(middleware.Guard(auth, basePath))
	{
		shell.GET(path("Home"), handlers.Home)
		shell.GET(path("Login"), handlers.LoginPage)
		shell.POST(path("Login"), handlers.Login)
		shell.GET(path("Register"), handlers.RegisterPage)
		shell.POST(path("Register"), handlers.Register)
		shell.POST(path("Logout"), handlers.Logout)

		// Профиль
		shell.GET(path("Profile"), handlers.Profile)
		shell.POST(path("Follow"), handlers.Follow)
		shell.POST(path("Unfollow"), handlers.Unfollow)
		shell.POST(path("UpdateMe"), handlers.UpdateMe)
		shell.POST(path("UploadProfilePicture"), handlers.UploadProfilePicture)
		shell.POST(path("UploadBackgroundImage"), handlers.UploadBackgroundImage)

		// Посты
		shell.GET(path("PostDetail"), handlers.PostDetail)
		shell.POST(path("PostComments"), handlers.CommentPost)
		shell.POST(path("PostVote"), handlers.VotePost)
		shell.POST(path("PostDelete"), handlers.DeletePost)
		shell.GET(path("CreatePost"), handlers.CreatePostPage)
		shell.POST(path("CreatePost"), handlers.CreatePost)
		shell.GET(path("EditPost"), handlers.EditPostPage)
		shell.POST(path("EditPost"), handlers.EditPost)

		// Reels
		shell.GET(path("Reels"), handlers.Reels)
		shell.POST(path("Reels"), handlers.CreateReel)
		shell.GET(path("ReelDetail"), handlers.ReelDetail)
		shell.POST(path("ReelLike"), handlers.LikeReel)
		shell.POST(path("ReelComments"), handlers.CommentReel)

		shell.GET(path("StateStream"), handlers.StateStream)
	}
	return shell
}
