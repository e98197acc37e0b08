package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"socialweb/guard"
	"socialweb/models"
)

type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// LoginPage - куда вернуть пользователя после входа
func LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"redirect": guard.SafeRedirect(c.Query(guard.RedirectParam)),
		"status":   appStore.Auth.Status(),
	})
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if err := appStore.Auth.Login(c.Request.Context(), req.Username, req.Password); err != nil {
		respondError(c, err)
		return
	}
	redirect(c, guard.SafeRedirect(c.Query(guard.RedirectParam)))
}

func RegisterPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": appStore.Auth.Status()})
}

func Register(c *gin.Context) {
	var req models.RegisterInput
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if err := appStore.Auth.Register(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	redirect(c, guard.HomePath)
}

// Logout не ходит на сервер, переход на /login делает сам AuthStore через навигатор
func Logout(c *gin.Context) {
	appStore.Auth.Logout(c.Request.Context())
	redirect(c, guard.LoginPath)
}
