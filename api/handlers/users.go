package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"socialweb/models"
	"socialweb/services"
)

// Profile - пользователь по username и признак подписки на него
func Profile(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := appStore.Users.FetchUserByUsername(ctx, c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err = appStore.Users.FetchFollowing(ctx); err != nil {
		respondError(c, err)
		return
	}
	me := appStore.Auth.CurrentUser()
	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"is_me":        me != nil && me.ID == user.ID,
		"is_following": appStore.Users.IsFollowing(user.ID),
		"state":        state(appStore.Users),
	})
}

func Follow(c *gin.Context) {
	followAction(c, appStore.Users.Follow)
}

func Unfollow(c *gin.Context) {
	followAction(c, appStore.Users.Unfollow)
}

func followAction(c *gin.Context, action func(context.Context, int64) error) {
	ctx := c.Request.Context()
	user, err := appStore.Users.FetchUserByUsername(ctx, c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err = action(ctx, user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"is_following": appStore.Users.IsFollowing(user.ID),
		"following":    appStore.Users.Following(),
	})
}

func UpdateMe(c *gin.Context) {
	var req models.UserUpdate
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	user, err := appStore.Users.UpdateMe(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func UploadProfilePicture(c *gin.Context) {
	uploadImage(c, appStore.Users.UploadProfilePicture)
}

func UploadBackgroundImage(c *gin.Context) {
	uploadImage(c, appStore.Users.UploadBackgroundImage)
}

func uploadImage(c *gin.Context, upload func(context.Context, models.FileInput) (*models.User, error)) {
	file, err := formFile(c, services.UploadFileField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload", "details": err.Error()})
		return
	}
	user, err := upload(c.Request.Context(), file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
