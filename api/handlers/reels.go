package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"socialweb/models"
	"socialweb/services"
)

func Reels(c *gin.Context) {
	q := models.ReelQuery{
		Limit: queryInt(c, "limit", services.DefaultPageLimit),
		Skip:  queryInt(c, "skip", 0),
	}
	if v := c.Query("user_id"); v != "" {
		if uid, err := strconv.ParseInt(v, 10, 64); err == nil {
			q.UserID = &uid
		}
	}
	reels, err := appStore.Reels.FetchReels(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reels": reels, "state": state(appStore.Reels)})
}

// CreateReel - multipart: title, description, video_file
func CreateReel(c *gin.Context) {
	video, err := formFile(c, services.VideoFileField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload", "details": err.Error()})
		return
	}
	in := models.ReelInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Video:       video,
	}
	reel, err := appStore.Reels.CreateReel(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reel)
}

func ReelDetail(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	reel, err := appStore.Reels.FetchReelByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	comments, err := appStore.Reels.FetchReelComments(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reel": reel, "comments": comments, "state": state(appStore.Reels)})
}

func LikeReel(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := appStore.Reels.LikeReel(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	reel := appStore.Reels.CurrentReel()
	if reel == nil || reel.ID != id {
		if r, found := appStore.Reels.ReelByID(id); found {
			reel = &r
		}
	}
	c.JSON(http.StatusOK, gin.H{"reel": reel})
}

func CommentReel(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if err := appStore.Reels.CommentOnReel(c.Request.Context(), id, req.Content); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comments": appStore.Reels.ReelComments(id)})
}

// formFile читает файл из multipart. Отсутствие поля или не-multipart тело -
// не ошибка, а models.NoFile: решение принимает хранилище
func formFile(c *gin.Context, field string) (models.FileInput, error) {
	hdr, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return models.NoFile(), nil
	}
	if err != nil {
		return models.NoFile(), err
	}
	f, err := hdr.Open()
	if err != nil {
		return models.NoFile(), err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return models.NoFile(), err
	}
	return models.NewFile(data, hdr.Filename, hdr.Header.Get("Content-Type")), nil
}
