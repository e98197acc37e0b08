package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"socialweb/guard"
	"socialweb/models"
	"socialweb/services"
)

type CommentRequest struct {
	Content string `form:"content" json:"content" binding:"required"`
}

// Home - лента постов, limit/skip/search из query
func Home(c *gin.Context) {
	q := models.PostQuery{
		Limit:  queryInt(c, "limit", services.DefaultPageLimit),
		Skip:   queryInt(c, "skip", 0),
		Search: c.Query("search"),
	}
	posts, err := appStore.Posts.FetchPosts(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"posts":        posts,
		"current_user": appStore.Auth.CurrentUser(),
		"state":        state(appStore.Posts),
	})
}

func PostDetail(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	post, err := appStore.Posts.FetchPostByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	comments, err := appStore.Comments.FetchComments(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"post":     post,
		"comments": comments,
		"state":    state(appStore.Posts),
	})
}

func CreatePostPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": state(appStore.Posts)})
}

func CreatePost(c *gin.Context) {
	var req models.PostInput
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	post, err := appStore.Posts.CreatePost(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// EditPostPage - редактировать можно только свой пост
func EditPostPage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	post, err := appStore.Posts.FetchPostByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if me := appStore.Auth.CurrentUser(); me != nil && post.OwnerID != 0 && post.OwnerID != me.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func EditPost(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req models.PostInput
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	post, err := appStore.Posts.UpdatePost(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func DeletePost(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := appStore.Posts.DeletePost(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	redirect(c, guard.HomePath)
}

func VotePost(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := appStore.Posts.VotePost(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	post := appStore.Posts.CurrentPost()
	if post == nil || post.ID != id {
		if p, found := appStore.Posts.PostByID(id); found {
			post = &p
		}
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func CommentPost(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if _, err := appStore.Comments.CreateComment(c.Request.Context(), id, req.Content); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comments": appStore.Comments.CommentsByPostID(id)})
}
