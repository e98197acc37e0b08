package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialweb/events"
	"socialweb/guard"
	"socialweb/logger"
	"socialweb/store"
	"socialweb/transport"
)

var (
	appStore *store.Store
	stateHub *events.Hub
	basePath string
	log      = zap.NewNop()
)

type Deps struct {
	Store    *store.Store
	Hub      *events.Hub
	BasePath string
	Logger   *zap.Logger
}

// Init подключает хендлеры к хранилищу приложения
func Init(d Deps) {
	appStore = d.Store
	stateHub = d.Hub
	basePath = d.BasePath
	log = logger.OrNop(d.Logger)
}

// moduleState - loading/error модуля для ответа представления
type moduleState interface {
	Loading() bool
	LastError() string
}

func state(m moduleState) gin.H {
	return gin.H{"loading": m.Loading(), "error": m.LastError()}
}

// respondError переводит ошибку хранилища в HTTP статус
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrValidation), errors.Is(err, store.ErrFileAbsent):
		status = http.StatusBadRequest
	case transport.StatusCode(err) > 0:
		status = transport.StatusCode(err)
	case transport.IsTimeout(err):
		status = http.StatusGatewayTimeout
	case transport.IsNetwork(err):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		log.Error("view failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, def int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return def
}

// redirect - переход внутри приложения с учетом basePath
func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, guard.WithBase(basePath, location))
}
