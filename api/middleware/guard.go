package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"socialweb/guard"
)

// RouteKey - ключ gin.Context, под которым лежит guard.Route текущего запроса
const RouteKey = "route"

// Guard проверяет каждый запрос по таблице маршрутов до хендлера
func Guard(auth guard.AuthState, basePath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		pattern := guard.StripBase(c.FullPath(), basePath)
		route, ok := guard.ByPattern(pattern)
		if !ok {
			route = guard.NotFound
		}
		c.Set(RouteKey, route)

		d := guard.Decide(route.Meta, auth.IsAuthenticated(), c.Request.URL.RequestURI(), basePath)
		RecordGuardDecision(route.Name, d.Action)
		if d.Action == guard.Proceed {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, guard.WithBase(basePath, d.Location))
		c.Abort()
	}
}
