package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rao-samarth/timetable-generator/internal/api/middleware"
	"github.com/rao-samarth/timetable-generator/internal/scheduler"
	"github.com/rao-samarth/timetable-generator/pkg/response"
)

// MustGetSessionID extracts the session id injected by the Session
// middleware. A missing id means the middleware chain is miswired; the
// request gets a 500 and the caller should return on ok=false.
func MustGetSessionID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.SessionKey)
	if !exists {
		response.InternalError(c)
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.InternalError(c)
		return "", false
	}
	return s, true
}

// personFromQuery reads the optional person identifier. Empty is the shared
// identity: callers that never name a person edit one common schedule.
func personFromQuery(c *gin.Context) scheduler.Person {
	return scheduler.Person(c.Query("person"))
}
