package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionKey is the gin context key holding the session id.
const SessionKey = "session_id"

// sessionIDMaxLen bounds externally supplied session ids.
const sessionIDMaxLen = 64

// Session binds every request to a selection session. Clients carry the id in
// the X-Session-ID header; a missing or oversized id gets a fresh UUID, which
// is echoed back so the client can stick to it. Selection state is keyed by
// this id; two browsers with different ids never see each other's picks.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetHeader("X-Session-ID")
		if sid == "" || len(sid) > sessionIDMaxLen {
			sid = uuid.New().String()
		}

		c.Set(SessionKey, sid)
		c.Header("X-Session-ID", sid)

		c.Next()
	}
}
