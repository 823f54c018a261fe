package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kamalbuilds/zkPassport/core"
	"github.com/kamalbuilds/zkPassport/service"
)

const (
	// ClientIDHeader carries the opaque client identity that keys the
	// persisted session slot. The core never interprets it.
	ClientIDHeader = "X-Client-Id"

	ctxClientID = "clientID"
	ctxAddress  = "address"
	ctxSession  = "session"
)

// SessionMiddleware resolves the client's persisted session and refuses
// requests without an active one. An expired session is treated as absent.
func SessionMiddleware(sessions *service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetHeader(ClientIDHeader)
		if clientID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing client id header"})
			return
		}

		state, err := sessions.Load(c.Request.Context(), clientID)
		if err != nil {
			if errors.Is(err, core.ErrSessionNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			} else {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
			}
			return
		}

		if !service.IsActive(state, time.Now()) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired, please re-authenticate"})
			return
		}

		c.Set(ctxClientID, clientID)
		c.Set(ctxAddress, state.Address)
		c.Set(ctxSession, state)

		c.Next()
	}
}
