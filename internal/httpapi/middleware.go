package httpapi

import (
	"airwaves/messaging-service/internal/apperrors"
	"airwaves/messaging-service/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	ctxSession = "session"
	ctxUserID  = "userID"
)

// Authorize resolves the bearer token into a session. Websocket clients that
// cannot set headers may pass the token as the access_token query parameter.
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("access_token")
		}
		if token == "" {
			respondAndAbort(c, apperrors.ErrNoSession)
			return
		}

		session, err := s.Auth.GetSession(c.Request.Context(), token)
		if err != nil {
			respondAndAbort(c, err)
			return
		}

		c.Set(ctxSession, session)
		c.Set(ctxUserID, session.UserID)
		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), session))
		c.Next()
	}
}

func currentSession(c *gin.Context) *auth.Session {
	v, ok := c.Get(ctxSession)
	if !ok {
		return nil
	}
	session, _ := v.(*auth.Session)
	return session
}

func currentUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
