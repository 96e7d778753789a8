package httpapi

import (
	"net/http"

	"airwaves/messaging-service/internal/auth"
	"airwaves/messaging-service/internal/models"

	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"max=64"`
}

type signinRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Session *auth.Session  `json:"session"`
	User    models.Profile `json:"user"`
}

func (s *Server) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, bindingError(err))
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		respondError(c, bindingError(err))
		return false
	}
	return true
}

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if !s.bind(c, &req) {
			return
		}

		user, err := s.Auth.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
		if err != nil {
			respondError(c, err)
			return
		}

		session, err := s.Auth.SignIn(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, sessionResponse{Session: session, User: user.Profile()})
	}
}

func (s *Server) handleSignin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signinRequest
		if !s.bind(c, &req) {
			return
		}

		session, err := s.Auth.SignIn(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		resp := sessionResponse{Session: session, User: models.Profile{ID: session.UserID}}
		if session.User != nil {
			resp.User = session.User.Profile()
		}
		c.JSON(http.StatusOK, resp)
	}
}

func (s *Server) handleSignout() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := currentSession(c)
		if err := s.Auth.SignOut(c.Request.Context(), session.Token); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
