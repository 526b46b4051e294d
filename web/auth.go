package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"yathra/auth"
	"yathra/config"
	dbt "yathra/db/db"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name, email and password are required"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	user := &dbt.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		Phone:        req.Phone,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(user); err != nil {
		if errors.Is(err, dbt.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "this email is already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "account created",
		"user":    user,
	})
}

type loginRequest struct {
	EmailOrPhone string `json:"emailOrPhone"`
	Password     string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := s.store.GetUserByEmailOrPhone(strings.ToLower(req.EmailOrPhone))
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		// one message for both failure modes, existence stays hidden
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email/phone or password"})
		return
	}

	s.issueToken(c, user)
}

type googleSignInRequest struct {
	IDToken string `json:"idToken"`
}

func (s *Server) googleSignIn(c *gin.Context) {
	var req googleSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if req.IDToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "idToken is required"})
		return
	}
	if s.google == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "google sign-in is not configured"})
		return
	}

	profile, err := s.google.Verify(c.Request.Context(), req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid google token"})
		return
	}

	user, err := s.store.GetUserByGoogleID(profile.Subject)
	if errors.Is(err, dbt.ErrNotFound) {
		user = &dbt.User{
			ID:       uuid.New(),
			Name:     profile.Name,
			Email:    strings.ToLower(profile.Email),
			GoogleID: profile.Subject,
			Avatar:   profile.Picture,
		}
		err = s.store.CreateUser(user)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	s.issueToken(c, user)
}

func (s *Server) me(c *gin.Context) {
	user, err := s.store.GetUserByID(tenantFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) deleteAccount(c *gin.Context) {
	if err := s.store.DeleteUser(tenantFromContext(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

type resetPasswordRequest struct {
	EmailOrPhone string `json:"emailOrPhone"`
	NewPassword  string `json:"newPassword"`
}

func (s *Server) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "newPassword is required"})
		return
	}

	user, err := s.store.GetUserByEmailOrPhone(strings.ToLower(req.EmailOrPhone))
	if err != nil {
		writeError(c, err)
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	if err := s.store.UpdateUserPassword(user.ID, hash); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (s *Server) issueToken(c *gin.Context, user *dbt.User) {
	token, err := auth.SignToken(config.JWTSecret(), user.ID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
