package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"grabbi-storefront/apiclient"
	"grabbi-storefront/dtos"
	"grabbi-storefront/session"
	"grabbi-storefront/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	API        *apiclient.Client
	Sessions   session.Store
	SessionTTL time.Duration
	Logger     logrus.FieldLogger
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name            string `json:"name" binding:"required,max=100"`
		Email           string `json:"email" binding:"required,email"`
		Phone           string `json:"phone" binding:"omitempty,max=20"`
		Password        string `json:"password" binding:"required,min=8"`
		ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	err := h.API.Register(c.Request.Context(), apiclient.RegisterRequest{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Phone:    strings.TrimSpace(req.Phone),
		Password: req.Password,
	})
	if err != nil {
		failUpstream(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Registration successful",
		"notification": notify(LevelSuccess, "Check your email for a verification code."),
		"redirect":     "/verify-otp?email=" + url.QueryEscape(email),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	auth, err := h.API.Login(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		failUpstream(c, err)
		return
	}

	h.startSession(c, auth)
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required,len=6,numeric"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	auth, err := h.API.VerifyOTP(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.Code)
	if err != nil {
		failUpstream(c, err)
		return
	}

	h.startSession(c, auth)
}

// GoogleSignIn forwards the Google credential to the backend untouched.
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	var req struct {
		Credential string `json:"credential" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	auth, err := h.API.GoogleSignIn(c.Request.Context(), req.Credential)
	if err != nil {
		failUpstream(c, err)
		return
	}

	h.startSession(c, auth)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	if err := h.Sessions.Delete(c.Request.Context(), sess.Token()); err != nil {
		h.Logger.WithError(err).Error("Failed to delete session")
		fail(c, http.StatusServiceUnavailable, "Could not sign out. Please try again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully", "redirect": "/login"})
}

// Profile refreshes the cached identity from the backend.
func (h *AuthHandler) Profile(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	identity, err := h.API.Profile(c.Request.Context(), sess.Token())
	if err != nil {
		failUpstream(c, err)
		return
	}

	sess.SetIdentity(*identity)
	if err := h.Sessions.Save(c.Request.Context(), sess); err != nil {
		h.Logger.WithError(err).Warn("Failed to persist refreshed profile")
	}

	c.JSON(http.StatusOK, gin.H{"user": identity})
}

func (h *AuthHandler) startSession(c *gin.Context, auth *dtos.AuthResponse) {
	if auth.Token == "" {
		fail(c, http.StatusBadGateway, "Sign-in failed. Please try again.")
		return
	}

	expiresAt := session.ExpiryFromToken(auth.Token, h.SessionTTL, time.Now())
	sess := session.New(auth.Token, auth.User, expiresAt)
	if err := h.Sessions.Save(c.Request.Context(), sess); err != nil {
		h.Logger.WithError(err).Error("Failed to store session")
		fail(c, http.StatusServiceUnavailable, "Could not sign in. Please try again.")
		return
	}

	h.Logger.WithFields(logrus.Fields{"user_id": auth.User.ID, "role": auth.User.Role}).Info("Session started")
	c.JSON(http.StatusOK, gin.H{
		"token":     auth.Token,
		"user":      auth.User,
		"expiresAt": expiresAt,
		"redirect":  homeFor(auth.User.Role),
	})
}

func homeFor(role string) string {
	switch role {
	case dtos.RoleAdmin, dtos.RoleStaff:
		return "/admin"
	}
	return "/"
}
