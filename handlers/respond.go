package handlers

import (
	"net/http"
	"strconv"

	"grabbi-storefront/apiclient"
	"grabbi-storefront/middleware"
	"grabbi-storefront/session"

	"github.com/gin-gonic/gin"
)

const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelError   = "error"
)

// Notification is a transient message the page shows as a toast.
type Notification struct {
	Level       string `json:"level"`
	Message     string `json:"message"`
	Dismissible bool   `json:"dismissible"`
}

func notify(level, message string) Notification {
	return Notification{Level: level, Message: message, Dismissible: true}
}

// fail answers with an error message and a dismissible error toast.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error":        message,
		"notification": notify(LevelError, message),
	})
}

// upstreamStatus maps a backend failure onto the status the browser sees.
// Client errors the user can act on pass through; everything else is 502.
func upstreamStatus(err error) int {
	switch status := apiclient.StatusCode(err); status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
		http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity:
		return status
	}
	return http.StatusBadGateway
}

func failUpstream(c *gin.Context, err error) {
	fail(c, upstreamStatus(err), apiclient.Message(err))
}

// requireSession returns the request's session or answers 401.
func requireSession(c *gin.Context) (*session.Session, bool) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in to continue"})
		return nil, false
	}
	return sess, true
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}
