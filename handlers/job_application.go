package handlers

import (
	"net/http"
	"strings"

	"grabbi-storefront/apiclient"
	"grabbi-storefront/dtos"
	"grabbi-storefront/utils"

	"github.com/gin-gonic/gin"
)

type JobApplicationHandler struct {
	API *apiclient.Client
}

// SubmitApplication is public; candidates do not have accounts.
func (h *JobApplicationHandler) SubmitApplication(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required,max=100"`
		Email       string `json:"email" binding:"required,email"`
		Phone       string `json:"phone" binding:"required,max=20"`
		Position    string `json:"position" binding:"required,max=100"`
		CoverLetter string `json:"coverLetter" binding:"max=5000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	err := h.API.SubmitJobApplication(c.Request.Context(), dtos.JobApplication{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       strings.TrimSpace(req.Phone),
		Position:    strings.TrimSpace(req.Position),
		CoverLetter: strings.TrimSpace(req.CoverLetter),
		Status:      dtos.ApplicationPending,
	})
	if err != nil {
		failUpstream(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Application submitted",
		"notification": notify(LevelSuccess, "Thanks for applying. We will be in touch."),
	})
}

func (h *JobApplicationHandler) GetApplications(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	apps, err := h.API.ListJobApplications(c.Request.Context(), sess.Token())
	if err != nil {
		failUpstream(c, err)
		return
	}

	if status := c.Query("status"); status != "" {
		filtered := make([]dtos.JobApplication, 0, len(apps))
		for _, a := range apps {
			if strings.EqualFold(a.Status, status) {
				filtered = append(filtered, a)
			}
		}
		apps = filtered
	}
	c.JSON(http.StatusOK, apps)
}

func (h *JobApplicationHandler) UpdateStatus(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=approved rejected"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	if err := h.API.SetJobApplicationStatus(c.Request.Context(), sess.Token(), id, req.Status); err != nil {
		failUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Application " + req.Status,
		"notification": notify(LevelSuccess, "Application "+req.Status),
	})
}
