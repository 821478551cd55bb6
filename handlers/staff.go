package handlers

import (
	"net/http"
	"strings"

	"grabbi-storefront/apiclient"
	"grabbi-storefront/dtos"
	"grabbi-storefront/utils"

	"github.com/gin-gonic/gin"
)

type StaffHandler struct {
	API *apiclient.Client
}

func (h *StaffHandler) GetStaff(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	staff, err := h.API.ListStaff(c.Request.Context(), sess.Token())
	if err != nil {
		failUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (h *StaffHandler) CreateStaff(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	var req struct {
		Name     string `json:"name" binding:"required,max=100"`
		Email    string `json:"email" binding:"required,email"`
		Role     string `json:"role" binding:"required,oneof=staff admin"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	created, err := h.API.CreateStaff(c.Request.Context(), sess.Token(), dtos.Staff{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		failUpstream(c, err)
		return
	}

	created.Password = ""
	c.JSON(http.StatusCreated, gin.H{
		"staff":        created,
		"notification": notify(LevelSuccess, "Staff member added"),
	})
}

func (h *StaffHandler) DeleteStaff(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if id == sess.Identity().ID {
		fail(c, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	if err := h.API.DeleteStaff(c.Request.Context(), sess.Token(), id); err != nil {
		failUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff member deleted"})
}
