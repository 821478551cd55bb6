package handlers

import (
	"net/http"
	"strings"

	"grabbi-storefront/apiclient"
	"grabbi-storefront/dtos"
	"grabbi-storefront/utils"

	"github.com/gin-gonic/gin"
)

type FulfilmentStaffHandler struct {
	API *apiclient.Client
}

func (h *FulfilmentStaffHandler) GetFulfilmentStaff(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	staff, err := h.API.ListFulfilmentStaff(c.Request.Context(), sess.Token())
	if err != nil {
		failUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (h *FulfilmentStaffHandler) CreateFulfilmentStaff(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	var req struct {
		Name      string `json:"name" binding:"required,max=100"`
		Email     string `json:"email" binding:"required,email"`
		Warehouse string `json:"warehouse" binding:"required,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	created, err := h.API.CreateFulfilmentStaff(c.Request.Context(), sess.Token(), dtos.FulfilmentStaff{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Warehouse: strings.TrimSpace(req.Warehouse),
	})
	if err != nil {
		failUpstream(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"staff":        created,
		"notification": notify(LevelSuccess, "Fulfilment staff added"),
	})
}

func (h *FulfilmentStaffHandler) DeleteFulfilmentStaff(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.API.DeleteFulfilmentStaff(c.Request.Context(), sess.Token(), id); err != nil {
		failUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fulfilment staff deleted"})
}
