package handlers

import (
	"net/http"
	"strings"

	"grabbi-storefront/apiclient"
	"grabbi-storefront/dtos"
	"grabbi-storefront/utils"

	"github.com/gin-gonic/gin"
)

type AddressHandler struct {
	API *apiclient.Client
}

type addressRequest struct {
	Line1     string `json:"line1" binding:"required,max=200"`
	Line2     string `json:"line2" binding:"max=200"`
	City      string `json:"city" binding:"required,max=100"`
	Postcode  string `json:"postcode" binding:"required,max=10"`
	IsDefault bool   `json:"isDefault"`
}

func (r addressRequest) address(customerID int64) dtos.Address {
	return dtos.Address{
		CustomerID: customerID,
		Line1:      strings.TrimSpace(r.Line1),
		Line2:      strings.TrimSpace(r.Line2),
		City:       strings.TrimSpace(r.City),
		Postcode:   strings.ToUpper(strings.TrimSpace(r.Postcode)),
		IsDefault:  r.IsDefault,
	}
}

func (h *AddressHandler) GetAddresses(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	addresses, err := h.API.ListAddresses(c.Request.Context(), sess.Token(), sess.Identity().ID)
	if err != nil {
		failUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, addresses)
}

func (h *AddressHandler) CreateAddress(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	created, err := h.API.CreateAddress(c.Request.Context(), sess.Token(), req.address(sess.Identity().ID))
	if err != nil {
		failUpstream(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"address":      created,
		"notification": notify(LevelSuccess, "Address saved"),
	})
}

func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	addr := req.address(sess.Identity().ID)
	addr.ID = id
	if err := h.API.UpdateAddress(c.Request.Context(), sess.Token(), addr); err != nil {
		failUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"address":      addr,
		"notification": notify(LevelSuccess, "Address updated"),
	})
}

func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.API.DeleteAddress(c.Request.Context(), sess.Token(), id); err != nil {
		failUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}
