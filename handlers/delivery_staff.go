package handlers

import (
	"net/http"
	"strings"

	"grabbi-storefront/apiclient"
	"grabbi-storefront/dtos"
	"grabbi-storefront/firebase"
	"grabbi-storefront/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type DeliveryStaffHandler struct {
	API     *apiclient.Client
	Storage firebase.StorageClient
	Logger  logrus.FieldLogger
}

// RegisterDeliveryStaff uploads the licence scan and then registers the
// driver. If the backend rejects the driver the uploaded scan is removed.
func (h *DeliveryStaffHandler) RegisterDeliveryStaff(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	var req struct {
		Name          string `form:"name" binding:"required,max=100"`
		Email         string `form:"email" binding:"required,email"`
		Phone         string `form:"phone" binding:"required,max=20"`
		VehicleType   string `form:"vehicle_type" binding:"required,oneof=bicycle motorbike car van"`
		LicenceNumber string `form:"licence_number" binding:"required,max=50"`
	}
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	if h.Storage == nil {
		fail(c, http.StatusServiceUnavailable, "Document uploads are not configured")
		return
	}

	fileHeader, err := c.FormFile("licence")
	if err != nil {
		fail(c, http.StatusBadRequest, "A licence image is required")
		return
	}
	if err := utils.ValidateFileUpload(fileHeader); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid image")
		return
	}
	ctx := c.Request.Context()
	imageURL, err := h.Storage.UploadLicenceImage(ctx, file, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	file.Close()
	if err != nil {
		h.Logger.WithError(err).Error("Licence upload failed")
		fail(c, http.StatusInternalServerError, "Image upload failed")
		return
	}

	created, err := h.API.RegisterDeliveryStaff(ctx, sess.Token(), dtos.DeliveryStaff{
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         strings.TrimSpace(req.Phone),
		VehicleType:   req.VehicleType,
		LicenceNumber: strings.ToUpper(strings.TrimSpace(req.LicenceNumber)),
		LicenceImage:  imageURL,
	})
	if err != nil {
		h.removeUpload(c, imageURL)
		failUpstream(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"staff":        created,
		"notification": notify(LevelSuccess, "Delivery driver registered"),
	})
}

func (h *DeliveryStaffHandler) removeUpload(c *gin.Context, imageURL string) {
	objectPath, err := firebase.ObjectPath(imageURL)
	if err != nil {
		h.Logger.WithError(err).WithField("url", imageURL).Warn("Cannot derive object path for orphaned licence")
		return
	}
	if err := h.Storage.DeleteFile(c.Request.Context(), objectPath); err != nil {
		h.Logger.WithError(err).WithField("object", objectPath).Warn("Failed to delete orphaned licence")
	}
}
