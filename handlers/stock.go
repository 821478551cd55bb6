package handlers

import (
	"net/http"
	"strconv"

	"grabbi-storefront/apiclient"
	"grabbi-storefront/dtos"
	"grabbi-storefront/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type StockHandler struct {
	API    *apiclient.Client
	Logger logrus.FieldLogger
}

// ImportStock validates every row locally before sending the batch.
func (h *StockHandler) ImportStock(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	var batch dtos.StockImport
	if err := c.ShouldBindJSON(&batch); err != nil {
		fail(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	result, err := h.API.ImportStock(c.Request.Context(), sess.Token(), batch)
	if err != nil {
		failUpstream(c, err)
		return
	}

	h.Logger.WithFields(logrus.Fields{
		"user_id":  sess.Identity().ID,
		"rows":     len(batch.Rows),
		"imported": result.Imported,
		"failed":   result.Failed,
	}).Info("Stock import finished")

	level := LevelSuccess
	if result.Failed > 0 {
		level = LevelInfo
	}
	c.JSON(http.StatusOK, gin.H{
		"result":       result,
		"notification": notify(level, importSummary(result)),
	})
}

func importSummary(r *dtos.StockImportResult) string {
	if r.Failed == 0 {
		return pluralize(r.Imported, "row") + " imported"
	}
	return pluralize(r.Imported, "row") + " imported, " + pluralize(r.Failed, "row") + " failed"
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
