package handlers

import (
	"net/http"
	"time"

	"grabbi-storefront/apiclient"
	"grabbi-storefront/dtos"
	"grabbi-storefront/redemption"
	"grabbi-storefront/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type VoucherHandler struct {
	API      *apiclient.Client
	Sessions session.Store
	Logger   logrus.FieldLogger
	Now      func() time.Time
}

// GetVouchers lists vouchers that have not expired.
func (h *VoucherHandler) GetVouchers(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	vouchers, err := h.API.ListVouchers(c.Request.Context(), sess.Token())
	if err != nil {
		failUpstream(c, err)
		return
	}

	now := h.now()
	active := make([]dtos.Voucher, 0, len(vouchers))
	for _, v := range vouchers {
		if v.ExpiresAt != nil && v.ExpiresAt.Before(now) {
			continue
		}
		active = append(active, v)
	}

	c.JSON(http.StatusOK, gin.H{"vouchers": active, "points": sess.Points()})
}

// ClaimVoucher spends the voucher's points. The backend debits the balance
// itself; the cached balance is reduced to match so later gifts and redeems
// start from the right figure.
func (h *VoucherHandler) ClaimVoucher(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	vouchers, err := h.API.ListVouchers(ctx, sess.Token())
	if err != nil {
		failUpstream(c, err)
		return
	}
	var voucher *dtos.Voucher
	for i := range vouchers {
		if vouchers[i].ID == id {
			voucher = &vouchers[i]
			break
		}
	}
	if voucher == nil || (voucher.ExpiresAt != nil && voucher.ExpiresAt.Before(h.now())) {
		fail(c, http.StatusNotFound, "Voucher not found")
		return
	}
	if voucher.PointsRequired > sess.Points() {
		failRedemption(c, redemption.ErrInsufficientPoints)
		return
	}

	claim := dtos.VoucherClaim{CustomerID: sess.Identity().ID, VoucherID: id}
	if err := h.API.ClaimVoucher(ctx, sess.Token(), claim); err != nil {
		failUpstream(c, err)
		return
	}

	points := sess.Points() - voucher.PointsRequired
	sess.SetPoints(points)
	if h.Sessions != nil {
		if err := h.Sessions.Save(ctx, sess); err != nil {
			h.Logger.WithError(err).WithField("user_id", sess.Identity().ID).Warn("Failed to persist session after voucher claim")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Voucher claimed",
		"notification": notify(LevelSuccess, "Voucher claimed"),
		"points":       points,
	})
}

func (h *VoucherHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
