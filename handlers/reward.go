package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"grabbi-storefront/apiclient"
	"grabbi-storefront/dtos"
	"grabbi-storefront/redemption"

	"github.com/gin-gonic/gin"
)

type RewardHandler struct {
	API  *apiclient.Client
	Flow *redemption.Flow
}

func (h *RewardHandler) GetRewards(c *gin.Context) {
	rewards, err := h.API.ListRewards(c.Request.Context(), "")
	if err != nil {
		failUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, rewards)
}

func (h *RewardHandler) GetReward(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	reward, ok := h.fetchReward(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, reward)
}

func (h *RewardHandler) RedeemReward(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	reward, ok := h.fetchReward(c, id)
	if !ok {
		return
	}

	res, err := h.Flow.Redeem(c.Request.Context(), sess, *reward)
	if err != nil {
		failRedemption(c, err)
		return
	}

	respondRedeemed(c, res, fmt.Sprintf("%s redeemed", reward.Name))
}

// GiftReward spends the caller's points on a reward for another customer.
// The recipient is checked before the reward is fetched, so an empty
// username never reaches the backend.
func (h *RewardHandler) GiftReward(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Recipient string `json:"recipient"`
	}
	// An absent body is the same as an empty recipient.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	recipient, err := redemption.ValidateRecipient(req.Recipient)
	if err != nil {
		failRedemption(c, err)
		return
	}

	reward, ok := h.fetchReward(c, id)
	if !ok {
		return
	}

	res, err := h.Flow.Gift(c.Request.Context(), sess, *reward, recipient)
	if err != nil {
		failRedemption(c, err)
		return
	}

	respondRedeemed(c, res, fmt.Sprintf("%s gifted to %s", reward.Name, recipient))
}

func (h *RewardHandler) GetRedeemedRewards(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	identity := sess.Identity()
	records, err := h.API.ListRedeemedRewards(c.Request.Context(), sess.Token(), identity.ID)
	if err != nil {
		failUpstream(c, err)
		return
	}

	received, gifted := []dtos.RedeemedReward{}, []dtos.RedeemedReward{}
	for _, r := range records {
		if r.IsGifted && r.OriginalCustomerID == identity.ID && r.CustomerID != identity.ID {
			gifted = append(gifted, r)
			continue
		}
		received = append(received, r)
	}

	c.JSON(http.StatusOK, gin.H{
		"rewards": received,
		"gifted":  gifted,
		"points":  identity.Points,
	})
}

func (h *RewardHandler) fetchReward(c *gin.Context, id int64) (*dtos.Reward, bool) {
	reward, err := h.API.GetReward(c.Request.Context(), "", id)
	if err != nil {
		if apiclient.IsNotFound(err) {
			fail(c, http.StatusNotFound, "Reward not found")
			return nil, false
		}
		failUpstream(c, err)
		return nil, false
	}
	return reward, true
}

func respondRedeemed(c *gin.Context, res *redemption.Result, message string) {
	c.JSON(http.StatusOK, gin.H{
		"message":         message,
		"notification":    notify(LevelSuccess, message),
		"points":          res.Balance,
		"record":          res.Record,
		"attemptId":       res.AttemptID,
		"redirect":        res.Redirect,
		"redirectAfterMs": res.RedirectAfter.Milliseconds(),
	})
}

func failRedemption(c *gin.Context, err error) {
	var rerr *redemption.Error
	if !errors.As(err, &rerr) {
		failUpstream(c, err)
		return
	}

	body := gin.H{
		"error":        rerr.Message(),
		"kind":         rerr.Kind,
		"notification": notify(LevelError, rerr.Message()),
	}
	if rerr.Partial {
		body["partial"] = true
	}
	c.JSON(redemptionStatus(rerr), body)
}

func redemptionStatus(err *redemption.Error) int {
	switch err.Kind {
	case redemption.KindNoSession:
		return http.StatusUnauthorized
	case redemption.KindEmptyRecipient, redemption.KindInvalidReward:
		return http.StatusBadRequest
	case redemption.KindInsufficientPoints, redemption.KindTierTooLow:
		return http.StatusUnprocessableEntity
	case redemption.KindRecipientNotFound:
		return http.StatusNotFound
	case redemption.KindBalanceUpdateFailed:
		return upstreamStatus(err.Err)
	}
	return http.StatusBadGateway
}
