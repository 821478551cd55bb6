package handlers

import (
	"net/http"

	"grabbi-storefront/apiclient"
	"grabbi-storefront/dtos"
	"grabbi-storefront/session"
	"grabbi-storefront/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CartHandler keeps a copy of the cart in the session. Mutations are applied
// to that copy first and put back if the backend rejects them.
type CartHandler struct {
	API      *apiclient.Client
	Sessions session.Store
	Logger   logrus.FieldLogger
}

func (h *CartHandler) GetCart(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	lines, err := h.API.GetCart(c.Request.Context(), sess.Token(), sess.Identity().ID)
	if err != nil {
		failUpstream(c, err)
		return
	}

	sess.SetCart(lines)
	h.save(c, sess)
	c.JSON(http.StatusOK, cartView(sess))
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	var req struct {
		ProductID int64 `json:"productId" binding:"required,min=1"`
		Quantity  int   `json:"quantity" binding:"required,min=1,max=99"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	customerID := sess.Identity().ID
	var existing *dtos.CartLine
	before := sess.UpdateCart(func(lines []dtos.CartLine) []dtos.CartLine {
		for i := range lines {
			if lines[i].ProductID == req.ProductID {
				lines[i].Quantity += req.Quantity
				line := lines[i]
				existing = &line
				return lines
			}
		}
		return append(lines, dtos.CartLine{CustomerID: customerID, ProductID: req.ProductID, Quantity: req.Quantity})
	})

	ctx := c.Request.Context()
	if existing != nil && existing.ID != 0 {
		if err := h.API.UpdateCartLine(ctx, sess.Token(), *existing); err != nil {
			h.revert(c, sess, before, err)
			return
		}
	} else {
		created, err := h.API.AddCartLine(ctx, sess.Token(), dtos.CartLine{
			CustomerID: customerID,
			ProductID:  req.ProductID,
			Quantity:   req.Quantity,
		})
		if err != nil {
			h.revert(c, sess, before, err)
			return
		}
		sess.UpdateCart(func(lines []dtos.CartLine) []dtos.CartLine {
			for i := range lines {
				if lines[i].ID == 0 && lines[i].ProductID == req.ProductID {
					lines[i] = *created
				}
			}
			return lines
		})
	}

	h.save(c, sess)
	view := cartView(sess)
	view["notification"] = notify(LevelSuccess, "Added to cart")
	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required,min=1,max=99"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	var updated *dtos.CartLine
	before := sess.UpdateCart(func(lines []dtos.CartLine) []dtos.CartLine {
		for i := range lines {
			if lines[i].ID == id {
				lines[i].Quantity = req.Quantity
				line := lines[i]
				updated = &line
			}
		}
		return lines
	})
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	if err := h.API.UpdateCartLine(c.Request.Context(), sess.Token(), *updated); err != nil {
		h.revert(c, sess, before, err)
		return
	}

	h.save(c, sess)
	c.JSON(http.StatusOK, cartView(sess))
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	found := false
	before := sess.UpdateCart(func(lines []dtos.CartLine) []dtos.CartLine {
		kept := lines[:0]
		for _, line := range lines {
			if line.ID == id {
				found = true
				continue
			}
			kept = append(kept, line)
		}
		return kept
	})
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	if err := h.API.DeleteCartLine(c.Request.Context(), sess.Token(), id); err != nil {
		h.revert(c, sess, before, err)
		return
	}

	h.save(c, sess)
	view := cartView(sess)
	view["notification"] = notify(LevelInfo, "Item removed from cart")
	c.JSON(http.StatusOK, view)
}

// revert restores the cart as it was before an optimistic change.
func (h *CartHandler) revert(c *gin.Context, sess *session.Session, before []dtos.CartLine, err error) {
	sess.SetCart(before)
	h.save(c, sess)
	h.Logger.WithError(err).WithField("user_id", sess.Identity().ID).Info("Cart change rejected, reverted")
	failUpstream(c, err)
}

func (h *CartHandler) save(c *gin.Context, sess *session.Session) {
	if err := h.Sessions.Save(c.Request.Context(), sess); err != nil {
		h.Logger.WithError(err).Warn("Failed to persist cart")
	}
}

func cartView(sess *session.Session) gin.H {
	lines := sess.Cart()
	items := 0
	total := 0.0
	for _, line := range lines {
		items += line.Quantity
		if line.Product != nil {
			total += line.Product.Price * float64(line.Quantity)
		}
	}
	return gin.H{"items": lines, "count": items, "total": total}
}
