package handlers

import (
	"net/http"
	"net/url"

	"grabbi-storefront/apiclient"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	API *apiclient.Client
}

var productFilters = []string{"search", "category", "page", "limit"}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	query := url.Values{}
	for _, key := range productFilters {
		if v := c.Query(key); v != "" {
			query.Set(key, v)
		}
	}

	products, err := h.API.ListProducts(c.Request.Context(), query)
	if err != nil {
		failUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.API.GetProduct(c.Request.Context(), id)
	if err != nil {
		if apiclient.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		failUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
