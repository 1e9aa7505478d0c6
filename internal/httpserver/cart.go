package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func getCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		cart, err := svc.Get(c.Request.Context(), id.SubjectID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

func addCartItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "productId required")
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		id := identityFrom(c)
		cart, err := svc.AddItem(c.Request.Context(), id.SubjectID, req.ProductID, req.Quantity)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

func updateCartItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "quantity required")
			return
		}
		id := identityFrom(c)
		cart, err := svc.UpdateLineQuantity(c.Request.Context(), id.SubjectID, c.Param("lineId"), req.Quantity)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

func removeCartItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		cart, err := svc.RemoveLine(c.Request.Context(), id.SubjectID, c.Param("lineId"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

func clearCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		if err := svc.Clear(c.Request.Context(), id.SubjectID); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
	}
}
