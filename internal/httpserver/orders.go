package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vendormart/internal/domain"
	ordersvc "vendormart/internal/service/order"
)

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func createOrderHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ordersvc.CreateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		id := identityFrom(c)
		o, err := svc.Create(c.Request.Context(), id.SubjectID, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"order": o})
	}
}

func checkoutHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ordersvc.CheckoutInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		id := identityFrom(c)
		o, err := svc.Checkout(c.Request.Context(), id.SubjectID, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"order": o})
	}
}

func listOrdersHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		page, limit := parsePage(c)
		orders, err := svc.ListForUser(c.Request.Context(), id.SubjectID, page, limit)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func listVendorOrdersHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		page, limit := parsePage(c)
		orders, err := svc.ListForVendor(c.Request.Context(), id.SubjectID, page, limit)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func listAllOrdersHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := parsePage(c)
		orders, err := svc.ListAll(c.Request.Context(), page, limit)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func getOrderHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		o, err := svc.Get(c.Request.Context(), id.SubjectID, id.Role, c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": o})
	}
}

func updateOrderStatusHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "status required")
			return
		}
		id := identityFrom(c)
		o, err := svc.UpdateStatus(c.Request.Context(), id.SubjectID, id.Role, c.Param("id"), domain.OrderStatus(req.Status))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": o})
	}
}

func cancelOrderHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		o, err := svc.Cancel(c.Request.Context(), id.SubjectID, c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": o})
	}
}
