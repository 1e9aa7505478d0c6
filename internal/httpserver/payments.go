package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	paymentsvc "vendormart/internal/service/payment"
)

func createProviderOrderHandler(svc PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		po, err := svc.CreateProviderOrder(c.Request.Context(), id.SubjectID, c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"providerOrder": po})
	}
}

func verifyPaymentHandler(svc PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paymentsvc.VerifyInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		id := identityFrom(c)
		inv, err := svc.VerifyPayment(c.Request.Context(), id.SubjectID, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"invoice": inv})
	}
}

func listInvoicesHandler(svc PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		invs, err := svc.ListInvoices(c.Request.Context(), id.SubjectID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"invoices": invs})
	}
}

func getInvoiceHandler(svc PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		inv, err := svc.GetInvoice(c.Request.Context(), id.SubjectID, c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"invoice": inv})
	}
}

func regenerateInvoiceHandler(svc PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		inv, err := svc.RegenerateInvoice(c.Request.Context(), id.SubjectID, c.Param("paymentId"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"invoice": inv})
	}
}
