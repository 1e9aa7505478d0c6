package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	addresssvc "vendormart/internal/service/address"
)

func listAddressesHandler(svc AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		addrs, err := svc.List(c.Request.Context(), id.SubjectID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"addresses": addrs})
	}
}

func addAddressHandler(svc AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addresssvc.AddInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		id := identityFrom(c)
		addr, err := svc.Add(c.Request.Context(), id.SubjectID, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"address": addr})
	}
}

func setDefaultAddressHandler(svc AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		addr, err := svc.SetDefault(c.Request.Context(), id.SubjectID, c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"address": addr})
	}
}

func deleteAddressHandler(svc AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		if err := svc.Delete(c.Request.Context(), id.SubjectID, c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "address removed"})
	}
}
