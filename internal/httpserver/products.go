package httpserver

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	productrepo "vendormart/internal/repository/product"
	catalogsvc "vendormart/internal/service/catalog"
)

// maxImageBytes caps product image uploads at 5 MiB.
const maxImageBytes = 5 << 20

func parseProductFilter(c *gin.Context) productrepo.Filter {
	f := productrepo.Filter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		SortBy:   c.Query("sortBy"),
		Order:    c.Query("order"),
	}
	if v, err := strconv.ParseInt(c.Query("minPrice"), 10, 64); err == nil {
		f.MinPriceCents = v
	}
	if v, err := strconv.ParseInt(c.Query("maxPrice"), 10, 64); err == nil {
		f.MaxPriceCents = v
	}
	if tags := c.Query("tags"); tags != "" {
		f.Tags = strings.Split(tags, ",")
	}
	f.InStock = c.Query("inStock") == "true"
	f.Page, f.Limit = parsePage(c)
	return f
}

func parsePage(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func listProductsHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.List(c.Request.Context(), parseProductFilter(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"products": res.Products,
			"total":    res.Total,
			"page":     res.Page,
			"pages":    res.Pages,
		})
	}
}

func getProductHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": p})
	}
}

func listVendorProductsHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		res, err := svc.ListForVendor(c.Request.Context(), id.SubjectID, parseProductFilter(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"products": res.Products,
			"total":    res.Total,
			"page":     res.Page,
			"pages":    res.Pages,
		})
	}
}

func createProductHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalogsvc.CreateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		id := identityFrom(c)
		p, err := svc.Create(c.Request.Context(), id.SubjectID, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"product": p})
	}
}

func updateProductHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalogsvc.UpdateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		id := identityFrom(c)
		p, err := svc.Update(c.Request.Context(), id.SubjectID, c.Param("id"), req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": p})
	}
}

func deleteProductHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		if err := svc.Delete(c.Request.Context(), id.SubjectID, c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "product removed"})
	}
}

type removeImageRequest struct {
	URL string `json:"url" binding:"required"`
}

func removeProductImageHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req removeImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "image url required")
			return
		}
		id := identityFrom(c)
		p, err := svc.RemoveImage(c.Request.Context(), id.SubjectID, c.Param("id"), req.URL)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": p})
	}
}

func uploadProductImageHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("image")
		if err != nil {
			badRequest(c, "image file required")
			return
		}
		if file.Size > maxImageBytes {
			badRequest(c, "image too large")
			return
		}
		src, err := file.Open()
		if err != nil {
			respondErr(c, err)
			return
		}
		defer src.Close()
		data, err := io.ReadAll(io.LimitReader(src, maxImageBytes+1))
		if err != nil {
			respondErr(c, err)
			return
		}

		id := identityFrom(c)
		p, err := svc.UploadImage(c.Request.Context(), id.SubjectID, c.Param("id"),
			file.Filename, file.Header.Get("Content-Type"), data)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": p})
	}
}
