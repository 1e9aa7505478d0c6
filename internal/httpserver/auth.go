package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vendormart/internal/domain"
	authsvc "vendormart/internal/service/auth"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
}

type vendorResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ShopName string `json:"shopName"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role}
}

func toVendorResponse(v *domain.Vendor) vendorResponse {
	return vendorResponse{ID: v.ID, Name: v.Name, Email: v.Email, ShopName: v.ShopName}
}

func registerUserHandler(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req authsvc.RegisterUserInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		u, token, err := svc.RegisterUser(c.Request.Context(), req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(u), "token": token})
	}
}

func loginUserHandler(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "email and password required")
			return
		}
		u, token, err := svc.LoginUser(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": toUserResponse(u), "token": token})
	}
}

func registerVendorHandler(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req authsvc.RegisterVendorInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		v, token, err := svc.RegisterVendor(c.Request.Context(), req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"vendor": toVendorResponse(v), "token": token})
	}
}

func loginVendorHandler(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "email and password required")
			return
		}
		v, token, err := svc.LoginVendor(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"vendor": toVendorResponse(v), "token": token})
	}
}

func getProfileHandler(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		u, err := svc.GetUser(c.Request.Context(), id.SubjectID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": toUserResponse(u)})
	}
}

func updateProfileHandler(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req authsvc.UpdateProfileInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		id := identityFrom(c)
		u, err := svc.UpdateProfile(c.Request.Context(), id.SubjectID, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": toUserResponse(u)})
	}
}
