package controller

import (
	"errors"
	"net/http"

	"github.com/fruitfulhq/storefront-backend/internal/app/service"
	apperrors "github.com/fruitfulhq/storefront-backend/internal/errors"
	"github.com/fruitfulhq/storefront-backend/internal/middleware"
	"github.com/fruitfulhq/storefront-backend/pkg/commerce"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService service.AuthService
	otpService  service.OTPService
}

func NewAuthController(authService service.AuthService, otpService service.OTPService) *AuthController {
	return &AuthController{
		authService: authService,
		otpService:  otpService,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

type OTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type OTPVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// Login exchanges credentials for backend-issued tokens
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	tokens, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid email or password")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.BadGateway(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

// Register creates a shopper account on the backend
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	tokens, err := ctrl.authService.Register(c.Request.Context(), commerce.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	})
	if err != nil {
		if errors.Is(err, commerce.ErrInvalidRequest) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Registration was rejected. Check your details and try again")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.BadGateway(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

// RequestOTP emails a one-time verification code
// POST /api/v1/auth/otp/request
func (ctrl *AuthController) RequestOTP(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if err := ctrl.otpService.RequestCode(c.Request.Context(), req.Email); err != nil {
		log.Error("Failed to issue verification code", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

// VerifyOTP checks a one-time verification code
// POST /api/v1/auth/otp/verify
func (ctrl *AuthController) VerifyOTP(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	err := ctrl.otpService.VerifyCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOTPCodeInvalid):
			apperrors.BadRequest(c, apperrors.AuthCodeInvalid, "Incorrect verification code")
		case errors.Is(err, service.ErrOTPCodeExpired):
			apperrors.BadRequest(c, apperrors.AuthCodeExpired, "Verification code has expired. Request a new one")
		case errors.Is(err, service.ErrOTPTooManyAttempts):
			apperrors.RespondWithError(c, http.StatusTooManyRequests, apperrors.AuthTooManyAttempts, "Too many attempts. Request a new code")
		default:
			log.Error("Failed to verify code", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification successful"})
}
