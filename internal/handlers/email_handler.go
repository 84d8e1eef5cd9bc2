package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"axiestudio/internal/services"
)

type EmailHandler struct {
	verifySvc services.EmailVerificationService
	resetSvc  services.PasswordResetService
	userSvc   services.UserService
}

func NewEmailHandler(verifySvc services.EmailVerificationService, resetSvc services.PasswordResetService, userSvc services.UserService) *EmailHandler {
	return &EmailHandler{verifySvc: verifySvc, resetSvc: resetSvc, userSvc: userSvc}
}

// genericResetResponse is returned whether or not the email exists, so
// responses cannot be used to enumerate accounts.
func genericResetResponse(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "If an account with that email exists, a 6-digit verification code has been sent.",
		"success": true,
	})
}

// @Summary      Verify email
// @Description  Consumes the confirmation token from the email link, activates the account and logs the user in
// @Tags         Email
// @Produce      json
// @Param        token  query     string  true  "Verification token"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Router       /email/verify [get]
func (h *EmailHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Verification token is required"})
		return
	}

	user, pair, err := h.verifySvc.VerifyEmail(token)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTokenExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Verification token has expired. Please request a new verification email."})
		case errors.Is(err, services.ErrInvalidToken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired verification token. If you already verified your email, please try logging in directly."})
		default:
			log.Printf("[email][verify] internal error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		}
		return
	}

	resp := gin.H{
		"message":  "Email verified successfully! Your account is now active.",
		"verified": true,
		"username": user.Username,
	}
	if pair != nil {
		resp["access_token"] = pair.AccessToken
		resp["refresh_token"] = pair.RefreshToken
		resp["token_type"] = "bearer"
		resp["auto_login"] = true
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Resend verification email
// @Tags         Email
// @Accept       json
// @Produce      json
// @Param        request  body      object{email=string}  true  "Email"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Failure      429      {object}  map[string]string
// @Router       /email/resend [post]
func (h *EmailHandler) ResendVerification(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userSvc.ResendVerification(req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyVerified):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already verified"})
		case errors.Is(err, services.ErrResendThrottled):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, try later"})
		default:
			log.Printf("[email][resend] failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification email"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "If this email exists in our system, a verification email has been sent.",
		"success": true,
	})
}

// @Summary      Request password reset
// @Description  Sends a single-use 6-digit code; the response never reveals whether the email exists
// @Tags         Email
// @Accept       json
// @Produce      json
// @Param        request  body      object{email=string}  true  "Email"
// @Success      200      {object}  map[string]interface{}
// @Failure      429      {object}  map[string]string
// @Router       /email/forgot-password [post]
func (h *EmailHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.resetSvc.ForgotPassword(req.Email); err != nil {
		if errors.Is(err, services.ErrResendThrottled) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, try later"})
			return
		}
		log.Printf("[email][forgot] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
		return
	}
	genericResetResponse(c)
}

// @Summary      Verify password reset code
// @Tags         Email
// @Accept       json
// @Produce      json
// @Param        request  body      object{email=string,code=string}  true  "Email and code"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Failure      429      {object}  map[string]string
// @Router       /email/verify-reset-code [post]
func (h *EmailHandler) VerifyResetCode(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.resetSvc.VerifyResetCode(req.Email, req.Code); err != nil {
		h.resetError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"verified": true,
		"message":  "Code verified successfully. You can now set a new password.",
	})
}

// @Summary      Change password with reset code
// @Tags         Email
// @Accept       json
// @Produce      json
// @Param        request  body      object{email=string,code=string,new_password=string}  true  "Email, code, new password"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Failure      429      {object}  map[string]string
// @Router       /email/change-password [post]
func (h *EmailHandler) ChangePasswordWithCode(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required"`
		Code        string `json:"code" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.resetSvc.ChangePasswordWithCode(req.Email, req.Code, req.NewPassword); err != nil {
		h.resetError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password changed successfully. You can now log in with your new password.",
	})
}

// resetError maps reset-flow outcomes onto responses. A mismatch reports
// the remaining budget; rate limiting deliberately says nothing about
// when (or whether) the window resets.
func (h *EmailHandler) resetError(c *gin.Context, err error) {
	var mismatch *services.CodeMismatchError
	switch {
	case errors.As(err, &mismatch):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":              "Invalid verification code",
			"remaining_attempts": mismatch.Remaining,
		})
	case errors.Is(err, services.ErrTooManyAttempts):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many failed attempts. Please request a new code."})
	case errors.Is(err, services.ErrInvalidCodeFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid code format. Please enter 6 digits."})
	case errors.Is(err, services.ErrResetCodeExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code has expired. Please request a new one."})
	case errors.Is(err, services.ErrNoResetCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No password reset code found. Please request a new one."})
	case errors.Is(err, services.ErrInvalidReset):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or verification code"})
	default:
		log.Printf("[email][reset] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
	}
}
