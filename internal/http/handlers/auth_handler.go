package handlers

import (
	"devdrawer/internal/http/middleware"
	"devdrawer/internal/services"
	"devdrawer/internal/utils"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth   *services.AuthService
	cookie CookieConfig
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type ForgotRequest struct {
	Email string `json:"email"`
}

type ResetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func NewAuthHandler(auth *services.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	res, err := h.auth.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	h.cookie.set(c, res.Session)
	utils.RespondCreated(c, gin.H{
		"user":    res.User.Public(),
		"message": "Account created. Please check your email to verify your account.",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	h.cookie.set(c, res.Session)
	utils.RespondOK(c, gin.H{"user": res.User.Public()})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookie.clear(c)
	utils.RespondOK(c, gin.H{"success": true})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	msg, err := h.auth.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{"message": msg})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{"success": true, "message": "Password reset successfully."})
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	if err := h.auth.VerifyEmail(c.Request.Context(), c.Query("token")); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{"success": true, "message": "Email verified successfully."})
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	if err := h.auth.ResendVerification(c.Request.Context(), middleware.CurrentUser(c)); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{"success": true, "message": "Verification email sent."})
}
