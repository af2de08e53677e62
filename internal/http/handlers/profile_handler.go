package handlers

import (
	"devdrawer/internal/http/middleware"
	"devdrawer/internal/services"
	"devdrawer/internal/utils"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	utils.RespondOK(c, gin.H{"user": middleware.CurrentUser(c).Public()})
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var patch services.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	user, err := h.profiles.Update(c.Request.Context(), middleware.CurrentUser(c), patch)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{"user": user.Public()})
}
