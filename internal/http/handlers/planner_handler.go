package handlers

import (
	"devdrawer/internal/http/middleware"
	"devdrawer/internal/services"
	"devdrawer/internal/utils"
	"github.com/gin-gonic/gin"
)

const defaultPlannersPerPage = 20

type PlannerHandler struct {
	planners *services.PlannerService
}

func NewPlannerHandler(planners *services.PlannerService) *PlannerHandler {
	return &PlannerHandler{planners: planners}
}

func (h *PlannerHandler) List(c *gin.Context) {
	page, perPage := utils.ParsePage(c.Query("page"), c.Query("per_page"), defaultPlannersPerPage)

	list, err := h.planners.List(c.Request.Context(), userID(c), page, perPage)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{
		"planners": list.Planners,
		"meta":     utils.NewPagination(page, perPage, list.Total),
	})
}

func (h *PlannerHandler) Create(c *gin.Context) {
	var req services.CreatePlannerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	planner, err := h.planners.Create(c.Request.Context(), userID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondCreated(c, gin.H{"planner": planner})
}

func (h *PlannerHandler) Get(c *gin.Context) {
	planner, err := h.planners.Get(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{"planner": planner})
}

func (h *PlannerHandler) Update(c *gin.Context) {
	var patch services.PlannerPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	planner, err := h.planners.Update(c.Request.Context(), c.Param("id"), userID(c), patch)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{"planner": planner})
}

func (h *PlannerHandler) Duplicate(c *gin.Context) {
	planner, err := h.planners.Duplicate(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondCreated(c, gin.H{"planner": planner})
}

func (h *PlannerHandler) Delete(c *gin.Context) {
	if err := h.planners.Delete(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, gin.H{"success": true})
}

func userID(c *gin.Context) string {
	return middleware.CurrentUser(c).ID
}
