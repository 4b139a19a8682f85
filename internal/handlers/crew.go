package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/orbit-backend/internal/services"
)

type CrewHandler struct {
	crewService services.CrewService
}

func NewCrewHandler(crewService services.CrewService) *CrewHandler {
	return &CrewHandler{crewService: crewService}
}

func (ch *CrewHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var input services.CrewCreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	crew, err := ch.crewService.CreateCrew(c.Request.Context(), userID, &input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, crew)
}

func (ch *CrewHandler) Get(c *gin.Context) {
	crewID, ok := pathUUID(c, "crew_id")
	if !ok {
		return
	}
	crew, err := ch.crewService.GetCrew(c.Request.Context(), crewID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, crew)
}

func (ch *CrewHandler) List(c *gin.Context) {
	crews, err := ch.crewService.ListCrews(c.Request.Context(), c.Query("tag"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"crews": crews})
}

func (ch *CrewHandler) Join(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	crewID, ok := pathUUID(c, "crew_id")
	if !ok {
		return
	}
	if err := ch.crewService.JoinCrew(c.Request.Context(), crewID, userID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "joined crew"})
}

func (ch *CrewHandler) Leave(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	crewID, ok := pathUUID(c, "crew_id")
	if !ok {
		return
	}
	if err := ch.crewService.LeaveCrew(c.Request.Context(), crewID, userID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "left crew"})
}

func (ch *CrewHandler) Members(c *gin.Context) {
	crewID, ok := pathUUID(c, "crew_id")
	if !ok {
		return
	}
	members, err := ch.crewService.ListMembers(c.Request.Context(), crewID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"members": members})
}

func pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid %s", param))
		return uuid.Nil, false
	}
	return id, true
}
