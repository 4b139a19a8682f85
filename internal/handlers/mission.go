package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/orbit-backend/internal/services"
)

type MissionHandler struct {
	missionService services.MissionService
}

func NewMissionHandler(missionService services.MissionService) *MissionHandler {
	return &MissionHandler{missionService: missionService}
}

func (mh *MissionHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var input services.MissionCreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	mission, err := mh.missionService.CreateMission(c.Request.Context(), userID, &input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mission)
}

func (mh *MissionHandler) Get(c *gin.Context) {
	missionID, ok := pathUUID(c, "mission_id")
	if !ok {
		return
	}
	mission, err := mh.missionService.GetMission(c.Request.Context(), missionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, mission)
}

func (mh *MissionHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	missionID, ok := pathUUID(c, "mission_id")
	if !ok {
		return
	}
	var input services.MissionUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	mission, err := mh.missionService.UpdateMission(c.Request.Context(), missionID, userID, &input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, mission)
}

func (mh *MissionHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	missionID, ok := pathUUID(c, "mission_id")
	if !ok {
		return
	}
	if err := mh.missionService.DeleteMission(c.Request.Context(), missionID, userID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "mission deleted"})
}

func (mh *MissionHandler) List(c *gin.Context) {
	missions, err := mh.missionService.ListMissions(c.Request.Context(), c.Query("tag"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"missions": missions})
}

func (mh *MissionHandler) RSVP(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	missionID, ok := pathUUID(c, "mission_id")
	if !ok {
		return
	}
	var req struct {
		Type string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := mh.missionService.RSVPMission(c.Request.Context(), missionID, userID, req.Type); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "rsvp recorded"})
}

func (mh *MissionHandler) CancelRSVP(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	missionID, ok := pathUUID(c, "mission_id")
	if !ok {
		return
	}
	if err := mh.missionService.CancelRSVP(c.Request.Context(), missionID, userID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "rsvp cancelled"})
}
