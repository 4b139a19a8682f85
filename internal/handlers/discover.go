package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/orbit-backend/internal/services"
)

type DiscoverHandler struct {
	discoverService services.DiscoverService
}

func NewDiscoverHandler(discoverService services.DiscoverService) *DiscoverHandler {
	return &DiscoverHandler{discoverService: discoverService}
}

func (dh *DiscoverHandler) Users(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	suggestions, err := dh.discoverService.SuggestedUsers(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"users": suggestions})
}

func (dh *DiscoverHandler) Crews(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	suggestions, err := dh.discoverService.SuggestedCrews(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"crews": suggestions})
}

func (dh *DiscoverHandler) Missions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	suggestions, err := dh.discoverService.SuggestedMissions(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"missions": suggestions})
}
