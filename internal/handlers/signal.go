package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/orbit-backend/internal/services"
)

type SignalHandler struct {
	signalService services.SignalService
}

func NewSignalHandler(signalService services.SignalService) *SignalHandler {
	return &SignalHandler{signalService: signalService}
}

// Check is the discovery endpoint: returns the user's active pod,
// pending signal, a freshly formed signal, or no_match.
func (sh *SignalHandler) Check(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	result, err := sh.signalService.CheckForSignal(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (sh *SignalHandler) Accept(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	signalID, ok := pathUUID(c, "signal_id")
	if !ok {
		return
	}
	result, err := sh.signalService.AcceptSignal(c.Request.Context(), userID, signalID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (sh *SignalHandler) Reveal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	podID, ok := pathUUID(c, "pod_id")
	if !ok {
		return
	}
	result, err := sh.signalService.RevealPod(c.Request.Context(), userID, podID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (sh *SignalHandler) UpdateContactInfo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var input services.ContactInfoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	info, err := sh.signalService.UpdateContactInfo(c.Request.Context(), userID, input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, info)
}
