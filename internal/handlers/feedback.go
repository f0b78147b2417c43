package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirementis/hirementis/internal/services"
	"github.com/hirementis/hirementis/pkg/errors"
	"github.com/hirementis/hirementis/pkg/response"
)

// FeedbackHandler stores and serves interview feedback for the current user.
type FeedbackHandler struct {
	feedbacks *services.FeedbackService
}

func NewFeedbackHandler(feedbacks *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbacks: feedbacks}
}

type saveFeedbackRequest struct {
	Job      *services.JobSnapshot   `json:"job"`
	Feedback *services.FeedbackInput `json:"feedback"`
}

// POST /feedback/save
func (h *FeedbackHandler) Save(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, errors.ErrNoToken)
		return
	}

	var req saveFeedbackRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Job == nil || req.Feedback == nil {
		response.Error(c, services.ErrFeedbackRequired)
		return
	}

	feedback, updated, err := h.feedbacks.Save(requestContext(c), user.ID, *req.Job, *req.Feedback)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.MessageWith(c, http.StatusOK, "Feedback saved successfully", response.H{
		"feedback": feedback,
		"user":     updated,
	})
}

// GET /feedback/user-feedbacks
func (h *FeedbackHandler) ListByUser(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, errors.ErrNoToken)
		return
	}

	feedbacks, err := h.feedbacks.ListByUser(requestContext(c), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.MessageWith(c, http.StatusOK, "feedback fetched successfully", response.H{"feedbacks": feedbacks})
}

// GET /feedback/:id
func (h *FeedbackHandler) GetByID(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, errors.ErrNoToken)
		return
	}

	feedback, err := h.feedbacks.GetByID(requestContext(c), user.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.MessageWith(c, http.StatusOK, "feedback fetched successfully", response.H{"feedback": feedback})
}
