package controllers

import (
	"errors"
	"net/http"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

func entityStore() services.EntityStore {
	return services.NewGormStore(config.DB)
}

func notificationTrigger() *services.NotificationTrigger {
	return services.NewNotificationTrigger(services.NewDeliveryQueue(config.DB, config.SendMail))
}

func workflowService() *services.WorkflowService {
	return services.NewWorkflowService(entityStore(), notificationTrigger())
}

func reviewService() *services.ReviewService {
	return services.NewReviewService(entityStore(), services.NewGormIdentityResolver(config.DB))
}

func metricsService() *services.MetricsService {
	return services.NewMetricsService(entityStore())
}

// currentActor pulls the authenticated caller out of the gin context set by
// the auth middleware.
func currentActor(c *gin.Context) services.Actor {
	actor := services.Actor{}
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok {
			actor.UserID = id
		}
	}
	if v, ok := c.Get("role"); ok {
		if role, ok := v.(models.Role); ok {
			actor.Role = role
		}
	}
	return actor
}

// abortWithServiceError maps the engine's typed errors onto HTTP statuses.
func abortWithServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrIllegalTransition),
		errors.Is(err, services.ErrInvalidReviewer),
		errors.Is(err, services.ErrIncompleteReview),
		errors.Is(err, services.ErrAlreadyPublished),
		errors.Is(err, services.ErrDoiGenerationFailed):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}
