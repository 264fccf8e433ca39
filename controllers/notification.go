package controllers

import (
	"net/http"
	"strconv"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetAdminFeed derives the attention feed from current manuscript state:
// pending submissions, overdue reviews, manuscripts ready for publication and
// open revision requests, ordered by priority then recency.
func GetAdminFeed(c *gin.Context) {
	manuscripts, err := entityStore().Query(services.ManuscriptQuery{})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	feed := services.BuildAdminFeed(manuscripts, time.Now())
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": feed, "total": len(feed)})
}

// GetMyNotifications lists the stored notifications for the authenticated user.
func GetMyNotifications(c *gin.Context) {
	actor := currentActor(c)

	query := config.DB.Where("user_id = ?", actor.UserID)
	if c.Query("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("create_at DESC").Limit(100).Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": notifications, "total": len(notifications)})
}

// MarkNotificationRead marks one of the caller's notifications as read.
func MarkNotificationRead(c *gin.Context) {
	notificationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	actor := currentActor(c)
	result := config.DB.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, actor.UserID).
		Update("is_read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllNotificationsRead clears the caller's unread badge.
func MarkAllNotificationsRead(c *gin.Context) {
	actor := currentActor(c)
	result := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", actor.UserID, false).
		Update("is_read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": result.RowsAffected})
}
