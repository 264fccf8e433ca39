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

type assignReviewersRequest struct {
	ReviewerIDs []uint     `json:"reviewer_ids" binding:"required,min=1"`
	DueDate     *time.Time `json:"due_date"`
}

// AssignReviewers invites the listed reviewers to a manuscript. The set is
// validated as a whole; one bad ID rejects the entire request.
func AssignReviewers(c *gin.Context) {
	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	var req assignReviewersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	manuscript, err := reviewService().AssignReviewers(uint(manuscriptID), req.ReviewerIDs, req.DueDate, currentActor(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "manuscript": manuscript})
}

type bulkAssignRequest struct {
	Assignments []services.BulkAssignment `json:"assignments" binding:"required,min=1"`
}

// BulkAssignReviewers processes several manuscripts in one call. Failures are
// reported per item; a bad manuscript never blocks the rest of the batch.
func BulkAssignReviewers(c *gin.Context) {
	var req bulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := reviewService().BulkAssign(req.Assignments, currentActor(c))
	c.JSON(http.StatusOK, gin.H{"success": true, "results": results})
}

type reviewOutcomeRequest struct {
	SubStatus      models.ReviewSubStatus `json:"sub_status" binding:"required"`
	Rating         *int                   `json:"rating"`
	Recommendation *string                `json:"recommendation"`
	Comments       *string                `json:"comments"`
}

// UpdateReviewAssignment moves a review through its lifecycle. Completion
// requires a rating and recommendation.
func UpdateReviewAssignment(c *gin.Context) {
	assignmentID, err := strconv.Atoi(c.Param("assignmentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}

	var req reviewOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome := services.ReviewOutcome{
		Rating:         req.Rating,
		Recommendation: req.Recommendation,
		Comments:       req.Comments,
	}
	assignment, err := reviewService().RecordReviewOutcome(uint(assignmentID), req.SubStatus, outcome, currentActor(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "assignment": assignment})
}

// GetMyReviews lists the authenticated reviewer's assignments, flagging the
// overdue ones at read time.
func GetMyReviews(c *gin.Context) {
	actor := currentActor(c)

	var assignments []models.ReviewAssignment
	query := config.DB.Where("reviewer_id = ?", actor.UserID)
	if subStatus := c.Query("sub_status"); subStatus != "" {
		query = query.Where("sub_status = ?", subStatus)
	}
	if err := query.Order("assigned_at DESC").Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	now := time.Now()
	type reviewItem struct {
		models.ReviewAssignment
		IsOverdue bool `json:"is_overdue"`
	}
	items := make([]reviewItem, 0, len(assignments))
	for _, a := range assignments {
		items = append(items, reviewItem{ReviewAssignment: a, IsOverdue: a.IsOverdueAt(now)})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": items, "total": len(items)})
}

// GetManuscriptReviews lists every review assignment on a manuscript.
func GetManuscriptReviews(c *gin.Context) {
	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	manuscript, err := entityStore().Get(uint(manuscriptID))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"manuscript":  manuscript.ManuscriptCode,
		"assignments": manuscript.ReviewAssignments,
	})
}
