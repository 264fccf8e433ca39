package controllers

import (
	"net/http"
	"strconv"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

type submitManuscriptRequest struct {
	JournalID uint    `json:"journal_id" binding:"required"`
	Title     string  `json:"title" binding:"required"`
	Abstract  string  `json:"abstract" binding:"required"`
	Keywords  *string `json:"keywords"`
}

// SubmitManuscript registers a new submission for the authenticated author.
func SubmitManuscript(c *gin.Context) {
	var req submitManuscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var journal models.Journal
	if err := config.DB.Where("journal_id = ? AND delete_at IS NULL", req.JournalID).First(&journal).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
		return
	}

	actor := currentActor(c)
	manuscript := &models.Manuscript{
		JournalID:             req.JournalID,
		Title:                 req.Title,
		Abstract:              req.Abstract,
		Keywords:              req.Keywords,
		CorrespondingAuthorID: actor.UserID,
	}

	manuscript, err := workflowService().SubmitManuscript(manuscript, actor)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "manuscript": manuscript})
}

func GetManuscripts(c *gin.Context) {
	query := services.ManuscriptQuery{}
	if status := c.Query("status"); status != "" {
		query.Statuses = []models.ManuscriptStatus{models.ManuscriptStatus(status)}
	}
	if journalID, err := strconv.Atoi(c.Query("journal_id")); err == nil && journalID > 0 {
		id := uint(journalID)
		query.JournalID = &id
	}

	manuscripts, err := entityStore().Query(query)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "manuscripts": manuscripts, "total": len(manuscripts)})
}

func GetManuscript(c *gin.Context) {
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
	c.JSON(http.StatusOK, gin.H{"success": true, "manuscript": manuscript})
}

type transitionRequest struct {
	Status            models.ManuscriptStatus `json:"status" binding:"required"`
	Comment           string                  `json:"comment"`
	EditorID          *uint                   `json:"editor_id"`
	AssociateEditorID *uint                   `json:"associate_editor_id"`
}

// UpdateManuscriptStatus requests a workflow transition, optionally binding
// editors in the same atomic write.
func UpdateManuscriptStatus(c *gin.Context) {
	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	overrides := &services.AssignmentOverrides{
		EditorID:          req.EditorID,
		AssociateEditorID: req.AssociateEditorID,
	}
	manuscript, err := workflowService().RequestTransition(uint(manuscriptID), req.Status, currentActor(c), req.Comment, overrides)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "manuscript": manuscript})
}

// WithdrawManuscript is the author/editor escape hatch.
func WithdrawManuscript(c *gin.Context) {
	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	var req struct {
		Comment string `json:"comment"`
	}
	_ = c.ShouldBindJSON(&req)

	manuscript, err := workflowService().RequestTransition(uint(manuscriptID), models.StatusWithdrawn, currentActor(c), req.Comment, nil)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "manuscript": manuscript})
}
