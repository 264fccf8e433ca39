package controllers

import (
	"net/http"
	"strconv"
	"time"

	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

type publishRequest struct {
	Comment   string  `json:"comment"`
	Volume    *int    `json:"volume"`
	Issue     *int    `json:"issue"`
	PageRange *string `json:"page_range"`
}

// PublishManuscript transitions an accepted manuscript to published and stamps
// the issue metadata.
func PublishManuscript(c *gin.Context) {
	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	overrides := &services.AssignmentOverrides{
		Volume:    req.Volume,
		Issue:     req.Issue,
		PageRange: req.PageRange,
	}
	manuscript, err := workflowService().RequestTransition(uint(manuscriptID), models.StatusPublished, currentActor(c), req.Comment, overrides)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "manuscript": manuscript})
}

// GenerateDOI mints a DOI for an accepted or published manuscript.
func GenerateDOI(c *gin.Context) {
	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	doi, err := workflowService().GenerateDOI(uint(manuscriptID), currentActor(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "doi": doi})
}

// GetPublicationMetrics reports windowed publication aggregates: counts,
// trend, time-to-publication and per-journal rates.
func GetPublicationMetrics(c *gin.Context) {
	window, ok := parseMetricsWindow(c)
	if !ok {
		return
	}

	metrics, err := metricsService().ComputeMetrics(window, time.Now())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":                      true,
		"published_in_window":          metrics.PublishedInWindow,
		"avg_time_to_publication_days": metrics.AvgTimeToPublicationDays,
		"publication_trend":            metrics.PublicationTrend,
		"top_journals":                 metrics.TopJournals,
		"publication_rate_by_journal":  metrics.PublicationRateByJournal,
	})
}

// GetReadyForPublication lists accepted manuscripts awaiting an issue slot.
func GetReadyForPublication(c *gin.Context) {
	query := services.ManuscriptQuery{
		Statuses: []models.ManuscriptStatus{models.StatusAccepted},
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
