package controllers

import (
	"net/http"
	"time"

	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

// parseMetricsWindow reads the optional from/to/bucket query parameters.
func parseMetricsWindow(c *gin.Context) (services.MetricsWindow, bool) {
	window := services.MetricsWindow{Bucket: services.BucketMonth}
	if c.Query("bucket") == "day" {
		window.Bucket = services.BucketDay
	}
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
			return window, false
		}
		window.From = from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
			return window, false
		}
		window.To = to
	}
	return window, true
}

// GetDashboardMetrics returns the full editorial metrics snapshot, optionally
// windowed by from/to and bucketed by day or month.
func GetDashboardMetrics(c *gin.Context) {
	window, ok := parseMetricsWindow(c)
	if !ok {
		return
	}

	metrics, err := metricsService().ComputeMetrics(window, time.Now())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "metrics": metrics})
}

// GetWorkflowCounts is the lightweight status board: manuscript and review
// counts grouped by state.
func GetWorkflowCounts(c *gin.Context) {
	metrics, err := metricsService().ComputeMetrics(services.MetricsWindow{}, time.Now())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"manuscripts_by_status": metrics.ManuscriptsByStatus,
		"reviews_by_status":     metrics.ReviewsByStatus,
		"overdue_reviews":       metrics.OverdueReviews,
		"total_manuscripts":     metrics.TotalManuscripts,
	})
}

// GetReviewerPerformance exposes the per-reviewer completion and on-time
// rates used by the editorial board.
func GetReviewerPerformance(c *gin.Context) {
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
		"success":       true,
		"performance":   metrics.ReviewerPerformance,
		"top_reviewers": metrics.TopReviewers,
	})
}
