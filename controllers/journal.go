package controllers

import (
	"net/http"
	"strconv"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/utils"

	"github.com/gin-gonic/gin"
)

type journalRequest struct {
	Title               string   `json:"title" binding:"required"`
	Description         string   `json:"description" binding:"required"`
	ISSN                string   `json:"issn" binding:"required"`
	ChiefEditor         string   `json:"chief_editor" binding:"required"`
	Scope               *string  `json:"scope"`
	Indexing            *string  `json:"indexing"`
	ImpactFactor        *float64 `json:"impact_factor"`
	PublishingFrequency string   `json:"publishing_frequency" binding:"required"`
	OpenAccess          *bool    `json:"open_access"`
	PeerReviewed        *bool    `json:"peer_reviewed"`
}

func GetJournals(c *gin.Context) {
	var journals []models.Journal
	if err := config.DB.Where("delete_at IS NULL").Order("title ASC").Find(&journals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch journals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "journals": journals})
}

func GetJournal(c *gin.Context) {
	journalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal ID"})
		return
	}

	var journal models.Journal
	if err := config.DB.Where("journal_id = ? AND delete_at IS NULL", journalID).First(&journal).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "journal": journal})
}

func CreateJournal(c *gin.Context) {
	var req journalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !utils.ValidateISSN(req.ISSN) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ISSN format, expected NNNN-NNNC"})
		return
	}

	journal := models.Journal{
		Title:               utils.SanitizeInput(req.Title),
		Description:         req.Description,
		ISSN:                req.ISSN,
		ChiefEditor:         req.ChiefEditor,
		Scope:               req.Scope,
		Indexing:            req.Indexing,
		PublishingFrequency: req.PublishingFrequency,
		OpenAccess:          true,
		PeerReviewed:        true,
	}
	if req.ImpactFactor != nil {
		journal.ImpactFactor = *req.ImpactFactor
	}
	if req.OpenAccess != nil {
		journal.OpenAccess = *req.OpenAccess
	}
	if req.PeerReviewed != nil {
		journal.PeerReviewed = *req.PeerReviewed
	}

	if err := config.DB.Create(&journal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create journal"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "journal": journal})
}

func UpdateJournal(c *gin.Context) {
	journalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal ID"})
		return
	}

	var journal models.Journal
	if err := config.DB.Where("journal_id = ? AND delete_at IS NULL", journalID).First(&journal).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
		return
	}

	var req journalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !utils.ValidateISSN(req.ISSN) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ISSN format, expected NNNN-NNNC"})
		return
	}

	journal.Title = utils.SanitizeInput(req.Title)
	journal.Description = req.Description
	journal.ISSN = req.ISSN
	journal.ChiefEditor = req.ChiefEditor
	journal.Scope = req.Scope
	journal.Indexing = req.Indexing
	journal.PublishingFrequency = req.PublishingFrequency
	if req.ImpactFactor != nil {
		journal.ImpactFactor = *req.ImpactFactor
	}
	if req.OpenAccess != nil {
		journal.OpenAccess = *req.OpenAccess
	}
	if req.PeerReviewed != nil {
		journal.PeerReviewed = *req.PeerReviewed
	}

	if err := config.DB.Save(&journal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update journal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "journal": journal})
}
