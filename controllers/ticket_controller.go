package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/assistec/assistec-api/config"
	"github.com/assistec/assistec-api/models"
	"github.com/assistec/assistec-api/services"
)

// CreateTicketRequest represents the request body for creating a ticket
type CreateTicketRequest struct {
	ClientID    uint       `json:"client_id" binding:"required"`
	Description string     `json:"description" binding:"required"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// UpdateTicketRequest represents the request body for updating a ticket
type UpdateTicketRequest struct {
	Description string     `json:"description" binding:"omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// ChangeStatusRequest represents the request body for a status transition
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// AssignTicketRequest represents the request body for assigning a technician
type AssignTicketRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// ProgressNoteRequest represents the request body for a progress note
type ProgressNoteRequest struct {
	Text string `json:"text" binding:"required"`
}

// CreateTicket handles POST /api/v1/tickets - opens a new service order
func CreateTicket(c *gin.Context) {
	actor, ok := resolveActor(c)
	if !ok {
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var client models.Client
	if err := db.First(&client, req.ClientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CLIENT_NOT_FOUND",
				"message": "Client not found",
			},
		})
		return
	}

	ticket := models.Ticket{
		ClientID:    client.ID,
		Description: req.Description,
		ScheduledAt: req.ScheduledAt,
		Status:      models.StatusPendente,
		CreatedByID: actor.ID,
	}

	if err := db.Create(&ticket).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create ticket",
			},
		})
		return
	}

	// Load relationships to return complete data
	if err := db.Preload("Client").Preload("CreatedBy").First(&ticket, ticket.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load ticket details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    ticket,
	})
}

// ListTickets handles GET /api/v1/tickets - lists tickets with optional
// status, client and assignee filters
func ListTickets(c *gin.Context) {
	if _, ok := resolveActor(c); !ok {
		return
	}

	db := config.GetDB()
	query := db.Model(&models.Ticket{}).
		Preload("Client").
		Preload("AssignedTo").
		Preload("CreatedBy")

	if status := c.Query("status"); status != "" {
		parsed, err := models.NewTicketStatus(status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid status filter",
				},
			})
			return
		}
		query = query.Where("status = ?", parsed)
	}
	if clientID := c.Query("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		query = query.Where("assigned_to_id = ?", assignedTo)
	}
	if faturado := c.Query("faturado"); faturado != "" {
		query = query.Where("faturado = ?", faturado == "true")
	}

	var tickets []models.Ticket
	if err := query.Order("created_at DESC").Find(&tickets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch tickets",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tickets,
	})
}

// GetTicket handles GET /api/v1/tickets/:id - fetches one ticket with its
// client, assignee and linked equipment
func GetTicket(c *gin.Context) {
	if _, ok := resolveActor(c); !ok {
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var ticket models.Ticket
	if err := db.Preload("Client").
		Preload("AssignedTo").
		Preload("CreatedBy").
		Preload("Equipment").
		First(&ticket, ticketID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TICKET_NOT_FOUND",
				"message": "Ticket not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ticket,
	})
}

// UpdateTicket handles PUT /api/v1/tickets/:id - updates description and
// scheduling. Billed tickets reject edits.
func UpdateTicket(c *gin.Context) {
	if _, ok := resolveActor(c); !ok {
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var ticket models.Ticket
	if err := db.First(&ticket, ticketID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TICKET_NOT_FOUND",
				"message": "Ticket not found",
			},
		})
		return
	}

	if ticket.IsBilled() {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TICKET_BILLED",
				"message": "Billed tickets cannot be edited",
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.ScheduledAt != nil {
		updates["scheduled_at"] = req.ScheduledAt
	}

	if len(updates) > 0 {
		if err := db.Model(&ticket).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update ticket",
				},
			})
			return
		}
	}

	if err := db.Preload("Client").Preload("AssignedTo").Preload("CreatedBy").First(&ticket, ticket.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load ticket details",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ticket,
	})
}

// ChangeTicketStatus handles PATCH /api/v1/tickets/:id/status - moves a
// ticket through the status lifecycle
func ChangeTicketStatus(c *gin.Context) {
	actor, ok := resolveActor(c)
	if !ok {
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	newStatus, err := models.NewTicketStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	ticket, err := services.GetWorkflowService().ChangeStatus(ticketID, newStatus, req.Reason, actor)
	if err != nil {
		workflowErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ticket,
	})
}

// AssignTicket handles PATCH /api/v1/tickets/:id/assign - reassigns the
// ticket to a technician
func AssignTicket(c *gin.Context) {
	actor, ok := resolveActor(c)
	if !ok {
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	ticket, err := services.GetWorkflowService().AssignTicket(ticketID, req.UserID, actor)
	if err != nil {
		workflowErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ticket,
	})
}

// AddProgressNote handles POST /api/v1/tickets/:id/notes - appends a
// free-text progress entry to the ticket's history
func AddProgressNote(c *gin.Context) {
	actor, ok := resolveActor(c)
	if !ok {
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ProgressNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	entry, err := services.GetWorkflowService().AddProgressNote(ticketID, req.Text, actor)
	if err != nil {
		workflowErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    entry,
	})
}

// MarkTicketBilled handles POST /api/v1/tickets/:id/billing - flags a
// completed ticket as invoiced. There is no endpoint to undo this.
func MarkTicketBilled(c *gin.Context) {
	actor, ok := resolveActor(c)
	if !ok {
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ticket, err := services.GetWorkflowService().MarkBilled(ticketID, actor)
	if err != nil {
		workflowErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ticket,
	})
}

// GetTicketHistory handles GET /api/v1/tickets/:id/history - returns the
// ticket's audit trail, newest first
func GetTicketHistory(c *gin.Context) {
	if _, ok := resolveActor(c); !ok {
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := services.GetWorkflowService().ListHistory(ticketID)
	if err != nil {
		workflowErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
	})
}
