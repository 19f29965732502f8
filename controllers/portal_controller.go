package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/assistec/assistec-api/config"
	"github.com/assistec/assistec-api/middleware"
	"github.com/assistec/assistec-api/models"
	"github.com/assistec/assistec-api/services"
)

// CreatePortalLinkRequest represents the request body for issuing a portal token
type CreatePortalLinkRequest struct {
	ClientID uint `json:"client_id" binding:"required"`
}

// CreatePortalLink handles POST /api/v1/portal/links - issues a client-scoped
// portal token (admins only). The token grants read-only access to the
// client's own tickets.
func CreatePortalLink(c *gin.Context) {
	actor, ok := resolveActor(c)
	if !ok {
		return
	}

	if !actor.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only admins can issue portal links",
			},
		})
		return
	}

	var req CreatePortalLinkRequest
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

	tokenService, err := services.NewPortalTokenService(config.GetConfig())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PORTAL_UNAVAILABLE",
				"message": "Portal links are not configured",
			},
		})
		return
	}

	token, expiresAt, err := tokenService.IssueToken(client.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TOKEN_ERROR",
				"message": "Failed to issue portal token",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"client_id":  client.ID,
			"token":      token,
			"expires_at": expiresAt,
		},
	})
}

// PortalListTickets handles GET /api/v1/portal/tickets - lists the tickets
// of the client the portal token is scoped to
func PortalListTickets(c *gin.Context) {
	clientID, err := middleware.GetPortalClientID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Portal client scope not found",
			},
		})
		return
	}

	db := config.GetDB()
	var tickets []models.Ticket
	if err := db.Where("client_id = ?", clientID).
		Preload("AssignedTo").
		Preload("Equipment").
		Order("created_at DESC").
		Find(&tickets).Error; err != nil {
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

// PortalGetTicket handles GET /api/v1/portal/tickets/:id - fetches one of
// the client's own tickets. Tickets of other clients return 404, not 403,
// so the portal leaks nothing about other clients' data.
func PortalGetTicket(c *gin.Context) {
	clientID, err := middleware.GetPortalClientID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Portal client scope not found",
			},
		})
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var ticket models.Ticket
	if err := db.Where("client_id = ?", clientID).
		Preload("AssignedTo").
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

// PortalTicketHistory handles GET /api/v1/portal/tickets/:id/history -
// returns the audit trail of one of the client's own tickets, newest first
func PortalTicketHistory(c *gin.Context) {
	clientID, err := middleware.GetPortalClientID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Portal client scope not found",
			},
		})
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var ticket models.Ticket
	if err := db.Where("client_id = ?", clientID).First(&ticket, ticketID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TICKET_NOT_FOUND",
				"message": "Ticket not found",
			},
		})
		return
	}

	entries, err := services.GetWorkflowService().ListHistory(ticket.ID)
	if err != nil {
		workflowErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
	})
}
