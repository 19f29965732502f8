package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/assistec/assistec-api/config"
	"github.com/assistec/assistec-api/models"
	"github.com/assistec/assistec-api/services"
)

// CreateEquipmentRequest represents the request body for registering equipment
type CreateEquipmentRequest struct {
	ClientID     uint    `json:"client_id" binding:"required"`
	TicketID     *uint   `json:"ticket_id"`
	Description  string  `json:"description" binding:"required"`
	SerialNumber *string `json:"serial_number"`
	Condition    string  `json:"condition" binding:"required"`
	Notes        string  `json:"notes"`
}

// UpdateEquipmentRequest represents the request body for updating equipment
type UpdateEquipmentRequest struct {
	TicketID     *uint   `json:"ticket_id"`
	Description  string  `json:"description" binding:"omitempty"`
	SerialNumber *string `json:"serial_number"`
	Notes        *string `json:"notes"`
}

// CreateEquipment handles POST /api/v1/equipments - registers a withdrawn item
func CreateEquipment(c *gin.Context) {
	if _, ok := resolveActor(c); !ok {
		return
	}

	var req CreateEquipmentRequest
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

	condition := models.EquipmentCondition(req.Condition)
	if !condition.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Condition must be NOVO, USADO or DEFEITUOSO",
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

	if req.TicketID != nil {
		var ticket models.Ticket
		if err := db.First(&ticket, *req.TicketID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "TICKET_NOT_FOUND",
					"message": "Ticket not found",
				},
			})
			return
		}
	}

	equipment := models.Equipment{
		ClientID:     client.ID,
		TicketID:     req.TicketID,
		Description:  req.Description,
		SerialNumber: req.SerialNumber,
		Condition:    condition,
		Notes:        req.Notes,
		Status:       models.DeliveryRetirado,
	}

	if err := db.Create(&equipment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create equipment",
			},
		})
		return
	}

	if err := db.Preload("Client").First(&equipment, equipment.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load equipment details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    equipment,
	})
}

// ListEquipment handles GET /api/v1/equipments - lists items with optional
// client, ticket and delivery status filters
func ListEquipment(c *gin.Context) {
	if _, ok := resolveActor(c); !ok {
		return
	}

	db := config.GetDB()
	query := db.Model(&models.Equipment{}).Preload("Client")

	if clientID := c.Query("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if ticketID := c.Query("ticket_id"); ticketID != "" {
		query = query.Where("ticket_id = ?", ticketID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var items []models.Equipment
	if err := query.Order("created_at DESC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch equipment",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
	})
}

// GetEquipment handles GET /api/v1/equipments/:id - fetches one item with a
// presigned photo URL when a photo was uploaded
func GetEquipment(c *gin.Context) {
	if _, ok := resolveActor(c); !ok {
		return
	}

	equipmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var equipment models.Equipment
	if err := db.Preload("Client").First(&equipment, equipmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EQUIPMENT_NOT_FOUND",
				"message": "Equipment not found",
			},
		})
		return
	}

	if equipment.PhotoS3Key != nil {
		photoService := services.GetPhotoService()
		if photoService != nil {
			url, err := photoService.GetPhotoURL(*equipment.PhotoS3Key)
			if err != nil {
				log.Printf("failed to generate photo URL for equipment %d: %v", equipment.ID, err)
			} else if url != "" {
				equipment.PhotoURL = &url
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    equipment,
	})
}

// UpdateEquipment handles PUT /api/v1/equipments/:id - updates description,
// serial number, notes or the ticket link
func UpdateEquipment(c *gin.Context) {
	if _, ok := resolveActor(c); !ok {
		return
	}

	equipmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateEquipmentRequest
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
	var equipment models.Equipment
	if err := db.First(&equipment, equipmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EQUIPMENT_NOT_FOUND",
				"message": "Equipment not found",
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.SerialNumber != nil {
		updates["serial_number"] = req.SerialNumber
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.TicketID != nil {
		var ticket models.Ticket
		if err := db.First(&ticket, *req.TicketID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "TICKET_NOT_FOUND",
					"message": "Ticket not found",
				},
			})
			return
		}
		updates["ticket_id"] = *req.TicketID
	}

	if len(updates) > 0 {
		if err := db.Model(&equipment).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update equipment",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    equipment,
	})
}

// DeleteEquipment handles DELETE /api/v1/equipments/:id - removes an item
// that was registered by mistake, as long as it was not delivered yet and
// its ticket is not billed
func DeleteEquipment(c *gin.Context) {
	if _, ok := resolveActor(c); !ok {
		return
	}

	equipmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var equipment models.Equipment
	if err := db.First(&equipment, equipmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EQUIPMENT_NOT_FOUND",
				"message": "Equipment not found",
			},
		})
		return
	}

	if equipment.IsDelivered() {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EQUIPMENT_DELIVERED",
				"message": "Delivered equipment cannot be deleted",
			},
		})
		return
	}

	if equipment.TicketID != nil {
		var ticket models.Ticket
		if err := db.First(&ticket, *equipment.TicketID).Error; err == nil && ticket.IsBilled() {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "TICKET_BILLED",
					"message": "Equipment belongs to a billed ticket and cannot be deleted",
				},
			})
			return
		}
	}

	if equipment.PhotoS3Key != nil {
		photoService := services.GetPhotoService()
		if photoService != nil {
			if err := photoService.DeletePhoto(*equipment.PhotoS3Key); err != nil {
				log.Printf("failed to delete photo for equipment %d: %v", equipment.ID, err)
			}
		}
	}

	if err := db.Delete(&equipment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete equipment",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}

// DeliverEquipment handles PATCH /api/v1/equipments/:id/deliver - marks an
// item as returned to the client and records it in the ticket history
func DeliverEquipment(c *gin.Context) {
	actor, ok := resolveActor(c)
	if !ok {
		return
	}

	equipmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	equipment, err := services.GetWorkflowService().MarkDelivered(equipmentID, actor)
	if err != nil {
		workflowErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    equipment,
	})
}

// UploadEquipmentPhoto handles POST /api/v1/equipments/:id/photo - attaches
// a photo to an equipment item
func UploadEquipmentPhoto(c *gin.Context) {
	if _, ok := resolveActor(c); !ok {
		return
	}

	equipmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var equipment models.Equipment
	if err := db.First(&equipment, equipmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EQUIPMENT_NOT_FOUND",
				"message": "Equipment not found",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "A photo file is required",
			},
		})
		return
	}

	photoService := services.GetPhotoService()
	if photoService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Photo storage is not configured",
			},
		})
		return
	}

	photoKey, err := photoService.UploadPhoto(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	// Replace the previous photo, if any
	if equipment.PhotoS3Key != nil && *equipment.PhotoS3Key != photoKey {
		if err := photoService.DeletePhoto(*equipment.PhotoS3Key); err != nil {
			log.Printf("failed to delete previous photo %s: %v", *equipment.PhotoS3Key, err)
		}
	}

	if err := db.Model(&equipment).Update("photo_s3_key", photoKey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save photo reference",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    equipment,
	})
}
