package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/assistec/assistec-api/config"
	"github.com/assistec/assistec-api/models"
	"github.com/assistec/assistec-api/utils"
)

// CreateClientRequest represents the request body for creating a client
type CreateClientRequest struct {
	CNPJ      string `json:"cnpj" binding:"required"`
	LegalName string `json:"legal_name" binding:"required"`
	TradeName string `json:"trade_name"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	Number    string `json:"number"`
	District  string `json:"district"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
}

// UpdateClientRequest represents the request body for updating a client
type UpdateClientRequest struct {
	LegalName string `json:"legal_name" binding:"omitempty"`
	TradeName string `json:"trade_name"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	Number    string `json:"number"`
	District  string `json:"district"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
}

// CreateClient handles POST /api/v1/clients - registers a company
func CreateClient(c *gin.Context) {
	if _, ok := resolveActor(c); !ok {
		return
	}

	var req CreateClientRequest
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

	if err := utils.ValidateCNPJ(req.CNPJ); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CNPJ",
				"message": err.Error(),
			},
		})
		return
	}

	client := models.Client{
		CNPJ:      utils.NormalizeCNPJ(req.CNPJ),
		LegalName: req.LegalName,
		TradeName: req.TradeName,
		Email:     req.Email,
		Phone:     req.Phone,
		Street:    req.Street,
		Number:    req.Number,
		District:  req.District,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
	}

	db := config.GetDB()
	if err := db.Create(&client).Error; err != nil {
		// Check for duplicate CNPJ (works with both PostgreSQL and SQLite)
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") || strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CLIENT_EXISTS",
					"message": "A client with this CNPJ already exists",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create client",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    client,
	})
}

// ListClients handles GET /api/v1/clients - lists registered companies
func ListClients(c *gin.Context) {
	if _, ok := resolveActor(c); !ok {
		return
	}

	db := config.GetDB()
	query := db.Model(&models.Client{})

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("legal_name LIKE ? OR trade_name LIKE ? OR cnpj LIKE ?", like, like, like)
	}

	var clients []models.Client
	if err := query.Order("legal_name ASC").Find(&clients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch clients",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    clients,
	})
}

// GetClient handles GET /api/v1/clients/:id
func GetClient(c *gin.Context) {
	if _, ok := resolveActor(c); !ok {
		return
	}

	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var client models.Client
	if err := db.First(&client, clientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CLIENT_NOT_FOUND",
				"message": "Client not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    client,
	})
}

// UpdateClient handles PUT /api/v1/clients/:id - updates company data.
// The CNPJ is immutable once registered.
func UpdateClient(c *gin.Context) {
	if _, ok := resolveActor(c); !ok {
		return
	}

	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateClientRequest
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
	if err := db.First(&client, clientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CLIENT_NOT_FOUND",
				"message": "Client not found",
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.LegalName != "" {
		updates["legal_name"] = req.LegalName
	}
	if req.TradeName != "" {
		updates["trade_name"] = req.TradeName
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Street != "" {
		updates["street"] = req.Street
	}
	if req.Number != "" {
		updates["number"] = req.Number
	}
	if req.District != "" {
		updates["district"] = req.District
	}
	if req.City != "" {
		updates["city"] = req.City
	}
	if req.State != "" {
		updates["state"] = req.State
	}
	if req.ZipCode != "" {
		updates["zip_code"] = req.ZipCode
	}

	if len(updates) > 0 {
		if err := db.Model(&client).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update client",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    client,
	})
}

// DeleteClient handles DELETE /api/v1/clients/:id - removes a client.
// Deletion is blocked while equipment or tickets still reference the client.
func DeleteClient(c *gin.Context) {
	if _, ok := resolveActor(c); !ok {
		return
	}

	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var client models.Client
	if err := db.First(&client, clientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CLIENT_NOT_FOUND",
				"message": "Client not found",
			},
		})
		return
	}

	var ticketCount int64
	if err := db.Model(&models.Ticket{}).Where("client_id = ?", client.ID).Count(&ticketCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to check client references",
			},
		})
		return
	}

	var equipmentCount int64
	if err := db.Model(&models.Equipment{}).Where("client_id = ?", client.ID).Count(&equipmentCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to check client references",
			},
		})
		return
	}

	if ticketCount > 0 || equipmentCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CLIENT_REFERENCED",
				"message": "Client has tickets or equipment and cannot be deleted",
			},
		})
		return
	}

	if err := db.Delete(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete client",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}
