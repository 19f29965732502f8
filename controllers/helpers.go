package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/assistec/assistec-api/models"
	"github.com/assistec/assistec-api/services"
)

// resolveActor determines the acting user for the request through the actor
// provider chain. On failure it writes the 401 response and returns false;
// callers must abort before attempting any write.
func resolveActor(c *gin.Context) (*models.User, bool) {
	provider := services.GetActorProvider()
	if provider == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Actor resolution is not configured",
			},
		})
		return nil, false
	}

	actor, err := provider.ResolveActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not determine the acting user",
			},
		})
		return nil, false
	}

	return actor, true
}

// parseIDParam parses a numeric URL parameter. On failure it writes the 400
// response and returns false.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Invalid " + name + " parameter",
			},
		})
		return 0, false
	}
	return uint(id), true
}

// workflowErrorResponse maps a workflow error to its HTTP response
func workflowErrorResponse(c *gin.Context, err error) {
	var wfErr *services.WorkflowError
	if !errors.As(err, &wfErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Unexpected error",
			},
		})
		return
	}

	status := http.StatusInternalServerError
	switch wfErr.Code {
	case services.ErrCodeTicketNotFound, services.ErrCodeEquipmentNotFound, services.ErrCodeUserNotFound:
		status = http.StatusNotFound
	case services.ErrCodeValidation, services.ErrCodeNotCompleted:
		status = http.StatusBadRequest
	case services.ErrCodeTicketBilled, services.ErrCodeAlreadyBilled:
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    wfErr.Code,
			"message": wfErr.Message,
		},
	})
}
