package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/assistec/assistec-api/config"
	"github.com/assistec/assistec-api/models"
)

// WorkflowError represents a ticket workflow failure with a stable code that
// controllers map to HTTP responses
type WorkflowError struct {
	Code    string
	Message string
}

func (e *WorkflowError) Error() string {
	return e.Message
}

// Workflow error codes
const (
	ErrCodeTicketNotFound    = "TICKET_NOT_FOUND"
	ErrCodeEquipmentNotFound = "EQUIPMENT_NOT_FOUND"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeTicketBilled      = "TICKET_BILLED"
	ErrCodeAlreadyBilled     = "ALREADY_BILLED"
	ErrCodeNotCompleted      = "NOT_COMPLETED"
	ErrCodeDatabase          = "DATABASE_ERROR"
)

// WorkflowService is the single entry point for every ticket lifecycle
// mutation. Each operation writes the entity change and its history ledger
// entry inside one database transaction, so the ledger can never miss a
// transition that was applied.
type WorkflowService interface {
	ChangeStatus(ticketID uint, newStatus models.TicketStatus, reason string, actor *models.User) (*models.Ticket, error)
	AssignTicket(ticketID uint, newUserID uint, actor *models.User) (*models.Ticket, error)
	MarkDelivered(equipmentID uint, actor *models.User) (*models.Equipment, error)
	AddProgressNote(ticketID uint, note string, actor *models.User) (*models.TicketHistory, error)
	MarkBilled(ticketID uint, actor *models.User) (*models.Ticket, error)
	ListHistory(ticketID uint) ([]models.TicketHistory, error)
}

// TicketWorkflowService implements WorkflowService on top of gorm
type TicketWorkflowService struct{}

var workflowServiceInstance WorkflowService

// InitWorkflowService registers the default workflow service instance
func InitWorkflowService() WorkflowService {
	workflowServiceInstance = &TicketWorkflowService{}
	return workflowServiceInstance
}

// GetWorkflowService returns the registered workflow service instance
func GetWorkflowService() WorkflowService {
	if workflowServiceInstance == nil {
		workflowServiceInstance = &TicketWorkflowService{}
	}
	return workflowServiceInstance
}

// SetWorkflowService sets the workflow service instance (primarily for testing)
func SetWorkflowService(service WorkflowService) {
	workflowServiceInstance = service
}

// ChangeStatus moves a ticket to a new status and appends a STATUS_CHANGE
// ledger entry. Any status may move to any other, but CONCLUIDO and CANCELADO
// require a non-empty reason. Billed tickets reject all changes.
func (s *TicketWorkflowService) ChangeStatus(ticketID uint, newStatus models.TicketStatus, reason string, actor *models.User) (*models.Ticket, error) {
	if !newStatus.IsValid() {
		return nil, &WorkflowError{
			Code:    ErrCodeValidation,
			Message: fmt.Sprintf("invalid ticket status: %s", newStatus),
		}
	}

	reason = strings.TrimSpace(reason)
	if newStatus.RequiresReason() && reason == "" {
		return nil, &WorkflowError{
			Code:    ErrCodeValidation,
			Message: fmt.Sprintf("a reason is required to move a ticket to %s", newStatus),
		}
	}

	db := config.GetDB()
	var ticket models.Ticket
	if err := db.First(&ticket, ticketID).Error; err != nil {
		return nil, &WorkflowError{Code: ErrCodeTicketNotFound, Message: "Ticket not found"}
	}

	if ticket.IsBilled() {
		return nil, &WorkflowError{Code: ErrCodeTicketBilled, Message: "Billed tickets cannot change status"}
	}

	previousStatus := ticket.Status
	entry := models.TicketHistory{
		TicketID:       ticket.ID,
		ActionType:     models.ActionStatusChange,
		Status:         newStatus,
		PreviousStatus: &previousStatus,
		UserID:         actor.ID,
	}
	if reason != "" {
		entry.Reason = &reason
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ticket).Update("status", newStatus).Error; err != nil {
			return err
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		log.Printf("failed to change ticket %d status to %s: %v", ticketID, newStatus, err)
		return nil, &WorkflowError{Code: ErrCodeDatabase, Message: "Failed to change ticket status"}
	}

	return &ticket, nil
}

// AssignTicket moves a ticket to a new technician and appends a
// USER_ASSIGNMENT ledger entry recording both the previous and the new
// assignee. The ledger entry's status field always reads EM_ANDAMENTO: an
// assignment means work is under way, even though the ticket row's own
// status is left untouched.
func (s *TicketWorkflowService) AssignTicket(ticketID uint, newUserID uint, actor *models.User) (*models.Ticket, error) {
	db := config.GetDB()

	var ticket models.Ticket
	if err := db.First(&ticket, ticketID).Error; err != nil {
		return nil, &WorkflowError{Code: ErrCodeTicketNotFound, Message: "Ticket not found"}
	}

	if ticket.IsBilled() {
		return nil, &WorkflowError{Code: ErrCodeTicketBilled, Message: "Billed tickets cannot be reassigned"}
	}

	var assignee models.User
	if err := db.First(&assignee, newUserID).Error; err != nil {
		return nil, &WorkflowError{Code: ErrCodeUserNotFound, Message: "Assignee not found"}
	}
	if !assignee.Active {
		return nil, &WorkflowError{Code: ErrCodeValidation, Message: "Inactive users cannot be assigned tickets"}
	}

	previousUserID := ticket.AssignedToID
	entry := models.TicketHistory{
		TicketID:       ticket.ID,
		ActionType:     models.ActionUserAssignment,
		Status:         models.StatusEmAndamento,
		UserID:         actor.ID,
		PreviousUserID: previousUserID,
		NewUserID:      &assignee.ID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ticket).Update("assigned_to_id", assignee.ID).Error; err != nil {
			return err
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		log.Printf("failed to assign ticket %d to user %d: %v", ticketID, newUserID, err)
		return nil, &WorkflowError{Code: ErrCodeDatabase, Message: "Failed to assign ticket"}
	}

	return &ticket, nil
}

// MarkDelivered marks an equipment item as returned to the client and appends
// an EQUIPMENT_STATUS ledger entry under the ticket's current status. The
// ticket's own status is unchanged. There is no un-deliver, and no guard
// against repeated calls: delivering twice succeeds and appends a second
// ledger entry.
func (s *TicketWorkflowService) MarkDelivered(equipmentID uint, actor *models.User) (*models.Equipment, error) {
	db := config.GetDB()

	var equipment models.Equipment
	if err := db.First(&equipment, equipmentID).Error; err != nil {
		return nil, &WorkflowError{Code: ErrCodeEquipmentNotFound, Message: "Equipment not found"}
	}

	if equipment.TicketID == nil {
		return nil, &WorkflowError{Code: ErrCodeValidation, Message: "Equipment is not linked to a ticket"}
	}

	var ticket models.Ticket
	if err := db.First(&ticket, *equipment.TicketID).Error; err != nil {
		return nil, &WorkflowError{Code: ErrCodeTicketNotFound, Message: "Ticket not found"}
	}

	if ticket.IsBilled() {
		return nil, &WorkflowError{Code: ErrCodeTicketBilled, Message: "Billed tickets cannot record deliveries"}
	}

	now := time.Now()
	deliveredStatus := string(models.DeliveryEntregue)
	entry := models.TicketHistory{
		TicketID:        ticket.ID,
		ActionType:      models.ActionEquipmentStatus,
		Status:          ticket.Status,
		UserID:          actor.ID,
		EquipmentID:     &equipment.ID,
		EquipmentCode:   &equipment.Code,
		EquipmentStatus: &deliveredStatus,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":       models.DeliveryEntregue,
			"delivered_at": now,
		}
		if err := tx.Model(&equipment).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		log.Printf("failed to mark equipment %d as delivered: %v", equipmentID, err)
		return nil, &WorkflowError{Code: ErrCodeDatabase, Message: "Failed to mark equipment as delivered"}
	}

	return &equipment, nil
}

// AddProgressNote appends a PROGRESS_NOTE ledger entry with the note text and
// the ticket's current status. The ticket row is not touched at all.
func (s *TicketWorkflowService) AddProgressNote(ticketID uint, note string, actor *models.User) (*models.TicketHistory, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, &WorkflowError{Code: ErrCodeValidation, Message: "Progress note text is required"}
	}

	db := config.GetDB()
	var ticket models.Ticket
	if err := db.First(&ticket, ticketID).Error; err != nil {
		return nil, &WorkflowError{Code: ErrCodeTicketNotFound, Message: "Ticket not found"}
	}

	if ticket.IsBilled() {
		return nil, &WorkflowError{Code: ErrCodeTicketBilled, Message: "Billed tickets cannot receive progress notes"}
	}

	entry := models.TicketHistory{
		TicketID:   ticket.ID,
		ActionType: models.ActionProgressNote,
		Status:     ticket.Status,
		Reason:     &note,
		UserID:     actor.ID,
	}

	if err := db.Create(&entry).Error; err != nil {
		log.Printf("failed to add progress note to ticket %d: %v", ticketID, err)
		return nil, &WorkflowError{Code: ErrCodeDatabase, Message: "Failed to add progress note"}
	}

	return &entry, nil
}

// MarkBilled flags a completed ticket as invoiced. The flag is terminal:
// there is no operation anywhere in the system that clears it. A STATUS_CHANGE
// ledger entry with reason "Faturado" records who billed the ticket and when.
func (s *TicketWorkflowService) MarkBilled(ticketID uint, actor *models.User) (*models.Ticket, error) {
	db := config.GetDB()

	var ticket models.Ticket
	if err := db.First(&ticket, ticketID).Error; err != nil {
		return nil, &WorkflowError{Code: ErrCodeTicketNotFound, Message: "Ticket not found"}
	}

	if ticket.IsBilled() {
		return nil, &WorkflowError{Code: ErrCodeAlreadyBilled, Message: "Ticket is already billed"}
	}

	if ticket.Status != models.StatusConcluido {
		return nil, &WorkflowError{Code: ErrCodeNotCompleted, Message: "Only completed tickets can be billed"}
	}

	now := time.Now()
	reason := "Faturado"
	currentStatus := ticket.Status
	entry := models.TicketHistory{
		TicketID:       ticket.ID,
		ActionType:     models.ActionStatusChange,
		Status:         currentStatus,
		PreviousStatus: &currentStatus,
		Reason:         &reason,
		UserID:         actor.ID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"faturado":    true,
			"faturado_at": now,
		}
		if err := tx.Model(&ticket).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		log.Printf("failed to mark ticket %d as billed: %v", ticketID, err)
		return nil, &WorkflowError{Code: ErrCodeDatabase, Message: "Failed to mark ticket as billed"}
	}

	return &ticket, nil
}

// ListHistory returns every ledger entry for a ticket, newest first, with the
// actor and (for assignments) previous/new assignee records loaded for
// display. This is the sole mechanism for reconstructing what happened to a
// ticket.
func (s *TicketWorkflowService) ListHistory(ticketID uint) ([]models.TicketHistory, error) {
	db := config.GetDB()

	var ticket models.Ticket
	if err := db.First(&ticket, ticketID).Error; err != nil {
		return nil, &WorkflowError{Code: ErrCodeTicketNotFound, Message: "Ticket not found"}
	}

	var entries []models.TicketHistory
	if err := db.Where("ticket_id = ?", ticket.ID).
		Preload("User").
		Preload("PreviousUser").
		Preload("NewUser").
		Order("created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		log.Printf("failed to list history for ticket %d: %v", ticketID, err)
		return nil, &WorkflowError{Code: ErrCodeDatabase, Message: "Failed to fetch ticket history"}
	}

	return entries, nil
}
