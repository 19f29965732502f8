package models

import (
	"time"

	"github.com/assistec/assistec-api/utils"
	"gorm.io/gorm"
)

// Ticket represents a service order tracked through the status lifecycle
type Ticket struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Code         string         `gorm:"uniqueIndex;not null" json:"code"` // system-assigned, never user-entered
	ClientID     uint           `gorm:"not null;index" json:"client_id"`
	Client       Client         `gorm:"foreignKey:ClientID" json:"client"`
	Description  string         `gorm:"not null" json:"description"`
	ScheduledAt  *time.Time     `json:"scheduled_at"`
	Status       TicketStatus   `gorm:"not null;default:'PENDENTE'" json:"status"`
	Faturado     bool           `gorm:"not null;default:false" json:"faturado"`
	FaturadoAt   *time.Time     `json:"faturado_at"`
	AssignedToID *uint          `gorm:"index" json:"assigned_to_id"`
	AssignedTo   *User          `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	CreatedByID  uint           `gorm:"not null;index" json:"created_by_id"`
	CreatedBy    User           `gorm:"foreignKey:CreatedByID" json:"created_by"`
	Equipment    []Equipment    `gorm:"foreignKey:TicketID" json:"equipment,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Ticket model
func (Ticket) TableName() string {
	return "tickets"
}

// BeforeCreate assigns the service order code, discarding any caller-provided
// value so codes stay system-generated.
func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	code, err := utils.GenerateCode(utils.TicketCodePrefix)
	if err != nil {
		return err
	}
	t.Code = code
	if t.Status == "" {
		t.Status = StatusPendente
	}
	return nil
}

// IsBilled returns true once the ticket was invoiced. Billing is terminal:
// a billed ticket accepts no further status, assignment or equipment changes.
func (t *Ticket) IsBilled() bool {
	return t.Faturado
}
