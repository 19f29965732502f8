package models

import (
	"time"
)

// TicketHistory is an append-only audit record of everything that happened to
// a ticket: status changes, technician assignments, equipment deliveries and
// free-text progress notes. Entries are never updated or deleted; no code
// path in the application issues an UPDATE or DELETE against this table.
type TicketHistory struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	TicketID   uint              `gorm:"not null;index" json:"ticket_id"`
	Ticket     Ticket            `gorm:"foreignKey:TicketID" json:"-"`
	ActionType HistoryActionType `gorm:"not null" json:"action_type"`
	Status     TicketStatus      `gorm:"not null" json:"status"`

	// PreviousStatus is set for STATUS_CHANGE entries
	PreviousStatus *TicketStatus `json:"previous_status"`

	// Reason carries the transition reason or the progress note text
	Reason *string `gorm:"type:text" json:"reason"`

	// UserID is the actor credited with the action
	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"user"`

	// PreviousUserID/NewUserID are set for USER_ASSIGNMENT entries
	PreviousUserID *uint `json:"previous_user_id"`
	PreviousUser   *User `gorm:"foreignKey:PreviousUserID" json:"previous_user,omitempty"`
	NewUserID      *uint `json:"new_user_id"`
	NewUser        *User `gorm:"foreignKey:NewUserID" json:"new_user,omitempty"`

	// Equipment fields are set for EQUIPMENT_STATUS entries. Code and status
	// are denormalized so the entry stays readable even if the equipment row
	// changes later.
	EquipmentID     *uint   `json:"equipment_id"`
	EquipmentCode   *string `json:"equipment_code"`
	EquipmentStatus *string `json:"equipment_status"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the TicketHistory model
func (TicketHistory) TableName() string {
	return "ticket_history"
}
