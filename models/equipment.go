package models

import (
	"time"

	"github.com/assistec/assistec-api/utils"
	"gorm.io/gorm"
)

// Equipment represents a physical item withdrawn from a client, optionally
// linked to a ticket for repair tracking
type Equipment struct {
	ID           uint                    `gorm:"primaryKey" json:"id"`
	Code         string                  `gorm:"uniqueIndex;not null" json:"code"` // system-assigned, never user-entered
	ClientID     uint                    `gorm:"not null;index" json:"client_id"`
	Client       Client                  `gorm:"foreignKey:ClientID" json:"client"`
	TicketID     *uint                   `gorm:"index" json:"ticket_id"`
	Description  string                  `gorm:"not null" json:"description"`
	SerialNumber *string                 `json:"serial_number"`
	Condition    EquipmentCondition      `gorm:"not null;default:'USADO'" json:"condition"`
	Notes        string                  `gorm:"type:text" json:"notes"`
	Status       EquipmentDeliveryStatus `gorm:"not null;default:'RETIRADO'" json:"status"`
	DeliveredAt  *time.Time              `json:"delivered_at"`
	PhotoS3Key   *string                 `json:"photo_s3_key"`
	PhotoURL     *string                 `gorm:"-" json:"photo_url,omitempty"` // computed field, presigned URL
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
	DeletedAt    gorm.DeletedAt          `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Equipment model
func (Equipment) TableName() string {
	return "equipamentos"
}

// BeforeCreate assigns the equipment code, discarding any caller-provided
// value so codes stay system-generated.
func (e *Equipment) BeforeCreate(tx *gorm.DB) error {
	code, err := utils.GenerateCode(utils.EquipmentCodePrefix)
	if err != nil {
		return err
	}
	e.Code = code
	if e.Status == "" {
		e.Status = DeliveryRetirado
	}
	return nil
}

// IsDelivered returns true if the equipment was already returned to the client
func (e *Equipment) IsDelivered() bool {
	return e.Status == DeliveryEntregue
}
