package models

import (
	"time"

	"gorm.io/gorm"
)

// Client represents a company record in the system
type Client struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CNPJ      string         `gorm:"uniqueIndex;not null" json:"cnpj"`
	LegalName string         `gorm:"not null" json:"legal_name"` // razão social
	TradeName string         `json:"trade_name"`                 // nome fantasia
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Street    string         `json:"street"`
	Number    string         `json:"number"`
	District  string         `json:"district"`
	City      string         `json:"city"`
	State     string         `json:"state"`
	ZipCode   string         `json:"zip_code"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Client model
func (Client) TableName() string {
	return "clients"
}
