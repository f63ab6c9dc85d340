package models

import "time"

// Partner is owned by the partner management service; read-only here.
type Partner struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Category     string    `gorm:"index" json:"category"`
	LocationCity string    `json:"location_city,omitempty"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

func (*Partner) TableName() string {
	return "partners"
}
