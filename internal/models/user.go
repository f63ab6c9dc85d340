package models

import "time"

// User is owned by the registration service; only id and created_at are
// needed here, for new-user classification at platform scope.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (*User) TableName() string {
	return "users"
}
