// models/settings.go
package models

// Settings holds the single mutable site settings row. The league password
// gates registration and is stored bcrypt-hashed.
type Settings struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Password string `gorm:"size:60;not null" json:"-"`
}
