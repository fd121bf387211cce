package models

import "time"

// Setting is a key/value row for operational state persisted outside the
// environment, currently the Argon2id admin password hash.
type Setting struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
