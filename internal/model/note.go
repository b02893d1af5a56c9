package model

import (
	"time"
)

// Note belongs to an application; its owner is the application's owner.
type Note struct {
	ID            string     `db:"id" json:"id"`
	ApplicationID string     `db:"application_id" json:"application_id"`
	Date          Date       `db:"date" json:"date"`
	Text          string     `db:"text" json:"text"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     *time.Time `db:"updated_at" json:"updated_at"`
}
