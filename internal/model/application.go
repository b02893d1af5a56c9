package model

import (
	"time"
)

const (
	StatusOpen      = "open"
	StatusApplied   = "applied"
	StatusInterview = "interview"
	StatusRejected  = "rejected"
	StatusOffer     = "offer"
	StatusContract  = "contract"
	StatusWithdrawn = "withdrawn"
)

const (
	WorkModelRemote = "remote"
	WorkModelHybrid = "hybrid"
	WorkModelOnsite = "onsite"
)

type Application struct {
	ID           string     `db:"id" json:"id"`
	UserID       string     `db:"user_id" json:"user_id"`
	JobTitle     string     `db:"job_title" json:"job_title"`
	Company      string     `db:"company" json:"company"`
	ContactName  *string    `db:"contact_name" json:"contact_name"`
	ContactEmail *string    `db:"contact_email" json:"contact_email"`
	ContactPhone *string    `db:"contact_phone" json:"contact_phone"`
	JobURL       *string    `db:"job_url" json:"job_url"`
	Salary       *string    `db:"salary" json:"salary"`
	WorkModel    *string    `db:"work_model" json:"work_model"`
	AppliedOn    *Date      `db:"applied_on" json:"applied_on"`
	DeadlineOn   *Date      `db:"deadline_on" json:"deadline_on"`
	Status       string     `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updated_at"`
}
