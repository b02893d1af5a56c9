package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/jobtracker/internal/model"
	"github.com/templui/jobtracker/internal/patch"
	"github.com/templui/jobtracker/internal/repository"
	"github.com/templui/jobtracker/internal/validation"
)

type CreateApplicationInput struct {
	JobTitle     string `json:"job_title" validate:"required,max=200"`
	Company      string `json:"company" validate:"required,max=200"`
	ContactName  string `json:"contact_name" validate:"omitempty,max=200"`
	ContactEmail string `json:"contact_email" validate:"omitempty,mailbox"`
	ContactPhone string `json:"contact_phone" validate:"omitempty,max=50"`
	JobURL       string `json:"job_url" validate:"omitempty,max=2048,http_url"`
	Salary       string `json:"salary" validate:"omitempty,max=100"`
	WorkModel    string `json:"work_model" validate:"omitempty,oneof=remote hybrid onsite"`
	AppliedOn    string `json:"applied_on" validate:"omitempty,datetime=2006-01-02"`
	DeadlineOn   string `json:"deadline_on" validate:"omitempty,datetime=2006-01-02"`
	Status       string `json:"status" validate:"omitempty,status"`
}

func (in *CreateApplicationInput) trim() {
	for _, s := range []*string{
		&in.JobTitle, &in.Company, &in.ContactName, &in.ContactEmail, &in.ContactPhone,
		&in.JobURL, &in.Salary, &in.WorkModel, &in.AppliedOn, &in.DeadlineOn, &in.Status,
	} {
		*s = strings.TrimSpace(*s)
	}
}

// ApplicationPatch is a sparse update. Absent or blank members are ignored and
// null clears an optional column.
type ApplicationPatch struct {
	JobTitle     patch.Field[string] `json:"job_title"`
	Company      patch.Field[string] `json:"company"`
	ContactName  patch.Field[string] `json:"contact_name"`
	ContactEmail patch.Field[string] `json:"contact_email"`
	ContactPhone patch.Field[string] `json:"contact_phone"`
	JobURL       patch.Field[string] `json:"job_url"`
	Salary       patch.Field[string] `json:"salary"`
	WorkModel    patch.Field[string] `json:"work_model"`
	AppliedOn    patch.Field[string] `json:"applied_on"`
	DeadlineOn   patch.Field[string] `json:"deadline_on"`
	Status       patch.Field[string] `json:"status"`
}

func (p ApplicationPatch) Changes() ([]patch.Change, error) {
	b := patch.NewBuilder()
	b.Text("job_title", "job_title", p.JobTitle, "max=200", false)
	b.Text("company", "company", p.Company, "max=200", false)
	b.Text("contact_name", "contact_name", p.ContactName, "max=200", true)
	b.Text("contact_email", "contact_email", p.ContactEmail, "mailbox", true)
	b.Text("contact_phone", "contact_phone", p.ContactPhone, "max=50", true)
	b.Text("job_url", "job_url", p.JobURL, "max=2048,http_url", true)
	b.Text("salary", "salary", p.Salary, "max=100", true)
	b.Text("work_model", "work_model", p.WorkModel, "oneof=remote hybrid onsite", true)
	b.Date("applied_on", "applied_on", p.AppliedOn, true)
	b.Date("deadline_on", "deadline_on", p.DeadlineOn, true)
	b.Text("status", "status", p.Status, "status", false)
	return b.Result()
}

type ApplicationService struct {
	repo repository.ApplicationRepository
}

func NewApplicationService(repo repository.ApplicationRepository) *ApplicationService {
	return &ApplicationService{repo: repo}
}

func (s *ApplicationService) Create(ctx context.Context, userID string, in CreateApplicationInput) (*model.Application, error) {
	in.trim()

	err := validation.Struct(in)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = model.StatusOpen
	}

	app := &model.Application{
		ID:           uuid.Must(uuid.NewV7()).String(),
		UserID:       userID,
		JobTitle:     in.JobTitle,
		Company:      in.Company,
		ContactName:  optional(in.ContactName),
		ContactEmail: optional(in.ContactEmail),
		ContactPhone: optional(in.ContactPhone),
		JobURL:       optional(in.JobURL),
		Salary:       optional(in.Salary),
		WorkModel:    optional(in.WorkModel),
		AppliedOn:    optionalDate(in.AppliedOn),
		DeadlineOn:   optionalDate(in.DeadlineOn),
		Status:       status,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.repo.Create(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	return app, nil
}

func (s *ApplicationService) Applications(ctx context.Context, userID string) ([]*model.Application, error) {
	return s.repo.Applications(ctx, userID)
}

func (s *ApplicationService) Application(ctx context.Context, userID, id string) (*model.Application, error) {
	return s.repo.ByID(ctx, userID, id)
}

// Update validates p and writes only the changed columns. An effectively empty
// patch fails with patch.ErrEmpty and writes nothing.
func (s *ApplicationService) Update(ctx context.Context, userID, id string, p ApplicationPatch) (*model.Application, error) {
	changes, err := p.Changes()
	if err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, userID, id, changes, time.Now().UTC())
}

func (s *ApplicationService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// optionalDate parses a value that validation already accepted.
func optionalDate(s string) *model.Date {
	if s == "" {
		return nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return nil
	}
	return &d
}
