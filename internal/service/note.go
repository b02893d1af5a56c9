package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/jobtracker/internal/model"
	"github.com/templui/jobtracker/internal/patch"
	"github.com/templui/jobtracker/internal/repository"
	"github.com/templui/jobtracker/internal/validation"
)

type CreateNoteInput struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Text string `json:"text" validate:"required,max=10000"`
}

type NotePatch struct {
	Date patch.Field[string] `json:"date"`
	Text patch.Field[string] `json:"text"`
}

func (p NotePatch) Changes() ([]patch.Change, error) {
	b := patch.NewBuilder()
	b.Date("date", "date", p.Date, false)
	b.Text("text", "text", p.Text, "max=10000", false)
	return b.Result()
}

type NoteService struct {
	notes        repository.NoteRepository
	applications repository.ApplicationRepository
}

func NewNoteService(notes repository.NoteRepository, applications repository.ApplicationRepository) *NoteService {
	return &NoteService{
		notes:        notes,
		applications: applications,
	}
}

// Create adds a note under applicationID. The date defaults to today (UTC).
func (s *NoteService) Create(ctx context.Context, userID, applicationID string, in CreateNoteInput) (*model.Note, error) {
	in.Date = strings.TrimSpace(in.Date)
	in.Text = strings.TrimSpace(in.Text)

	err := validation.Struct(in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := model.NewDate(now)
	if in.Date != "" {
		date, err = model.ParseDate(in.Date)
		if err != nil {
			return nil, err
		}
	}

	note := &model.Note{
		ID:            uuid.Must(uuid.NewV7()).String(),
		ApplicationID: applicationID,
		Date:          date,
		Text:          in.Text,
		CreatedAt:     now,
	}

	err = s.notes.Create(ctx, userID, note)
	if err != nil {
		return nil, err
	}

	return note, nil
}

// Notes requires the parent to be visible first, so a foreign application is
// NotFound rather than an empty list.
func (s *NoteService) Notes(ctx context.Context, userID, applicationID string) ([]*model.Note, error) {
	_, err := s.applications.ByID(ctx, userID, applicationID)
	if err != nil {
		return nil, err
	}

	return s.notes.Notes(ctx, userID, applicationID)
}

func (s *NoteService) Note(ctx context.Context, userID, id string) (*model.Note, error) {
	return s.notes.ByID(ctx, userID, id)
}

func (s *NoteService) Update(ctx context.Context, userID, id string, p NotePatch) (*model.Note, error) {
	changes, err := p.Changes()
	if err != nil {
		return nil, err
	}

	return s.notes.Update(ctx, userID, id, changes, time.Now().UTC())
}

func (s *NoteService) Delete(ctx context.Context, userID, id string) error {
	return s.notes.Delete(ctx, userID, id)
}
