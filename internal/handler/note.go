package handler

import (
	"net/http"

	"github.com/templui/jobtracker/internal/ctxkeys"
	"github.com/templui/jobtracker/internal/render"
	"github.com/templui/jobtracker/internal/service"
)

type NoteHandler struct {
	noteService *service.NoteService
}

func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.noteService.Notes(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateNoteInput
	err := decodeJSON(w, r, &in)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	note, err := h.noteService.Create(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	note, err := h.noteService.Note(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var p service.NotePatch
	err := decodeJSON(w, r, &p)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	note, err := h.noteService.Update(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), p)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.noteService.Delete(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.NoContent(w)
}
