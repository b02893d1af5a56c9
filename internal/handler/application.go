package handler

import (
	"net/http"

	"github.com/templui/jobtracker/internal/ctxkeys"
	"github.com/templui/jobtracker/internal/render"
	"github.com/templui/jobtracker/internal/service"
)

type ApplicationHandler struct {
	applicationService *service.ApplicationService
}

func NewApplicationHandler(applicationService *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateApplicationInput
	err := decodeJSON(w, r, &in)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	app, err := h.applicationService.Create(r.Context(), ctxkeys.UserID(r.Context()), in)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, app)
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	apps, err := h.applicationService.Applications(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, apps)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	app, err := h.applicationService.Application(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var p service.ApplicationPatch
	err := decodeJSON(w, r, &p)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	app, err := h.applicationService.Update(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), p)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.applicationService.Delete(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.NoContent(w)
}
