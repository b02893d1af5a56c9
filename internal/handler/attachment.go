package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/templui/jobtracker/internal/apperr"
	"github.com/templui/jobtracker/internal/ctxkeys"
	"github.com/templui/jobtracker/internal/render"
	"github.com/templui/jobtracker/internal/service"
	"github.com/templui/jobtracker/internal/validation"
)

const (
	uploadField = "file"

	// Room for multipart boundaries and part headers on top of the file itself.
	multipartOverhead = 64 << 10
)

type AttachmentHandler struct {
	attachmentService *service.AttachmentService
}

func NewAttachmentHandler(attachmentService *service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// Upload reads the multipart "file" part into memory, bounded by the upload
// limit, and hands it to the pipeline. Any declared Content-Type is ignored.
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	maxSize := h.attachmentService.MaxUploadSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	filename, data, err := readUpload(r, maxSize)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	attachment, err := h.attachmentService.Upload(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), filename, data)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, attachment)
}

func readUpload(r *http.Request, maxSize int64) (string, []byte, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return "", nil, apperr.BadRequest("expected a multipart/form-data body")
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return "", nil, apperr.BadRequest(fmt.Sprintf("multipart field %q is required", uploadField))
		}
		if err != nil {
			return "", nil, uploadReadError(err)
		}

		if part.FormName() != uploadField {
			_ = part.Close()
			continue
		}

		// One byte past the limit is enough to reject it.
		data, err := io.ReadAll(io.LimitReader(part, maxSize+1))
		_ = part.Close()
		if err != nil {
			return "", nil, uploadReadError(err)
		}

		err = validation.ValidateUploadSize(int64(len(data)), maxSize)
		if err != nil {
			return "", nil, err
		}

		return part.FileName(), data, nil
	}
}

func uploadReadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperr.BadRequest("upload exceeds the maximum request size")
	}
	return apperr.BadRequest("malformed multipart body")
}

func (h *AttachmentHandler) List(w http.ResponseWriter, r *http.Request) {
	includeDeleted := false
	if raw := r.URL.Query().Get("include_deleted"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			render.Error(w, r, apperr.BadRequest("include_deleted must be true or false"))
			return
		}
		includeDeleted = v
	}

	attachments, err := h.attachmentService.Attachments(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), includeDeleted)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, attachments)
}

// Download streams the stored bytes with the sniffed type, never the uploader's.
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	attachment, content, err := h.attachmentService.Download(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	defer content.Close()

	contentType := attachment.MimeType
	if _, _, err := mime.ParseMediaType(contentType); err != nil {
		contentType = "application/octet-stream"
	}

	header := w.Header()
	header.Set("Content-Type", contentType)
	header.Set("Content-Length", strconv.FormatInt(attachment.SizeBytes, 10))
	header.Set("Content-Disposition", ContentDisposition(attachment.FilenameOriginal))
	header.Set("X-Content-Type-Options", "nosniff")
	header.Set("Cache-Control", "private, no-store")
	w.WriteHeader(http.StatusOK)

	_, err = io.Copy(w, content)
	if err != nil {
		slog.Warn("attachment download interrupted",
			"attachment_id", attachment.ID,
			"user_id", ctxkeys.UserID(r.Context()),
			"error", err,
		)
	}
}

func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.attachmentService.Delete(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.NoContent(w)
}
