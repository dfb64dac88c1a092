package handler

import (
	"net/http"

	"github.com/ineffable/agency-server/internal/config"
	apperrors "github.com/ineffable/agency-server/internal/errors"
	"github.com/ineffable/agency-server/internal/service"
)

const uploadField = "images"

type UploadHandler struct {
	uploadService *service.UploadService
}

func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBodySize)
	if err := r.ParseMultipartForm(config.MaxUploadFileSize); err != nil {
		writeError(w, apperrors.ValidationError("Invalid multipart upload").WithCause(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	urls, err := h.uploadService.Upload(r.Context(), r.MultipartForm.File[uploadField])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"urls": urls})
}
