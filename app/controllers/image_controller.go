package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/mux"

	"socialnet/app/logger"
	"socialnet/app/models"
	"socialnet/app/storage"
)

// ImageController serves stored uploads
type ImageController struct {
	images storage.ImageStore
	log    *logger.Logger
}

func NewImageController(images storage.ImageStore, log *logger.Logger) *ImageController {
	return &ImageController{images: images, log: log}
}

// Show streams the bytes stored for /uploads/{role}/{filename}
func (ic *ImageController) Show(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	key, err := storage.Key(vars["role"], vars["filename"])
	if err != nil {
		sendError(w, r, ic.log, models.ErrNotFound, "image", "reading")
		return
	}

	rc, err := ic.images.Open(r.Context(), key)
	if errors.Is(err, storage.ErrImageNotFound) {
		sendError(w, r, ic.log, models.ErrNotFound, "image", "reading")
		return
	}
	if err != nil {
		sendError(w, r, ic.log, err, "image", "reading")
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		sendError(w, r, ic.log, err, "image", "reading")
		return
	}

	w.Header().Set("Content-Type", mimetype.Detect(data).String())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
