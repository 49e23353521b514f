// Package photo relays uploaded photos to remote storage and hands back
// their public URL.
package photo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/levig/photos-app/internal/logger"
	"github.com/levig/photos-app/internal/response"
	"github.com/levig/photos-app/internal/storage"
	"github.com/levig/photos-app/internal/upload"
)

// FieldName is the multipart field carrying the photo.
const FieldName = "photo"

// Client-facing messages.
const (
	msgUploaded     = "Photo téléversée avec succès"
	msgMissingFile  = "Aucun fichier photo n'a été reçu."
	msgUploadFailed = "Erreur interne lors de l'envoi de la photo."
	msgFileTooLarge = "Le fichier photo est trop volumineux."
)

const defaultUploadTimeout = 60 * time.Second

type uploadResponse struct {
	Message  string `json:"message"  example:"Photo téléversée avec succès"`
	PhotoURL string `json:"photoUrl" example:"https://res.example.com/photos-app-levig/cat.jpg"`
}

// Handler holds HTTP handlers for photo endpoints.
type Handler struct {
	log     *slog.Logger
	store   storage.Uploader
	folder  string
	timeout time.Duration
}

// NewHandler creates a new photo Handler. Photos land in folder on store;
// each provider call is bounded by timeout.
func NewHandler(log *slog.Logger, store storage.Uploader, folder string, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = defaultUploadTimeout
	}
	return &Handler{log: log, store: store, folder: folder, timeout: timeout}
}

// Stage returns the middleware that puts the incoming photo on local disk
// before UploadPhoto runs.
func (h *Handler) Stage(dir string, maxBytes int64) func(http.Handler) http.Handler {
	return upload.Single(FieldName, upload.Options{
		Dir:          dir,
		MaxBytes:     maxBytes,
		Logger:       h.log,
		ErrorHandler: h.stagingError,
	})
}

// UploadPhoto godoc
//
//	@Summary		Upload a photo
//	@Description	Relays the photo to remote storage and returns its public URL. The local copy is always removed.
//	@Tags			photos
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			photo	formData	file	true	"Photo to upload"
//	@Success		200		{object}	uploadResponse
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		413		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/upload-photo [post]
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	const op = "photo.UploadPhoto"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	f, ok := upload.FromContext(r.Context())
	if !ok {
		log.Info("no photo in request")
		response.BadRequest(w, r, msgMissingFile)
		return
	}

	// A client abort must not cancel a provider call already in flight.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.timeout)
	defer cancel()

	res, err := h.store.Upload(ctx, f.Path, storage.Options{
		Folder:         h.folder,
		UseFilename:    true,
		UniqueFilename: false,
		Overwrite:      true,
	})
	if err != nil {
		log.Error("failed to upload photo",
			slog.String("filename", f.Filename),
			logger.Err(err),
		)
		response.InternalError(w, r, msgUploadFailed)
		return
	}

	// TODO: persist res.SecureURL once a photo store exists.
	log.Info("photo uploaded",
		slog.String("filename", f.Filename),
		slog.String("url", res.SecureURL),
	)

	response.OK(w, r, uploadResponse{
		Message:  msgUploaded,
		PhotoURL: res.SecureURL,
	})
}

func (h *Handler) stagingError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, upload.ErrTooLarge) {
		response.PayloadTooLarge(w, r, msgFileTooLarge)
		return
	}
	response.InternalError(w, r, msgUploadFailed)
}
