// Package upload stages a multipart file part on local disk for the
// lifetime of one request.
//
// Each request gets its own directory under Options.Dir holding the file
// under its original base name. The directory is removed once the wrapped
// handler returns, whatever the outcome.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/levig/photos-app/internal/logger"
	"github.com/levig/photos-app/internal/response"
)

// ErrTooLarge is returned when the request body exceeds Options.MaxBytes.
var ErrTooLarge = errors.New("upload too large")

// fallbackName is used when the client sends an unusable filename.
const fallbackName = "upload"

// File is a staged upload.
type File struct {
	Field       string
	Filename    string // original base name as sent by the client
	Path        string // local path of the staged copy
	ContentType string
	Size        int64

	dir string
}

// Remove deletes the staged copy. Calling it on an already removed file is a no-op.
func (f *File) Remove() error {
	if err := os.RemoveAll(f.dir); err != nil {
		return fmt.Errorf("remove staged upload %q: %w", f.dir, err)
	}
	return nil
}

// Options configures Single.
type Options struct {
	// Dir is the root of transient local storage.
	Dir string
	// MaxBytes caps the request body. Zero means no limit.
	MaxBytes int64
	Logger   *slog.Logger
	// ErrorHandler writes the response when staging fails. Defaults to a
	// plain JSON error.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

type ctxKey struct{}

// FromContext returns the file staged for the request, if any.
func FromContext(ctx context.Context) (*File, bool) {
	f, ok := ctx.Value(ctxKey{}).(*File)
	return f, ok && f != nil
}

// Single returns middleware that stages the first file sent under field.
// Requests without such a file reach next with nothing in the context.
func Single(field string, opts Options) func(http.Handler) http.Handler {
	if opts.ErrorHandler == nil {
		opts.ErrorHandler = defaultErrorHandler
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "upload.Single"

			log := opts.Logger.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if opts.MaxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, opts.MaxBytes)
			}

			// A body that breaks before the file part reads as no file; one
			// that breaks inside it is a staging failure.
			f, err := stage(r, field, opts.Dir)
			if err != nil {
				log.Error("failed to stage upload", logger.Err(err))
				opts.ErrorHandler(w, r, err)
				return
			}
			if f == nil {
				next.ServeHTTP(w, r)
				return
			}

			defer func() {
				if err := f.Remove(); err != nil {
					log.Error("failed to remove staged upload", logger.Err(err))
				}
			}()

			log.Debug("upload staged",
				slog.String("filename", f.Filename),
				slog.Int64("size", f.Size),
			)

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, f)))
		})
	}
}

// stage walks the multipart body and writes the first file part named
// field to disk. It returns nil, nil when there is nothing to stage.
func stage(r *http.Request, field, dir string) (*File, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		// Not multipart, or no body at all.
		return nil, nil
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			if isTooLarge(err) {
				return nil, ErrTooLarge
			}
			// Malformed body: no usable file was sent.
			return nil, nil
		}

		if part.FormName() != field || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		f, err := save(part, dir)
		_ = part.Close()
		return f, err
	}
}

// save writes one part to <dir>/<uuid>/<name>.
func save(part *multipart.Part, dir string) (*File, error) {
	reqDir := filepath.Join(dir, uuid.NewString())
	if err := os.MkdirAll(reqDir, 0o750); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}

	name := sanitizeFilename(part.FileName())
	path := filepath.Join(reqDir, name)

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		_ = os.RemoveAll(reqDir)
		return nil, fmt.Errorf("create staged file: %w", err)
	}

	n, err := io.Copy(out, part)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.RemoveAll(reqDir)
		if isTooLarge(err) {
			return nil, ErrTooLarge
		}
		return nil, fmt.Errorf("write staged file: %w", err)
	}

	return &File{
		Field:       part.FormName(),
		Filename:    name,
		Path:        path,
		ContentType: part.Header.Get("Content-Type"),
		Size:        n,
		dir:         reqDir,
	}, nil
}

// sanitizeFilename reduces a client filename to a safe base name.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(filepath.Clean("/" + name))
	if name == "/" || name == "." || name == ".." || name == "" {
		return fallbackName
	}
	return name
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrTooLarge) {
		response.PayloadTooLarge(w, r, "upload too large")
		return
	}
	response.InternalError(w, r, "internal server error")
}
