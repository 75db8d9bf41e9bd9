package api

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/ashureev/panelboard/internal/app"
	"github.com/ashureev/panelboard/internal/domain"
)

const (
	uploadField     = "file"
	multipartMemory = 32 << 20
)

// Upload handles a file posted to the data explorer or file uploader panel.
// A form without a file renders the panel's prompt.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	panel, err := panelFromRequest(r)
	if err != nil {
		Error(w, http.StatusNotFound, err.Error())
		return
	}
	if panel != domain.PanelDataExplorer && panel != domain.PanelFileUploader {
		Error(w, http.StatusNotFound, "panel does not accept uploads")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	art, err := readArtifact(r)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		Error(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	case err != nil:
		slog.InfoContext(r.Context(), "Invalid upload", "error", err, "panel", panel)
		Error(w, http.StatusBadRequest, "invalid upload")
		return
	}

	h.render(w, r, app.State{Panel: panel}, app.Upload{Panel: panel, Artifact: art})
}

// readArtifact returns the uploaded file, or nil when the form carries none.
func readArtifact(r *http.Request) (*domain.Artifact, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	file, header, err := r.FormFile(uploadField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	art := &domain.Artifact{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: declaredType(header),
		Data:        data,
	}
	logSniffMismatch(r, art)
	return art, nil
}

func declaredType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// logSniffMismatch notes uploads whose bytes do not look like their declared
// type. The declared type is still used.
func logSniffMismatch(r *http.Request, art *domain.Artifact) {
	sniffed := (&domain.Artifact{ContentType: http.DetectContentType(art.Data)}).MediaType()
	if sniffed != art.MediaType() {
		slog.DebugContext(r.Context(), "Upload content type differs from sniffed type",
			"name", art.Name, "declared", art.MediaType(), "sniffed", sniffed)
	}
}
