package handlers

import (
	"errors"
	"net/http"

	"tendermarket/internal/files"
)

// UploadFileHandler handles POST /api/files/upload: one multipart "file"
// part, image mime types only, 5MB cap. Returns the public reference URL.
func (h *Handler) UploadFileHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, files.MaxUploadSize+4096)

	if err := r.ParseMultipartForm(files.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "file exceeds the 5MB limit")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	if header.Size > files.MaxUploadSize {
		respondError(w, http.StatusBadRequest, "file exceeds the 5MB limit")
		return
	}

	url, err := h.Files.Save(header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, files.ErrUnsupportedType) {
			respondError(w, http.StatusUnsupportedMediaType, "only image files are accepted")
			return
		}
		h.respondInternal(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, map[string]string{"url": url})
}

// DeleteFileHandler handles DELETE /api/files?ref=. The reference is the
// opaque URL returned by upload.
func (h *Handler) DeleteFileHandler(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("ref")
	if ref == "" {
		respondError(w, http.StatusBadRequest, "ref parameter is required")
		return
	}

	if err := h.Files.Delete(ref); err != nil {
		if errors.Is(err, files.ErrNotFound) {
			respondNotFound(w, "file")
			return
		}
		h.respondInternal(w, r, err)
		return
	}

	respondData(w, http.StatusOK, map[string]bool{"deleted": true})
}
