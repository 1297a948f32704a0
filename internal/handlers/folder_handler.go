// File: internal/handlers/folder_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"go-discussions/internal/middleware"
	"go-discussions/internal/services"
)

type FolderHandler struct {
	FolderService *services.FolderService
}

func NewFolderHandler(fs *services.FolderService) *FolderHandler {
	return &FolderHandler{FolderService: fs}
}

func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	folders, err := h.FolderService.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, folders)
}

func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.PostFormValue("name"))
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"errors": map[string]string{"name": "Folder name is required."},
		})
		return
	}

	if _, err := h.FolderService.Create(r.Context(), userID, name); err != nil {
		writeServiceError(w, err)
		return
	}

	redirectNext(w, r)
}

func (h *FolderHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	folderID, err := strconv.ParseUint(mux.Vars(r)["folder_id"], 10, 32)
	if err != nil {
		writeError(w, "Invalid folder ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.PostFormValue("name"))
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"errors": map[string]string{"name": "Folder name is required."},
		})
		return
	}

	if _, err := h.FolderService.Update(r.Context(), userID, uint(folderID), name); err != nil {
		writeServiceError(w, err)
		return
	}

	redirectNext(w, r)
}

// Remove deletes a folder. The discussions filed under it are detached, not
// deleted.
func (h *FolderHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	folderID, err := strconv.ParseUint(mux.Vars(r)["folder_id"], 10, 32)
	if err != nil {
		writeError(w, "Invalid folder ID", http.StatusBadRequest)
		return
	}

	if err := h.FolderService.Delete(r.Context(), userID, uint(folderID)); err != nil {
		writeServiceError(w, err)
		return
	}

	redirectNext(w, r)
}
