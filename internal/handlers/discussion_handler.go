// File: internal/handlers/discussion_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"go-discussions/internal/domain"
	"go-discussions/internal/middleware"
	"go-discussions/internal/services"
	discussionservice "go-discussions/internal/services/discussion"
	"go-discussions/internal/services/render"
)

type DiscussionHandler struct {
	DiscussionService *services.DiscussionService
	FolderService     *services.FolderService
	ContactService    *services.ContactService
	Renderer          *render.Renderer
}

func NewDiscussionHandler(ds *services.DiscussionService, fs *services.FolderService, cs *services.ContactService, renderer *render.Renderer) *DiscussionHandler {
	return &DiscussionHandler{
		DiscussionService: ds,
		FolderService:     fs,
		ContactService:    cs,
		Renderer:          renderer,
	}
}

// messageView is a message plus its rendered body for display.
type messageView struct {
	domain.Message
	BodyHTML string `json:"body_html"`
}

type detailResponse struct {
	Discussion *domain.Discussion `json:"discussion"`
	Recipients []domain.Recipient `json:"recipients"`
	Messages   []messageView      `json:"messages"`
}

// Compose creates a new discussion from the compose form. Recipients arrive
// as a "+"-separated username list, either posted or in the URL.
func (h *DiscussionHandler) Compose(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	recipientsRaw := r.PostFormValue("recipients")
	if recipientsRaw == "" {
		recipientsRaw = mux.Vars(r)["recipients"]
	}
	subject := strings.TrimSpace(r.PostFormValue("subject"))
	body := strings.TrimSpace(r.PostFormValue("body"))

	fieldErrors := map[string]string{}
	if subject == "" {
		fieldErrors["subject"] = "Subject is required."
	}
	if body == "" {
		fieldErrors["body"] = "Message body is required."
	}

	var usernames []string
	for _, name := range strings.Split(recipientsRaw, "+") {
		if name = strings.TrimSpace(name); name != "" {
			usernames = append(usernames, name)
		}
	}
	if len(usernames) == 0 {
		fieldErrors["recipients"] = "At least one recipient is required."
	}

	var recipientIDs []uint
	if len(usernames) > 0 {
		users, unknown, err := h.DiscussionService.ResolveUsernames(r.Context(), usernames)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if len(unknown) > 0 {
			fieldErrors["recipients"] = fmt.Sprintf("Unknown recipients: %s", strings.Join(unknown, ", "))
		}
		for _, u := range users {
			recipientIDs = append(recipientIDs, u.ID)
		}
	}

	// Atomic per submission: any field error fails the whole form.
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": fieldErrors})
		return
	}

	created, err := h.DiscussionService.SendMessage(r.Context(), userID, recipientIDs, subject, body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if next := r.FormValue("next"); next != "" && next[0] == '/' {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	if len(recipientIDs) == 1 {
		http.Redirect(w, r, fmt.Sprintf("/view/%d", created.ID), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// View shows one discussion and marks the viewer's row read.
func (h *DiscussionHandler) View(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	discussionID, err := strconv.ParseUint(mux.Vars(r)["discussion_id"], 10, 32)
	if err != nil {
		writeError(w, "Invalid discussion ID", http.StatusBadRequest)
		return
	}

	detail, err := h.DiscussionService.GetDetail(r.Context(), userID, uint(discussionID))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := detailResponse{
		Discussion: detail.Discussion,
		Recipients: detail.Recipients,
		Messages:   make([]messageView, 0, len(detail.Messages)),
	}
	for _, m := range detail.Messages {
		resp.Messages = append(resp.Messages, messageView{
			Message:  m,
			BodyHTML: h.Renderer.RenderBody(m.Body),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// Reply appends a message to an existing discussion.
func (h *DiscussionHandler) Reply(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	discussionID, err := strconv.ParseUint(mux.Vars(r)["discussion_id"], 10, 32)
	if err != nil {
		writeError(w, "Invalid discussion ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	// Only participants may reply; the visibility check doubles as the
	// existence check.
	if _, err := h.DiscussionService.GetDetail(r.Context(), userID, uint(discussionID)); err != nil {
		writeServiceError(w, err)
		return
	}

	body := strings.TrimSpace(r.PostFormValue("body"))
	if body == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"errors": map[string]string{"body": "Message body is required."},
		})
		return
	}

	if _, err := h.DiscussionService.AddMessage(r.Context(), uint(discussionID), userID, body); err != nil {
		writeServiceError(w, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/view/%d", discussionID), http.StatusSeeOther)
}

// Remove bulk-hides discussions; Unremove reverses it.
func (h *DiscussionHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, false)
}

func (h *DiscussionHandler) Unremove(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, true)
}

func (h *DiscussionHandler) remove(w http.ResponseWriter, r *http.Request, undo bool) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	ids := parseIDList(r.PostForm["discussion_ids"])
	if len(ids) > 0 {
		if _, err := h.DiscussionService.Remove(r.Context(), userID, ids, undo); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	redirectNext(w, r)
}

// Leave removes the caller's recipient association entirely. Senders are
// silently refused per discussion; the batch keeps going.
func (h *DiscussionHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	ids := parseIDList(r.PostForm["discussion_ids"])
	if len(ids) > 0 {
		if _, err := h.DiscussionService.Leave(r.Context(), userID, ids); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	redirectNext(w, r)
}

// Move re-folders discussions. Without a folder id in the path the rows move
// out of any folder.
func (h *DiscussionHandler) Move(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	var folderID *uint
	if raw, present := mux.Vars(r)["folder_id"]; present && raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			writeError(w, "Invalid folder ID", http.StatusBadRequest)
			return
		}
		// The folder must exist and belong to the caller.
		if _, err := h.FolderService.Get(r.Context(), userID, uint(id)); err != nil {
			writeServiceError(w, err)
			return
		}
		v := uint(id)
		folderID = &v
	}

	ids := parseIDList(r.PostForm["discussion_ids"])
	if len(ids) > 0 {
		if _, err := h.DiscussionService.Move(r.Context(), userID, ids, folderID); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	redirectNext(w, r)
}

func (h *DiscussionHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	h.mark(w, r, true)
}

func (h *DiscussionHandler) MarkUnread(w http.ResponseWriter, r *http.Request) {
	h.mark(w, r, false)
}

func (h *DiscussionHandler) mark(w http.ResponseWriter, r *http.Request, read bool) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	ids := parseIDList(r.PostForm["discussion_ids"])
	if len(ids) > 0 {
		var err error
		if read {
			_, err = h.DiscussionService.MarkRead(r.Context(), userID, ids)
		} else {
			_, err = h.DiscussionService.MarkUnread(r.Context(), userID, ids)
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}
	}

	redirectNext(w, r)
}

// ===== LISTING VIEWS =====

func (h *DiscussionHandler) listing(w http.ResponseWriter, r *http.Request, load func(userID uint, page int) (*discussionservice.Page, error)) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	page, err := load(userID, parsePage(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *DiscussionHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, func(userID uint, page int) (*discussionservice.Page, error) {
		return h.DiscussionService.Inbox(r.Context(), userID, page)
	})
}

func (h *DiscussionHandler) Sent(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, func(userID uint, page int) (*discussionservice.Page, error) {
		return h.DiscussionService.Sent(r.Context(), userID, page)
	})
}

func (h *DiscussionHandler) Unread(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, func(userID uint, page int) (*discussionservice.Page, error) {
		return h.DiscussionService.Unread(r.Context(), userID, page)
	})
}

func (h *DiscussionHandler) Read(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, func(userID uint, page int) (*discussionservice.Page, error) {
		return h.DiscussionService.Read(r.Context(), userID, page)
	})
}

func (h *DiscussionHandler) Trash(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, func(userID uint, page int) (*discussionservice.Page, error) {
		return h.DiscussionService.Trash(r.Context(), userID, page)
	})
}

func (h *DiscussionHandler) FolderListing(w http.ResponseWriter, r *http.Request) {
	folderID, err := strconv.ParseUint(mux.Vars(r)["folder_id"], 10, 32)
	if err != nil {
		writeError(w, "Invalid folder ID", http.StatusBadRequest)
		return
	}

	h.listing(w, r, func(userID uint, page int) (*discussionservice.Page, error) {
		if _, err := h.FolderService.Get(r.Context(), userID, uint(folderID)); err != nil {
			return nil, err
		}
		return h.DiscussionService.FolderListing(r.Context(), userID, uint(folderID), page)
	})
}

func (h *DiscussionHandler) ConversationWith(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	h.listing(w, r, func(userID uint, page int) (*discussionservice.Page, error) {
		return h.DiscussionService.ConversationWith(r.Context(), userID, username, page)
	})
}

func (h *DiscussionHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	count, err := h.DiscussionService.UnreadCount(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"unread": count})
}

func (h *DiscussionHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	contacts, err := h.ContactService.ContactsFor(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}
