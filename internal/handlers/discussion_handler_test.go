package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-discussions/internal/domain"
	"go-discussions/internal/middleware"
	contactrepo "go-discussions/internal/repository/contact"
	discussionrepo "go-discussions/internal/repository/discussion"
	folderrepo "go-discussions/internal/repository/folder"
	messagerepo "go-discussions/internal/repository/message"
	recipientrepo "go-discussions/internal/repository/recipient"
	userrepo "go-discussions/internal/repository/user"
	"go-discussions/internal/services"
	"go-discussions/internal/services/render"
)

type handlerEnv struct {
	router      *mux.Router
	users       userrepo.UserRepository
	discussions *services.DiscussionService
	folders     *services.FolderService
}

// testAuth injects the user id from the X-Test-User header, standing in for
// the JWT cookie middleware.
func testAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(r.Header.Get("X-Test-User"), 10, 32)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), middleware.UserIDKey, uint(id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Discussion{},
		&domain.Message{},
		&domain.Recipient{},
		&domain.Folder{},
		&domain.Contact{},
	))

	users := userrepo.NewGormUserRepository(db)
	discussions := discussionrepo.NewDiscussionRepository(db)
	recipients := recipientrepo.NewRecipientRepository(db)
	messages := messagerepo.NewMessageRepository(db)
	folders := folderrepo.NewFolderRepository(db)
	contacts := contactrepo.NewContactRepository(db)

	discussionService, err := services.NewDiscussionService(discussions, recipients, messages, contacts, users, nil, &services.NoOpLogger{})
	require.NoError(t, err)
	folderService := services.NewFolderService(folders, recipients, &services.NoOpLogger{})
	contactService := services.NewContactService(contacts, &services.NoOpLogger{})

	handler := NewDiscussionHandler(discussionService, folderService, contactService, render.NewRenderer())
	folderHandler := NewFolderHandler(folderService)

	r := mux.NewRouter()
	r.Use(testAuth)
	r.HandleFunc("/", handler.Inbox).Methods("GET")
	r.HandleFunc("/trash", handler.Trash).Methods("GET")
	r.HandleFunc("/compose", handler.Compose).Methods("POST")
	r.HandleFunc("/compose/{recipients}", handler.Compose).Methods("POST")
	r.HandleFunc("/view/{discussion_id:[0-9]+}", handler.View).Methods("GET")
	r.HandleFunc("/reply/{discussion_id:[0-9]+}", handler.Reply).Methods("POST")
	r.HandleFunc("/remove", handler.Remove).Methods("POST")
	r.HandleFunc("/unremove", handler.Unremove).Methods("POST")
	r.HandleFunc("/leave", handler.Leave).Methods("POST")
	r.HandleFunc("/move/{folder_id:[0-9]+}", handler.Move).Methods("POST")
	r.HandleFunc("/move", handler.Move).Methods("POST")
	r.HandleFunc("/mark-read", handler.MarkRead).Methods("POST")
	r.HandleFunc("/folders", folderHandler.Create).Methods("POST")
	r.HandleFunc("/folders/{folder_id:[0-9]+}/remove", folderHandler.Remove).Methods("POST")

	return &handlerEnv{router: r, users: users, discussions: discussionService, folders: folderService}
}

func (e *handlerEnv) createUser(t *testing.T, username string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username}
	require.NoError(t, u.HashPassword("password123"))
	created, err := e.users.Create(context.Background(), u)
	require.NoError(t, err)
	return created
}

func (e *handlerEnv) postForm(t *testing.T, userID uint, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Test-User", strconv.FormatUint(uint64(userID), 10))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *handlerEnv) get(t *testing.T, userID uint, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-Test-User", strconv.FormatUint(uint64(userID), 10))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func Test_ComposeHandler(t *testing.T) {
	env := newHandlerEnv(t)
	alice := env.createUser(t, "alice")
	env.createUser(t, "bob")
	env.createUser(t, "carol")

	t.Run("single recipient redirects to the new discussion", func(t *testing.T) {
		rec := env.postForm(t, alice.ID, "/compose", url.Values{
			"recipients": {"bob"},
			"subject":    {"hello"},
			"body":       {"first message"},
		})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Regexp(t, `^/view/\d+$`, rec.Header().Get("Location"))
	})

	t.Run("multiple recipients redirect to the inbox", func(t *testing.T) {
		rec := env.postForm(t, alice.ID, "/compose", url.Values{
			"recipients": {"bob+carol"},
			"subject":    {"group"},
			"body":       {"hi all"},
		})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("recipients can come from the URL", func(t *testing.T) {
		rec := env.postForm(t, alice.ID, "/compose/bob+carol", url.Values{
			"subject": {"from url"},
			"body":    {"hi"},
		})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})

	t.Run("next wins over the default redirect", func(t *testing.T) {
		rec := env.postForm(t, alice.ID, "/compose", url.Values{
			"recipients": {"bob"},
			"subject":    {"with next"},
			"body":       {"hi"},
			"next":       {"/sent"},
		})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/sent", rec.Header().Get("Location"))
	})

	t.Run("unknown recipient fails the whole submission", func(t *testing.T) {
		before, err := env.discussions.Sent(context.Background(), alice.ID, 1)
		require.NoError(t, err)

		rec := env.postForm(t, alice.ID, "/compose", url.Values{
			"recipients": {"bob+ghost"},
			"subject":    {"doomed"},
			"body":       {"hi"},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp struct {
			Errors map[string]string `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Errors["recipients"], "ghost")

		after, err := env.discussions.Sent(context.Background(), alice.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, before.Total, after.Total)
	})

	t.Run("missing fields are reported together", func(t *testing.T) {
		rec := env.postForm(t, alice.ID, "/compose", url.Values{})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp struct {
			Errors map[string]string `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Errors, "subject")
		assert.Contains(t, resp.Errors, "body")
		assert.Contains(t, resp.Errors, "recipients")
	})
}

func Test_ViewHandler(t *testing.T) {
	env := newHandlerEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	mallory := env.createUser(t, "mallory")

	d, err := env.discussions.SendMessage(context.Background(), alice.ID, []uint{bob.ID}, "hello", "some **bold** text")
	require.NoError(t, err)

	t.Run("participants get the rendered thread", func(t *testing.T) {
		rec := env.get(t, bob.ID, fmt.Sprintf("/view/%d", d.ID))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Discussion domain.Discussion `json:"discussion"`
			Messages   []struct {
				Body     string `json:"body"`
				BodyHTML string `json:"body_html"`
			} `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, d.ID, resp.Discussion.ID)
		require.Len(t, resp.Messages, 1)
		assert.Contains(t, resp.Messages[0].BodyHTML, "<strong>bold</strong>")
	})

	t.Run("outsiders get a 404", func(t *testing.T) {
		rec := env.get(t, mallory.ID, fmt.Sprintf("/view/%d", d.ID))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func Test_BulkOperations(t *testing.T) {
	env := newHandlerEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	ctx := context.Background()
	d1, err := env.discussions.SendMessage(ctx, alice.ID, []uint{bob.ID}, "one", "body")
	require.NoError(t, err)
	d2, err := env.discussions.SendMessage(ctx, alice.ID, []uint{bob.ID}, "two", "body")
	require.NoError(t, err)

	t.Run("garbage ids are skipped, numeric ones processed", func(t *testing.T) {
		rec := env.postForm(t, bob.ID, "/remove", url.Values{
			"discussion_ids": {strconv.Itoa(int(d1.ID)), "x", strconv.Itoa(int(d2.ID))},
			"next":           {"/trash"},
		})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/trash", rec.Header().Get("Location"))

		trash, err := env.discussions.Trash(ctx, bob.ID, 1)
		require.NoError(t, err)
		assert.EqualValues(t, 2, trash.Total)
	})

	t.Run("unremove brings them back", func(t *testing.T) {
		rec := env.postForm(t, bob.ID, "/unremove", url.Values{
			"discussion_ids": {strconv.Itoa(int(d1.ID)), strconv.Itoa(int(d2.ID))},
		})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))

		trash, err := env.discussions.Trash(ctx, bob.ID, 1)
		require.NoError(t, err)
		assert.EqualValues(t, 0, trash.Total)
	})

	t.Run("an off-site next target falls back to the inbox", func(t *testing.T) {
		rec := env.postForm(t, bob.ID, "/mark-read", url.Values{
			"discussion_ids": {strconv.Itoa(int(d1.ID))},
			"next":           {"https://evil.example/phish"},
		})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("moving into another user's folder is a 404", func(t *testing.T) {
		folder, err := env.folders.Create(ctx, alice.ID, "private")
		require.NoError(t, err)

		rec := env.postForm(t, bob.ID, fmt.Sprintf("/move/%d", folder.ID), url.Values{
			"discussion_ids": {strconv.Itoa(int(d1.ID))},
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func Test_FolderHandlers(t *testing.T) {
	env := newHandlerEnv(t)
	alice := env.createUser(t, "alice")

	t.Run("create redirects and requires a name", func(t *testing.T) {
		rec := env.postForm(t, alice.ID, "/folders", url.Values{"name": {"work"}})
		assert.Equal(t, http.StatusSeeOther, rec.Code)

		rec = env.postForm(t, alice.ID, "/folders", url.Values{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("removing an unknown folder is a 404", func(t *testing.T) {
		rec := env.postForm(t, alice.ID, "/folders/4242/remove", url.Values{})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func Test_parseIDList(t *testing.T) {
	assert.Equal(t, []uint{1, 2}, parseIDList([]string{"1", "x", "2"}))
	assert.Equal(t, []uint{7}, parseIDList([]string{"7", "7", "0", "-3", ""}))
	assert.Empty(t, parseIDList(nil))
}
