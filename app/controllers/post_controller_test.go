package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"blogsite/app/models"
	"blogsite/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostController_Index(t *testing.T) {
	app := setupTestApp(t)
	app.createPost(t, "Visible Post", true)
	app.createPost(t, "Hidden Draft", false)

	t.Run("html", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Visible Post")
		assert.NotContains(t, w.Body.String(), "Hidden Draft")
	})

	t.Run("json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response struct {
			Posts []models.Post `json:"posts"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Posts, 1)
		assert.Equal(t, "Visible Post", response.Posts[0].Title)
	})

	t.Run("accept header selects json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept", "application/json")
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, req)

		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	})
}

func TestPostController_Drafts(t *testing.T) {
	app := setupTestApp(t)
	app.createPost(t, "Published", true)
	app.createPost(t, "My Draft", false)

	req := app.signIn(httptest.NewRequest(http.MethodGet, "/drafts", nil))
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "My Draft")
	assert.NotContains(t, w.Body.String(), "Published</a>")
}

func TestPostController_Show(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()
	post := app.createPost(t, "Detail Post", true)

	pending := &models.Comment{Author: "Ann", Text: "pending words"}
	approved := &models.Comment{Author: "Bob", Text: "approved words"}
	require.NoError(t, app.comments.AddComment(ctx, post.ID, pending))
	require.NoError(t, app.comments.AddComment(ctx, post.ID, approved))
	_, err := app.comments.Approve(ctx, approved.ID)
	require.NoError(t, err)

	path := "/post/" + strconv.Itoa(post.ID)

	t.Run("anonymous sees approved comments only", func(t *testing.T) {
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Detail Post")
		assert.Contains(t, body, "approved words")
		assert.NotContains(t, body, "pending words")
		assert.NotContains(t, body, "/approve/")
	})

	t.Run("signed in sees pending comments with actions", func(t *testing.T) {
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, app.signIn(httptest.NewRequest(http.MethodGet, path, nil)))

		body := w.Body.String()
		assert.Contains(t, body, "pending words")
		assert.Contains(t, body, "/comment/"+strconv.Itoa(pending.ID)+"/approve/")
		assert.Contains(t, body, "/comment/"+strconv.Itoa(approved.ID)+"/remove/")
	})

	t.Run("json for anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts/"+strconv.Itoa(post.ID), nil))

		var response models.Post
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Comments, 1)
		assert.Equal(t, approved.ID, response.Comments[0].ID)
	})

	t.Run("missing post", func(t *testing.T) {
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/post/999", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = httptest.NewRecorder()
		app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts/999", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Not Found"}`, w.Body.String())
	})
}

func TestPostController_NewFormDefaultsAuthor(t *testing.T) {
	app := setupTestApp(t)

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, app.signIn(httptest.NewRequest(http.MethodGet, "/post/new/", nil)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="author" id="id_author" maxlength="150" value="admin"`)
}

func TestPostController_CreateForm(t *testing.T) {
	app := setupTestApp(t)

	t.Run("valid form redirects to detail", func(t *testing.T) {
		form := url.Values{"title": {"Form Post"}, "text": {"Written in a browser"}}
		req := httptest.NewRequest(http.MethodPost, "/post/new/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, app.signIn(req))

		require.Equal(t, http.StatusFound, w.Code)
		location := w.Header().Get("Location")
		assert.True(t, strings.HasPrefix(location, "/post/"))

		id, err := strconv.Atoi(strings.TrimPrefix(location, "/post/"))
		require.NoError(t, err)
		post, err := app.posts.GetPost(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "admin", post.Author)
		assert.Nil(t, post.PublishedDate)
	})

	t.Run("invalid form re-renders with errors", func(t *testing.T) {
		form := url.Values{"title": {strings.Repeat("t", 201)}, "text": {"kept text"}}
		req := httptest.NewRequest(http.MethodPost, "/post/new/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, app.signIn(req))

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Ensure this value has at most 200 characters.")
		assert.Contains(t, body, "kept text")
	})

	t.Run("unknown author", func(t *testing.T) {
		form := url.Values{"author": {"ghost"}, "title": {"T"}, "text": {"x"}}
		req := httptest.NewRequest(http.MethodPost, "/post/new/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, app.signIn(req))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Select a valid choice.")
	})
}

func TestPostController_CreateJSON(t *testing.T) {
	app := setupTestApp(t)

	t.Run("created", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"title":"API Post","text":"From JSON"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, app.signIn(req))

		assert.Equal(t, http.StatusCreated, w.Code)
		var response models.Post
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.NotZero(t, response.ID)
		assert.Equal(t, "API Post", response.Title)
		assert.Equal(t, "admin", response.Author)
		assert.Nil(t, response.PublishedDate)
	})

	t.Run("validation errors", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"title":"","text":""}`))
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, app.signIn(req))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var response struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Contains(t, response.Fields, "title")
		assert.Contains(t, response.Fields, "text")
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"title":`))
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, app.signIn(req))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPostController_Update(t *testing.T) {
	app := setupTestApp(t)
	post := app.createPost(t, "Before", true)
	originalPublished := *post.PublishedDate
	app.clock.Advance(time.Hour)

	t.Run("edit form is prefilled", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/post/"+strconv.Itoa(post.ID)+"/edit/", nil)
		app.router.ServeHTTP(w, app.signIn(req))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `value="Before"`)
	})

	t.Run("form submit keeps dates", func(t *testing.T) {
		form := url.Values{"author": {"admin"}, "title": {"After"}, "text": {"changed"}}
		req := httptest.NewRequest(http.MethodPost, "/post/"+strconv.Itoa(post.ID)+"/edit/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, app.signIn(req))

		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/post/"+strconv.Itoa(post.ID), w.Header().Get("Location"))

		got, err := app.posts.GetPost(context.Background(), post.ID)
		require.NoError(t, err)
		assert.Equal(t, "After", got.Title)
		assert.Equal(t, epoch, got.CreatedDate)
		assert.Equal(t, originalPublished, *got.PublishedDate)
	})

	t.Run("json put", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/posts/"+strconv.Itoa(post.ID), strings.NewReader(`{"title":"Via API","text":"body"}`))
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, app.signIn(req))

		assert.Equal(t, http.StatusOK, w.Code)
		var response models.Post
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Via API", response.Title)
	})

	t.Run("missing post", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/posts/999", strings.NewReader(`{"title":"x","text":"y"}`))
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, app.signIn(req))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPostController_Publish(t *testing.T) {
	app := setupTestApp(t)
	post := app.createPost(t, "Draft", false)

	req := httptest.NewRequest(http.MethodPost, "/post/"+strconv.Itoa(post.ID)+"/publish/", nil)
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, app.signIn(req))

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/post/"+strconv.Itoa(post.ID), w.Header().Get("Location"))

	listing, err := app.posts.ListPublished(context.Background())
	require.NoError(t, err)
	require.Len(t, listing, 1)
	assert.Equal(t, post.ID, listing[0].ID)
	assert.Equal(t, epoch, *listing[0].PublishedDate)

	w = httptest.NewRecorder()
	app.router.ServeHTTP(w, app.signIn(httptest.NewRequest(http.MethodPost, "/api/posts/999/publish", nil)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostController_Delete(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()
	post := app.createPost(t, "Doomed", true)
	comment := &models.Comment{Author: "Ann", Text: "going too"}
	require.NoError(t, app.comments.AddComment(ctx, post.ID, comment))

	t.Run("confirmation page", func(t *testing.T) {
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, app.signIn(httptest.NewRequest(http.MethodGet, "/post/"+strconv.Itoa(post.ID)+"/renove", nil)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Are you sure")
	})

	t.Run("delete redirects home", func(t *testing.T) {
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, app.signIn(httptest.NewRequest(http.MethodPost, "/post/"+strconv.Itoa(post.ID)+"/renove", nil)))

		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		_, err := app.posts.GetPost(ctx, post.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		_, err = app.comments.GetComment(ctx, comment.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("api delete", func(t *testing.T) {
		other := app.createPost(t, "Also doomed", false)
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, app.signIn(httptest.NewRequest(http.MethodDelete, "/api/posts/"+strconv.Itoa(other.ID), nil)))
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.NewRecorder()
		app.router.ServeHTTP(w, app.signIn(httptest.NewRequest(http.MethodDelete, "/api/posts/"+strconv.Itoa(other.ID), nil)))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
