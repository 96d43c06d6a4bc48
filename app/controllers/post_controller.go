package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"blogsite/app/middleware"
	"blogsite/app/models"
	"blogsite/app/services"
	"blogsite/app/views"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	base
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, templates views.Templates, logger *slog.Logger) *PostController {
	return &PostController{
		base:        newBase(templates, logger),
		postService: postService,
	}
}

// postPayload is the JSON body accepted by create and update.
type postPayload struct {
	Author string `json:"author"`
	Title  string `json:"title"`
	Text   string `json:"text"`
}

// Index lists published posts, newest first
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPublished(r.Context())
	if err != nil {
		pc.handleError(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
		return
	}
	pc.render(w, r, "post_list", http.StatusOK, &views.Page{Posts: posts})
}

// Drafts lists unpublished posts, newest first
func (pc *PostController) Drafts(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListDrafts(r.Context())
	if err != nil {
		pc.handleError(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
		return
	}
	pc.render(w, r, "post_drafts", http.StatusOK, &views.Page{Title: "Drafts", Posts: posts})
}

// Show displays a single post. Anonymous visitors only see approved comments.
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	post, ok := pc.loadPost(w, r)
	if !ok {
		return
	}

	if _, signedIn := middleware.CurrentUser(r.Context()); !signedIn {
		post.Comments = post.ApprovedComments()
	}

	if middleware.WantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, post)
		return
	}
	pc.render(w, r, "post_detail", http.StatusOK, &views.Page{
		Title:    post.Title,
		Post:     post,
		Comments: post.Comments,
	})
}

// New displays the form for creating a new post
func (pc *PostController) New(w http.ResponseWriter, r *http.Request) {
	form := map[string]string{}
	if user, ok := middleware.CurrentUser(r.Context()); ok {
		form["author"] = user.Username
	}
	pc.render(w, r, "post_form", http.StatusOK, &views.Page{
		Title:  "New post",
		Form:   form,
		Action: "/post/new/",
	})
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	post, form, ok := pc.bind(w, r)
	if !ok {
		return
	}

	if err := pc.postService.CreatePost(r.Context(), post); err != nil {
		if fields, invalid := validationFields(err); invalid && !middleware.WantsJSON(r) {
			pc.render(w, r, "post_form", http.StatusOK, &views.Page{
				Title:  "New post",
				Form:   form,
				Errors: fields,
				Action: "/post/new/",
			})
			return
		}
		pc.handleError(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		pc.sendJSON(w, http.StatusCreated, post)
		return
	}
	pc.redirect(w, r, postPath(post.ID))
}

// Edit displays the form for an existing post
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	post, ok := pc.loadPost(w, r)
	if !ok {
		return
	}

	pc.render(w, r, "post_form", http.StatusOK, &views.Page{
		Title: "Edit post",
		Post:  post,
		Form: map[string]string{
			"author": post.Author,
			"title":  post.Title,
			"text":   post.Text,
		},
		Action: postPath(post.ID) + "/edit/",
	})
}

// Update saves changes to an existing post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pc.sendError(w, r, "Not Found", http.StatusNotFound)
		return
	}

	post, form, ok := pc.bind(w, r)
	if !ok {
		return
	}
	post.ID = id

	if err := pc.postService.UpdatePost(r.Context(), post); err != nil {
		if fields, invalid := validationFields(err); invalid && !middleware.WantsJSON(r) {
			pc.render(w, r, "post_form", http.StatusOK, &views.Page{
				Title:  "Edit post",
				Post:   post,
				Form:   form,
				Errors: fields,
				Action: postPath(id) + "/edit/",
			})
			return
		}
		pc.handleError(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, post)
		return
	}
	pc.redirect(w, r, postPath(post.ID))
}

// ConfirmDelete asks before deleting a post
func (pc *PostController) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	post, ok := pc.loadPost(w, r)
	if !ok {
		return
	}
	pc.render(w, r, "post_confirm_delete", http.StatusOK, &views.Page{Title: "Delete post", Post: post})
}

// Delete removes a post and its comments
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pc.sendError(w, r, "Not Found", http.StatusNotFound)
		return
	}

	if err := pc.postService.DeletePost(r.Context(), id); err != nil {
		pc.handleError(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	pc.redirect(w, r, "/")
}

// Publish sets the publish date to now
func (pc *PostController) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pc.sendError(w, r, "Not Found", http.StatusNotFound)
		return
	}

	post, err := pc.postService.PublishPost(r.Context(), id)
	if err != nil {
		pc.handleError(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, post)
		return
	}
	pc.redirect(w, r, postPath(post.ID))
}

func (pc *PostController) loadPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		pc.sendError(w, r, "Not Found", http.StatusNotFound)
		return nil, false
	}

	post, err := pc.postService.GetPost(r.Context(), id)
	if err != nil {
		pc.handleError(w, r, err)
		return nil, false
	}
	return post, true
}

// bind reads a post from a JSON body or a form. The author defaults to the
// signed-in user.
func (pc *PostController) bind(w http.ResponseWriter, r *http.Request) (*models.Post, map[string]string, bool) {
	var form map[string]string
	if middleware.IsAPI(r) || strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var payload postPayload
		if err := decodeJSON(r, &payload); err != nil {
			pc.sendError(w, r, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return nil, nil, false
		}
		form = map[string]string{
			"author": strings.TrimSpace(payload.Author),
			"title":  strings.TrimSpace(payload.Title),
			"text":   strings.TrimSpace(payload.Text),
		}
	} else {
		if err := r.ParseForm(); err != nil {
			pc.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
			return nil, nil, false
		}
		form = formValues(r, "author", "title", "text")
	}

	if form["author"] == "" {
		if user, ok := middleware.CurrentUser(r.Context()); ok {
			form["author"] = user.Username
		}
	}

	return &models.Post{
		Author: form["author"],
		Title:  form["title"],
		Text:   form["text"],
	}, form, true
}
