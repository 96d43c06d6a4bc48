package controllers

import (
	"log/slog"
	"net/http"

	"blogsite/app/views"
)

// PageController serves static content pages.
type PageController struct {
	base
}

func NewPageController(templates views.Templates, logger *slog.Logger) *PageController {
	return &PageController{base: newBase(templates, logger)}
}

// About renders the about page
func (pc *PageController) About(w http.ResponseWriter, r *http.Request) {
	pc.render(w, r, "about", http.StatusOK, &views.Page{Title: "About"})
}

// NotFound answers unknown paths in the format the client expects
func (pc *PageController) NotFound(w http.ResponseWriter, r *http.Request) {
	pc.sendError(w, r, "Not Found", http.StatusNotFound)
}
