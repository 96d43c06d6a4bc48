// Package views holds the embedded HTML templates and static assets.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"time"

	"blogsite/app/models"
)

//go:embed layout.html posts comments auth pages
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// pages maps a template name to the file rendered inside the layout.
var pages = map[string]string{
	"post_list":           "posts/list.html",
	"post_drafts":         "posts/drafts.html",
	"post_detail":         "posts/detail.html",
	"post_form":           "posts/form.html",
	"post_confirm_delete": "posts/confirm_delete.html",
	"comment_form":        "comments/form.html",
	"login":               "auth/login.html",
	"about":               "pages/about.html",
}

// Page is the data every template receives. Handlers fill the fields they use.
type Page struct {
	User     *models.User
	Title    string
	Posts    []*models.Post
	Post     *models.Post
	Comments []*models.Comment
	Form     map[string]string
	Errors   map[string]string
	Error    string
	Next     string
	Action   string
}

// Templates is a set of parsed pages, each executed through "layout".
type Templates map[string]*template.Template

// Load parses every page together with the layout.
func Load() (Templates, error) {
	templates := make(Templates, len(pages))
	for name, file := range pages {
		t, err := template.New(name).Option("missingkey=zero").Funcs(funcs).ParseFS(templateFS, "layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = t
	}
	return templates, nil
}

// MustLoad is Load for callers that cannot continue without templates.
func MustLoad() Templates {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

// Static returns the stylesheet directory rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

var funcs = template.FuncMap{
	"date":       formatDate,
	"linebreaks": linebreaks,
	"truncate":   truncate,
}

func formatDate(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("January 2, 2006, 15:04")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("January 2, 2006, 15:04")
	default:
		return ""
	}
}

// linebreaks escapes text and turns blank-line separated blocks into
// paragraphs and single newlines into <br>.
func linebreaks(text string) template.HTML {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var b strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		lines := strings.Split(para, "\n")
		for i, line := range lines {
			lines[i] = template.HTMLEscapeString(line)
		}
		b.WriteString("<p>")
		b.WriteString(strings.Join(lines, "<br>"))
		b.WriteString("</p>")
	}
	return template.HTML(b.String())
}

func truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "…"
}
