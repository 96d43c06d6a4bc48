package views

import (
	"bytes"
	"io/fs"
	"testing"
	"time"

	"blogsite/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesEveryPage(t *testing.T) {
	templates, err := Load()
	require.NoError(t, err)
	assert.Len(t, templates, len(pages))

	for name, tmpl := range templates {
		t.Run(name, func(t *testing.T) {
			published := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
			post := &models.Post{ID: 1, Title: "Hello", Text: "Body", PublishedDate: &published}
			page := &Page{
				User:     &models.User{ID: 1, Username: "admin"},
				Posts:    []*models.Post{post},
				Post:     post,
				Comments: []*models.Comment{{ID: 1, Author: "Ann", Text: "Hi"}},
				Form:     map[string]string{},
				Errors:   map[string]string{},
			}

			var buf bytes.Buffer
			require.NoError(t, tmpl.ExecuteTemplate(&buf, "layout", page))
			assert.Contains(t, buf.String(), "<html")
		})
	}
}

func TestLinebreaks(t *testing.T) {
	got := linebreaks("first line\nsecond <b>line</b>\n\nnext paragraph")
	assert.Equal(t, "<p>first line<br>second &lt;b&gt;line&lt;/b&gt;</p><p>next paragraph</p>", string(got))
	assert.Empty(t, string(linebreaks("  \n\n ")))
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "March 1, 2024, 09:05", formatDate(ts))
	assert.Equal(t, "March 1, 2024, 09:05", formatDate(&ts))
	var missing *time.Time
	assert.Equal(t, "", formatDate(missing))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "héll…", truncate("héllo world", 4))
}

func TestStatic(t *testing.T) {
	data, err := fs.ReadFile(Static(), "blog.css")
	require.NoError(t, err)
	assert.Contains(t, string(data), ".page-header")
}
