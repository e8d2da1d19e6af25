package primo_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rexlibris/rexlibris/internal/primo"
)

func docWithID(id string) primo.Doc {
	var d primo.Doc
	if id != "" {
		d.PNX.Control.RecordID = []string{id}
	}
	return d
}

func TestRecordID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "alma991234", primo.RecordID(docWithID("alma991234")))
	assert.Empty(t, primo.RecordID(docWithID("")))

	multi := docWithID("first")
	multi.PNX.Control.RecordID = append(multi.PNX.Control.RecordID, "second")
	assert.Equal(t, "first", primo.RecordID(multi))
}

func TestRecordURL(t *testing.T) {
	t.Parallel()

	cfg := testLibrary("https://search.example.edu")

	tests := []struct {
		name        string
		id          string
		wantContext string
	}{
		{name: "local record", id: "alma991234", wantContext: "L"},
		{name: "central index record", id: "cdi_proquest_12", wantContext: "PC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw := primo.RecordURL(docWithID(tt.id), cfg)
			require.NotEmpty(t, raw)

			u, err := url.Parse(raw)
			require.NoError(t, err)

			assert.Equal(t, "/discovery/fulldisplay", u.Path)
			q := u.Query()
			assert.Equal(t, tt.id, q.Get("docid"))
			assert.Equal(t, tt.wantContext, q.Get("context"))
			assert.Equal(t, cfg.VID, q.Get("vid"))
			assert.Equal(t, cfg.Scope, q.Get("search_scope"))
			assert.Equal(t, cfg.Tab, q.Get("tab"))
		})
	}

	assert.Empty(t, primo.RecordURL(docWithID(""), cfg))
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	cfg := testLibrary("https://search.example.edu")

	t.Run("full record", func(t *testing.T) {
		t.Parallel()

		doc := docWithID("alma1")
		doc.PNX.Display.Title = []string{"The Sea Around Us"}
		doc.PNX.Display.Creator = []string{"Carson, Rachel"}
		doc.PNX.Display.Type = []string{"book"}
		doc.PNX.Display.CreationDate = []string{"1951"}
		doc.PNX.Display.Publisher = []string{"Oxford University Press"}
		doc.PNX.Display.Language = []string{"eng"}
		doc.PNX.Display.Subject = []string{"Ocean", "Marine biology"}

		s := primo.Summarize(doc, cfg)
		assert.Equal(t, "alma1", s.ID)
		assert.Equal(t, "The Sea Around Us", s.Title)
		assert.Equal(t, "Carson, Rachel", s.Creator)
		assert.Equal(t, "book", s.Type)
		assert.Equal(t, "1951", s.Date)
		assert.Equal(t, "Oxford University Press", s.Publisher)
		assert.Len(t, s.Subjects, 2)
		assert.Contains(t, s.URL, "docid=alma1")
	})

	t.Run("missing fields get placeholders", func(t *testing.T) {
		t.Parallel()

		s := primo.Summarize(docWithID("alma2"), cfg)
		assert.Equal(t, "Unknown", s.Title)
		assert.Equal(t, "Unknown", s.Creator)
		assert.Equal(t, "?", s.Type)
		assert.Equal(t, "n.d.", s.Date)
		assert.Empty(t, s.Publisher)
	})

	t.Run("contributor fills in for missing creator", func(t *testing.T) {
		t.Parallel()

		doc := docWithID("alma3")
		doc.PNX.Display.Contributor = []string{"Smith, Jane"}

		s := primo.Summarize(doc, cfg)
		assert.Equal(t, "Smith, Jane", s.Creator)
	})
}

func TestSummarizeAll(t *testing.T) {
	t.Parallel()

	cfg := testLibrary("https://search.example.edu")
	docs := []primo.Doc{docWithID("a"), docWithID("b")}

	out := primo.SummarizeAll(docs, cfg)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
}
