package page

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const portfolio = `<!doctype html><html><head><title>me</title></head><body>
<section id="projects"><h2>Projects</h2></section>
<section id="leetcode"><p>old stats</p></section>
<footer>bye</footer>
</body></html>`

func TestInject_ReplacesOnlySelected(t *testing.T) {
	out, err := Inject(strings.NewReader(portfolio), "", `<div class="leetcode-stats">new</div>`)
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "new", doc.Find("#leetcode .leetcode-stats").Text())
	assert.Zero(t, doc.Find("#leetcode p").Length())
	assert.Equal(t, "Projects", doc.Find("#projects h2").Text())
	assert.Equal(t, "bye", doc.Find("footer").Text())
}

func TestInject_CustomSelectorMultipleMatches(t *testing.T) {
	src := `<div class="slot">a</div><div class="slot">b</div>`
	out, err := Inject(strings.NewReader(src), ".slot", "<b>x</b>")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "<b>x</b>"))
}

func TestInject_NoMatch(t *testing.T) {
	_, err := Inject(strings.NewReader(portfolio), "#missing", "x")
	assert.Error(t, err)
}

func TestInjectFile_RewritesInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte(portfolio), 0o640))

	require.NoError(t, InjectFile(path, DefaultSelector, `<span id="fresh">1</span>`))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `<span id="fresh">1</span>`)
	assert.NotContains(t, string(b), "old stats")

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), fi.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be cleaned up")
}

func TestInjectFile_MissingFile(t *testing.T) {
	err := InjectFile(filepath.Join(t.TempDir(), "nope.html"), "", "x")
	assert.Error(t, err)
}
