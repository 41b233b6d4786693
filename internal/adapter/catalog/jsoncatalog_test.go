package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	data := `[
		{"code": "en", "translations": [
			{"code": "b", "prefix": "menu", "result": "B"},
			{"code": "a", "prefix": "menu", "result": "A"}
		]},
		{"code": "fr"}
	]`

	languages, err := Load(strings.NewReader(data))

	require.NoError(t, err)
	require.Len(t, languages, 2)
	assert.Equal(t, "en", languages[0].Code)
	assert.Equal(t, "b", languages[0].Translations[0].Code)
	assert.Equal(t, "A", languages[0].Translations[1].Result)
	assert.NotNil(t, languages[1].Translations)
	assert.Empty(t, languages[1].Translations)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader(`[{"code": "en", "title": "English"}]`))

	assert.ErrorContains(t, err, "failed to decode catalog")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"code": "de", "translations": []}]`), 0o600))

	languages, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "de", languages[0].Code)

	_, err = LoadFile(filepath.Join(t.TempDir(), "none.json"))
	assert.ErrorContains(t, err, "failed to open catalog file")
}
