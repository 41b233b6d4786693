package catalog

import (
	"content/internal/domain"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Load читает каталог языков из JSON вида
// [{"code":"en","translations":[{"code":"hello","prefix":"greet","result":"Hello"}]}].
// Порядок переводов внутри языка сохраняется.
func Load(r io.Reader) ([]domain.Language, error) {
	var languages []domain.Language
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&languages); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	for i := range languages {
		if languages[i].Translations == nil {
			languages[i].Translations = []domain.Translation{}
		}
	}
	return languages, nil
}

// LoadFile читает каталог языков из файла path.
func LoadFile(path string) ([]domain.Language, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file %s: %w", path, err)
	}
	defer f.Close()
	languages, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return languages, nil
}
