package domain

// Translation - локализованная строка интерфейса.
// Code уникален в пределах одного языка, Prefix группирует строки по пространствам имен.
type Translation struct {
	Code   string `json:"code"`
	Prefix string `json:"prefix"`
	Result string `json:"result"`
}

// Language - язык вместе с полным упорядоченным набором переводов.
// Набор переводов заменяется только целиком.
type Language struct {
	ID           int64         `json:"id"`
	Code         string        `json:"code"`
	Translations []Translation `json:"translations"`
}

// Lookup возвращает первый перевод с точным совпадением кода.
func (l *Language) Lookup(code string) (Translation, bool) {
	if l == nil {
		return Translation{}, false
	}
	for _, t := range l.Translations {
		if t.Code == code {
			return t, true
		}
	}
	return Translation{}, false
}

// Resolved - результат поиска одного кода в пакетном запросе.
// Found=false означает, что кода нет ни в запрошенном языке, ни в языке по умолчанию.
type Resolved struct {
	Code   string `json:"code"`
	Result string `json:"result,omitempty"`
	Found  bool   `json:"found"`
}
