package ingest

import (
	"strings"
	"unicode"
)

// translit maps Cyrillic letters onto the ascii sequences used in codes.
// Lowercase only; Slugify lowercases before looking up.
var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "e", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "yu", 'я': "ya",
}

// Slugify derives a stable ascii code from a human region or warehouse
// name, so files that carry only names still produce usable keys:
// "Санкт-Петербург" becomes "sankt-peterburg".
func Slugify(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		var chunk string
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			chunk = string(r)
		case unicode.Is(unicode.Cyrillic, r):
			chunk = translit[r]
		default:
			if b.Len() > 0 {
				pendingDash = true
			}
			continue
		}
		if chunk == "" {
			continue
		}
		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteString(chunk)
	}
	return b.String()
}
