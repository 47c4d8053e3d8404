package usecase

import "strings"

var accentReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
	"ä", "a", "ë", "e", "ï", "i", "ö", "o", "ü", "u",
	"à", "a", "è", "e", "ì", "i", "ò", "o", "ù", "u",
	"ñ", "n", "ç", "c",
)

// Slugify turns a display name into a URL slug: lowercase, accents stripped,
// runs of anything non-alphanumeric collapsed to single hyphens.
func Slugify(name string) string {
	s := accentReplacer.Replace(strings.ToLower(name))

	var b strings.Builder
	lastHyphen := true
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
