package content

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titler = cases.Title(language.English)

// DisplayName renders a species identifier as a companion name.
func DisplayName(species string) string {
	return titler.String(strings.ReplaceAll(species, "_", " "))
}
