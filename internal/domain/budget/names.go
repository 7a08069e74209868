package budget

import (
	"strings"
	"unicode"
)

// itemLabels maps the identifiers written by the order form to the labels
// shown on a budget. Keys are lower-case.
var itemLabels = map[string]string{
	"verres-vin":        "Verres de vin",
	"verres-eau":        "Verres à eau",
	"flutes-champagne":  "Flûtes à champagne",
	"assiettes-plates":  "Assiettes plates",
	"assiettes-dessert": "Assiettes à dessert",
	"couverts-complets": "Couverts complets",
	"nappes-rondes":     "Nappes rondes",
	"tables-rondes":     "Tables rondes",
	"chaises-pliantes":  "Chaises pliantes",
	"serviettes-tissu":  "Serviettes en tissu",
	"chauffe-plats":     "Chauffe-plats",
}

// CanonicalItemName turns a raw material identifier into its display label.
// Unknown identifiers get each hyphen or underscore separated word
// capitalised, separators kept. Applying it twice gives the same result.
func CanonicalItemName(raw string) string {
	name := strings.TrimSpace(raw)
	if label, ok := itemLabels[strings.ToLower(name)]; ok {
		return label
	}

	var sb strings.Builder
	sb.Grow(len(name))
	startOfWord := true
	for _, r := range name {
		switch {
		case r == '-' || r == '_':
			startOfWord = true
		case startOfWord:
			r = unicode.ToUpper(r)
			startOfWord = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
