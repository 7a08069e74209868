package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalItemName(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"verres-vin", "Verres de vin"},
		{"VERRES-VIN", "Verres de vin"},
		{"petite-fourchette", "Petite-Fourchette"},
		{"nappe_blanche-xl", "Nappe_Blanche-Xl"},
		{"chaises", "Chaises"},
		{"  chauffe-plats ", "Chauffe-plats"},
		{"Serveurs supplémentaires", "Serveurs supplémentaires"},
		{"écran-géant", "Écran-Géant"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanonicalItemName(tc.raw), tc.raw)
	}
}

func TestCanonicalItemName_IsStable(t *testing.T) {
	for raw := range itemLabels {
		once := CanonicalItemName(raw)
		assert.Equal(t, once, CanonicalItemName(once), raw)
	}
	for _, raw := range []string{"petite-fourchette", "a_b-c", "Tables rondes"} {
		once := CanonicalItemName(raw)
		assert.Equal(t, once, CanonicalItemName(once), raw)
	}
}
