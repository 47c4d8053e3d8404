package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"accents stripped", "Café Molido Ñandú", "cafe-molido-nandu"},
		{"punctuation collapsed", "Mate  Imperial!! (Premium)", "mate-imperial-premium"},
		{"leading and trailing junk", "  --Yerba 500g--  ", "yerba-500g"},
		{"already a slug", "tabla-de-asado", "tabla-de-asado"},
		{"empty", "", ""},
		{"only symbols", "¡¿!?", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}
