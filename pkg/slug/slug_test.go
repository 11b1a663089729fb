package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii", "Roofing Sheets", "roofing-sheets"},
		{"punctuation", "  Paint & Coatings!! ", "paint-coatings"},
		{"diacritics", "Béton Prêt", "beton-pret"},
		{"cyrillic", "Кирпич облицовочный", "kirpich-oblitsovochnyy"},
		{"digits", "PVC Pipes 110mm", "pvc-pipes-110mm"},
		{"empty", "", ""},
		{"only symbols", "***", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("roofing-sheets"))
	assert.True(t, Valid("a1"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("-lead"))
	assert.False(t, Valid("trail-"))
	assert.False(t, Valid("double--dash"))
	assert.False(t, Valid("Upper"))
	assert.False(t, Valid("with space"))
}
