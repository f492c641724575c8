package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "LABORATORIO", "laboratorio"},
		{"strips accents", "Laboratório", "laboratorio"},
		{"trims whitespace", "  Faturamento  ", "faturamento"},
		{"combined", " LABORATÓRIO ", "laboratorio"},
		{"cedilla", "Internação", "internacao"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"already canonical", "farmacia", "farmacia"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.input))
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("Laboratório", "LABORATORIO "))
	assert.True(t, Equal("Internação", "internacao"))
	assert.False(t, Equal("Laboratório", "Faturamento"))
}

func TestKeyIdempotent(t *testing.T) {
	for _, s := range []string{"Recursos Humanos", "Hemodiálise", "UTI Neonatal"} {
		once := Key(s)
		assert.Equal(t, once, Key(once))
	}
}
