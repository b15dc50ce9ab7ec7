package normtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Instalação", "INSTALACAO"},
		{"  Nome/Razão Social ", "NOME/RAZAOSOCIAL"},
		{"CRÉD. CONSUMIDO_FP", "CRED.CONSUMIDO_FP"},
		{"tarifa fp", "TARIFAFP"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Normalize(c.in), "Normalize(%q)", c.in)
	}
}

func TestNormalizeIdempotente(t *testing.T) {
	for _, s := range []string{"Instalação", "Número da conta", "REF (sempre dia 01 de cada mês)"} {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestCleanKey(t *testing.T) {
	assert.Equal(t, "109088514", CleanKey("10/908851-4"))
	assert.Equal(t, "109088514", CleanKey("10 908851 4"))
	assert.Equal(t, "109088514", CleanKey("109088514"))
	assert.Equal(t, "UC123", CleanKey("uc-123"))
	assert.Equal(t, "", CleanKey("--//--"))
}
