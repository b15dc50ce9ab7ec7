package normtext

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Remove marcas diacríticas via decomposição NFD (ç -> c, ã -> a etc).
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canoniza uma string para comparação: sem acentos, sem espaços
// (inclui NBSP/NNBSP), maiúsculas. Idempotente. A MESMA função é usada para
// nomes de coluna, aliases e chaves de junção — nunca duplicar a regra.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	if out, _, err := transform.String(stripAccents, s); err == nil {
		s = out
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// CleanKey limpa um identificador de instalação para uso como chave de
// junção: só alfanuméricos, maiúsculas. "10/908851-4" == "10 908851 4".
// Colisões entre chaves brutas distintas são aliasing intencional.
func CleanKey(s string) string {
	s = Normalize(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
