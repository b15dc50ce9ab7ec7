// Conversão tolerante de células de planilha para tipos canônicos.
// Nenhuma função aqui retorna erro: valor ilegível vira zero/default/nil.
package coerce

import (
	"strconv"
	"strings"
	"time"
)

var cellSpaces = strings.NewReplacer("\u00a0", "", "\u202f", "", "\u2009", "", " ", "", "\t", "")

// ToNumber converte valores monetários/numéricos em locale ambíguo para
// float64. Regras: negativo entre parênteses, R$/%/letras descartados,
// travessão vira zero; com vírgula E ponto presentes, o separador que
// aparece por último é o decimal ("1.234,56" e "1,234.56" -> 1234.56);
// só vírgula é tratada como decimal. Ilegível ou vazio -> 0.
func ToNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = cellSpaces.Replace(s)
	s = strings.NewReplacer("—", "0", "–", "0", "R$", "", "r$", "", "%", "", "+", "").Replace(s)
	// descarta letras remanescentes (unidades, "kWh" etc)
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.', r == '-':
			return r
		}
		return -1
	}, s)
	if strings.HasPrefix(s, "-") {
		neg = !neg
		s = strings.TrimPrefix(s, "-")
	}
	s = strings.ReplaceAll(s, "-", "")
	if s == "" || s == "," || s == "." {
		return 0
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		// o separador mais à direita é o decimal; o outro é milhar
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if neg {
		v = -v
	}
	return v
}

// ToText normaliza texto de célula: aparas, e os marcadores de vazio do
// pandas/planilhas ("nan", "none", "null") colapsam para o default.
func ToText(raw, def string) string {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "nan", "none", "null", "<na>":
		return def
	}
	return s
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2006/01/02", "02-01-2006"}

// Epoch do Excel (sistema 1900, com o bug do ano bissexto embutido).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ToDate tenta uma lista fixa de formatos e, por último, número serial de
// planilha. Falha nunca propaga: retorna (zero, false).
func ToDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if len(s) > 10 {
		s = s[:10]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// serial do Excel ("45292" ~ 2024-01-01)
	if serial, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64); err == nil && serial > 20000 && serial < 80000 {
		return excelEpoch.AddDate(0, 0, int(serial)), true
	}
	return time.Time{}, false
}
