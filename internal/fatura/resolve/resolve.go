// Resolução de colunas semânticas sob variação de nome. Três camadas, em
// ordem estrita de precedência: igualdade normalizada, substring e, só
// para a instalação, heurística por token genérico. Determinístico para a
// mesma tabela e a mesma ordem de aliases; empate decide pela posição da
// coluna.
package resolve

import (
	"strings"

	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/model"
	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/normtext"
)

// Tokens genéricos aceitos como último recurso para a coluna de UC.
var instalacaoTokens = []string{"INSTAL", "UC", "COD"}

type normColumn struct {
	norm string
	orig string
}

// Resolve devolve o ColumnMap para a tabela dada. Campo sem candidato não
// entra no mapa; o consumidor trata ausência como "usar fallback global".
func Resolve(columns []string, aliases map[model.FieldKey][]string) model.ColumnMap {
	normCols := make([]normColumn, 0, len(columns))
	for _, c := range columns {
		normCols = append(normCols, normColumn{norm: normtext.Normalize(c), orig: c})
	}

	out := make(model.ColumnMap, len(aliases))
	for field, alts := range aliases {
		if col, ok := resolveField(normCols, alts); ok {
			out[field] = col
			continue
		}
		if field == model.FieldInstalacao {
			if col, ok := resolveByToken(normCols, instalacaoTokens); ok {
				out[field] = col
			}
		}
	}
	return out
}

func resolveField(cols []normColumn, alts []string) (string, bool) {
	normAlts := make([]string, len(alts))
	for i, a := range alts {
		normAlts[i] = normtext.Normalize(a)
	}

	// 1) igualdade exata sempre vence, mesmo que um alias posterior
	// casasse por substring com uma coluna anterior
	for _, a := range normAlts {
		for _, c := range cols {
			if c.norm == a {
				return c.orig, true
			}
		}
	}

	// 2) alias contido no nome da coluna; primeira coluna na ordem vence
	for _, c := range cols {
		for _, a := range normAlts {
			if a != "" && strings.Contains(c.norm, a) {
				return c.orig, true
			}
		}
	}
	return "", false
}

func resolveByToken(cols []normColumn, tokens []string) (string, bool) {
	for _, c := range cols {
		for _, t := range tokens {
			if strings.Contains(c.norm, t) {
				return c.orig, true
			}
		}
	}
	return "", false
}
