package metrics

import (
	"sort"
	"time"

	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/normtext"
)

// SavingsEntry — uma linha já computada, na ordem do arquivo, candidata ao
// acumulado de economia.
type SavingsEntry struct {
	Instalacao  string
	RefDate     time.Time
	EconomiaMes float64

	// preenchido pelo scan
	EconomiaAcumulada float64
}

// AccumulateSavings calcula a economia acumulada por instalação: agrupa
// pela UC limpa, ordena por data de referência ascendente e soma a
// economia mensal (piso zero por período antes de acumular). É o único
// ponto do pipeline em que a independência entre linhas é quebrada; o
// acumulador pertence exclusivamente a este scan.
func AccumulateSavings(entries []*SavingsEntry) {
	groups := make(map[string][]*SavingsEntry)
	for _, e := range entries {
		key := normtext.CleanKey(e.Instalacao)
		groups[key] = append(groups[key], e)
	}

	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].RefDate.Before(group[j].RefDate)
		})
		acc := 0.0
		for _, e := range group {
			mes := e.EconomiaMes
			if mes < 0 {
				mes = 0
			}
			acc = round2(acc + mes)
			e.EconomiaAcumulada = acc
		}
	}
}
