package metrics

import "github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/model"

// Faixa plausível de tarifa de consumo (R$/kWh).
const (
	tarifaMinPlausivel = 0.50
	tarifaMaxPlausivel = 1.50
)

// Quanto a tarifa de compensação pode exceder a de consumo antes de aviso.
const compSobreConsumoMax = 1.40

// validate — checagens de plausibilidade por linha. Nenhuma aborta a
// linha; quantidade negativa sai com severidade de erro mesmo assim.
func (e *Engine) validate(consumoQtd, compQtd, tarifaCons, tarifaComp float64) []model.Warning {
	var out []model.Warning

	if tarifaCons < tarifaMinPlausivel || tarifaCons > tarifaMaxPlausivel {
		out = append(out, model.Warning{
			Kind:     "tarifa_fora_da_faixa",
			Severity: model.SeverityWarning,
			Title:    "Tarifa de consumo fora da faixa plausível",
			Message:  "Tarifa fora do intervalo esperado de 0,50 a 1,50 R$/kWh.",
			Details:  map[string]any{"tarifa": round4(tarifaCons), "min": tarifaMinPlausivel, "max": tarifaMaxPlausivel},
		})
	}

	if tarifaCons > 0 && tarifaComp > tarifaCons*compSobreConsumoMax {
		out = append(out, model.Warning{
			Kind:     "tarifa_comp_excessiva",
			Severity: model.SeverityWarning,
			Title:    "Tarifa de compensação excessiva",
			Message:  "Tarifa de compensação excede a de consumo em mais de 40%.",
			Details:  map[string]any{"tarifa_comp": round4(tarifaComp), "tarifa_consumo": round4(tarifaCons)},
		})
	}

	if consumoQtd < 0 || compQtd < 0 {
		out = append(out, model.Warning{
			Kind:     "quantidade_negativa",
			Severity: model.SeverityError,
			Title:    "Quantidade negativa",
			Message:  "Consumo ou compensação negativos na planilha de origem.",
			Details:  map[string]any{"consumo_qtd": consumoQtd, "comp_qtd": compQtd},
		})
	}
	return out
}
