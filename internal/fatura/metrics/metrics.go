// Motor de cálculo da fatura: matemática financeira e ambiental por linha.
// Compute é função pura das entradas; a única dependência de ambiente é o
// relógio usado na data de emissão, injetável para teste.
package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/coerce"
	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/model"
)

type Engine struct {
	Params CalcParams
	Now    func() time.Time // nil = time.Now
}

func NewEngine(p CalcParams) *Engine {
	return &Engine{Params: p}
}

// accessor tipado sobre ColumnMap + RawRow: campo não resolvido ou célula
// ilegível degrada para o default, nunca para erro.
type rowReader struct {
	row  model.RawRow
	cols model.ColumnMap
}

func (rr rowReader) num(k model.FieldKey) float64 {
	col, ok := rr.cols[k]
	if !ok {
		return 0
	}
	return coerce.ToNumber(rr.row[col])
}

// Compute calcula as métricas de uma linha qualificada. Avisos de
// plausibilidade acompanham o resultado; nenhum deles interrompe a linha.
// Invariante de fechamento: DistTotal + TotalPagar + EconomiaMes ==
// EconTotalSem sobre os valores emitidos, quando a economia é
// calculada e não fixada pela política.
func (e *Engine) Compute(row model.RawRow, cols model.ColumnMap, vencimentoISO string) (model.Invoice, []model.Warning) {
	rr := rowReader{row: row, cols: cols}
	var warns []model.Warning
	p := e.Params

	// 1. extração e cadeias de fallback de tarifa
	consumoQtd := rr.num(model.FieldConsumoQtd)
	compQtd := rr.num(model.FieldCompQtd)

	tarifaCons := rr.num(model.FieldTarifaConsumo)
	if tarifaCons <= 0 {
		tarifaCons = p.FallbackTarifaDist
	}

	tarifaComp := rr.num(model.FieldTarifaCompDist)
	if tarifaComp <= 0 {
		tarifaComp = rr.num(model.FieldTarifaCompEV)
	}
	if tarifaComp <= 0 {
		tarifaComp = p.FallbackTarifaCompEV
		warns = append(warns, model.Warning{
			Kind:     "tarifa_comp_fallback",
			Severity: model.SeverityInfo,
			Title:    "Tarifa de compensação estimada",
			Message:  "Planilha sem tarifa de compensação utilizável; aplicado o fallback global.",
			Details: map[string]any{
				"fallback":   p.FallbackTarifaCompEV,
				"fio_b_ano":  e.now().Year(),
				"fio_b_perc": p.FioBPercent(e.now().Year()),
			},
		})
	}

	tarifaEGS := rr.num(model.FieldTarifaCompEV)
	if tarifaEGS <= 0 {
		tarifaEGS = p.FallbackTarifaCompEV
	}

	// 2. distribuidora: com fatura real, o resíduo "outros" fecha a conta;
	// sem ela, o total é calculado direto
	valorConsumo := consumoQtd * tarifaCons
	valorCredito := compQtd * tarifaComp

	faturaDistReal := rr.num(model.FieldFaturaCGD)
	distOutros := 0.0
	if faturaDistReal > 0 {
		distOutros = faturaDistReal - (valorConsumo - valorCredito)
		if distOutros < p.Policy.PisoOutrosNegativo {
			warns = append(warns, model.Warning{
				Kind:     "outros_negativo",
				Severity: model.SeverityWarning,
				Title:    "Resíduo de outros encargos implausível",
				Message:  "Resíduo negativo abaixo do piso; tratado como erro de digitação e zerado.",
				Details:  map[string]any{"residuo": round2(distOutros), "piso": p.Policy.PisoOutrosNegativo},
			})
			distOutros = 0
		}
	} else {
		faturaDistReal = valorConsumo - valorCredito
		if faturaDistReal < 0 {
			faturaDistReal = 0
		}
	}
	distTotal := faturaDistReal

	// 3. EGS: boleto fechado é soberano; senão estimamos pela tarifa com
	// desconto e registramos o aviso informativo
	boleto := rr.num(model.FieldBoletoEV)
	desconto := rr.num(model.FieldDesconto)
	if desconto < 0 || desconto > 1 {
		desconto = 0
	}

	var totalPagar, tarifaEfetiva float64
	if boleto > 0 {
		totalPagar = boleto
		if compQtd > 0 {
			tarifaEfetiva = boleto / compQtd
		}
	} else {
		totalPagar = compQtd * tarifaEGS * (1 - desconto)
		tarifaEfetiva = tarifaEGS
		warns = append(warns, model.Warning{
			Kind:     "boleto_estimado",
			Severity: model.SeverityInfo,
			Title:    "Boleto estimado",
			Message:  "Sem boleto fechado na referência; valor estimado por quantidade x tarifa.",
			Details:  map[string]any{"comp_qtd": compQtd, "tarifa": round4(tarifaEGS), "desconto": desconto},
		})
	}

	// 4. economia — derivada dos valores já arredondados, para que o
	// fechamento valha por construção na saída e não dependa de onde o
	// resíduo de arredondamento de cada parcela caiu
	econSem := round2(valorConsumo + distOutros)
	distTotalR := round2(distTotal)
	totalPagarR := round2(totalPagar)
	econCom := round2(distTotalR + totalPagarR)
	economiaMes := round2(econSem - econCom)
	if p.Policy.ClampEconomiaMensal && economiaMes < 0 {
		economiaMes = 0
	}

	// 5. ambiental — sempre derivado, nunca vindo da planilha
	co2 := consumoQtd * p.CO2PorKWh

	warns = append(warns, e.validate(consumoQtd, compQtd, tarifaCons, tarifaComp)...)

	inv := model.Invoice{
		DistConsumoQtd:   round2(consumoQtd),
		DistConsumoTar:   round4(tarifaCons),
		DistConsumoTotal: round2(valorConsumo),
		DistCompQtd:      round2(compQtd),
		DistCompTar:      round4(tarifaComp),
		DistCompTotal:    round2(-valorCredito),
		DistOutros:       round2(distOutros),
		DistTotal:        distTotalR,

		DetCreditoQtd:   round2(compQtd),
		DetCreditoTar:   round4(tarifaEfetiva),
		DetCreditoTotal: totalPagarR,
		TotalPagar:      totalPagarR,

		EconTotalSem:  econSem,
		EconTotalCom:  econCom,
		EconomiaMes:   economiaMes,
		EconomiaTotal: economiaMes, // sobrescrito pelo acumulado

		CO2Evitado:          round2(co2),
		ArvoresEquivalentes: round1(co2 / 1000.0 * p.ArvoresPorTon),

		VencimentoISO: vencimentoISO,
		EmissaoISO:    e.now().Format("2006-01-02"),
	}
	return inv, warns
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Arredondamento decimal (meio para cima), não binário: valores monetários
// com 2 casas, tarifas com 4, árvores com 1.
func roundN(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

func round1(v float64) float64 { return roundN(v, 1) }
func round2(v float64) float64 { return roundN(v, 2) }
func round4(v float64) float64 { return roundN(v, 4) }
