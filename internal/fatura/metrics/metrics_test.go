package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/model"
)

var testCols = model.ColumnMap{
	model.FieldConsumoQtd:     "CONSUMO_FP",
	model.FieldCompQtd:        "CRÉD. CONSUMIDO_FP",
	model.FieldTarifaConsumo:  "TARIFA FP",
	model.FieldTarifaCompDist: "TARIFA DE ENERGIA COMPENSADA",
	model.FieldTarifaCompEV:   "TARIFA_Comp_FP",
	model.FieldFaturaCGD:      "FATURA C/GD",
	model.FieldBoletoEV:       "Boleto",
	model.FieldDesconto:       "Desconto",
}

func testEngine() *Engine {
	e := NewEngine(DefaultParams())
	e.Now = func() time.Time { return time.Date(2025, 11, 15, 10, 0, 0, 0, time.UTC) }
	return e
}

func TestComputeFallbackTarifaConsumo(t *testing.T) {
	e := testEngine()
	e.Params.FallbackTarifaDist = 0.92

	inv, _ := e.Compute(model.RawRow{
		"CONSUMO_FP": "500",
		"TARIFA FP":  "0",
	}, testCols, "2025-12-10")

	assert.InDelta(t, 0.92, inv.DistConsumoTar, 1e-9)
	assert.InDelta(t, 460.0, inv.DistConsumoTotal, 1e-9)
}

func TestComputeBoletoEstimadoComDesconto(t *testing.T) {
	e := testEngine()
	inv, warns := e.Compute(model.RawRow{
		"CRÉD. CONSUMIDO_FP": "200",
		"TARIFA_Comp_FP":     "0,75",
		"Desconto":           "0,25",
	}, testCols, "2025-12-10")

	assert.InDelta(t, 112.50, inv.TotalPagar, 1e-9)
	assert.InDelta(t, 0.75, inv.DetCreditoTar, 1e-9)

	var kinds []string
	for _, w := range warns {
		kinds = append(kinds, w.Kind)
	}
	assert.Contains(t, kinds, "boleto_estimado")
}

func TestComputeBoletoFechadoSoberano(t *testing.T) {
	e := testEngine()
	inv, _ := e.Compute(model.RawRow{
		"CRÉD. CONSUMIDO_FP": "200",
		"TARIFA_Comp_FP":     "0,75",
		"Boleto":             "130,00",
	}, testCols, "2025-12-10")

	assert.InDelta(t, 130.0, inv.TotalPagar, 1e-9)
	// tarifa efetiva por engenharia reversa: 130/200
	assert.InDelta(t, 0.65, inv.DetCreditoTar, 1e-9)
}

func TestComputeOutrosFechaAConta(t *testing.T) {
	e := testEngine()
	inv, _ := e.Compute(model.RawRow{
		"CONSUMO_FP":                   "500",
		"TARIFA FP":                    "1,00",
		"CRÉD. CONSUMIDO_FP":           "400",
		"TARIFA DE ENERGIA COMPENSADA": "0,80",
		"FATURA C/GD":                  "210,00",
	}, testCols, "2025-12-10")

	// outros = 210 - (500 - 320) = 30
	assert.InDelta(t, 30.0, inv.DistOutros, 1e-9)
	assert.InDelta(t, 210.0, inv.DistTotal, 1e-9)
}

func TestComputeOutrosNegativoZerado(t *testing.T) {
	e := testEngine()
	inv, warns := e.Compute(model.RawRow{
		"CONSUMO_FP":                   "500",
		"TARIFA FP":                    "1,00",
		"CRÉD. CONSUMIDO_FP":           "0",
		"TARIFA DE ENERGIA COMPENSADA": "0,80",
		"FATURA C/GD":                  "400,00", // resíduo -100, abaixo do piso -10
	}, testCols, "2025-12-10")

	assert.Zero(t, inv.DistOutros)
	var kinds []string
	for _, w := range warns {
		kinds = append(kinds, w.Kind)
	}
	assert.Contains(t, kinds, "outros_negativo")
}

func TestComputeFechamentoContabil(t *testing.T) {
	e := testEngine()
	e.Params.Policy.ClampEconomiaMensal = false

	rows := []model.RawRow{
		{"CONSUMO_FP": "500", "TARIFA FP": "1,00", "CRÉD. CONSUMIDO_FP": "400", "TARIFA DE ENERGIA COMPENSADA": "0,80", "FATURA C/GD": "210,00", "Boleto": "250,00"},
		{"CONSUMO_FP": "320", "TARIFA FP": "0,92", "CRÉD. CONSUMIDO_FP": "280", "TARIFA_Comp_FP": "0,71"},
		{"CONSUMO_FP": "100", "CRÉD. CONSUMIDO_FP": "90", "Boleto": "75,50"},
	}
	for _, row := range rows {
		inv, _ := e.Compute(row, testCols, "2025-12-10")
		fechamento := inv.DistTotal + inv.TotalPagar + inv.EconomiaMes
		assert.InDelta(t, inv.EconTotalSem, fechamento, 0.01, "linha %v", row)
	}
}

func TestComputeAmbiental(t *testing.T) {
	e := testEngine()
	inv, _ := e.Compute(model.RawRow{"CONSUMO_FP": "1000"}, testCols, "2025-12-10")
	assert.InDelta(t, 70.0, inv.CO2Evitado, 1e-9)          // 1000 * 0.07
	assert.InDelta(t, 0.6, inv.ArvoresEquivalentes, 1e-9)  // 70/1000*8 = 0.56 -> 0.6
	assert.Equal(t, "2025-11-15", inv.EmissaoISO)
	assert.Equal(t, "2025-12-10", inv.VencimentoISO)
}

func TestValidateAvisos(t *testing.T) {
	e := testEngine()

	_, warns := e.Compute(model.RawRow{
		"CONSUMO_FP": "-5",
		"TARIFA FP":  "2,10",
	}, testCols, "2025-12-10")

	kinds := map[string]string{}
	for _, w := range warns {
		kinds[w.Kind] = w.Severity
	}
	assert.Equal(t, model.SeverityWarning, kinds["tarifa_fora_da_faixa"])
	assert.Equal(t, model.SeverityError, kinds["quantidade_negativa"])
}

func TestFioBPercent(t *testing.T) {
	p := DefaultParams()
	assert.InDelta(t, 0.45, p.FioBPercent(2025), 1e-9)
	assert.InDelta(t, 0.90, p.FioBPercent(2040), 1e-9) // congela no topo
	assert.InDelta(t, 0.15, p.FioBPercent(2020), 1e-9)
}

func TestAccumulateSavings(t *testing.T) {
	d := func(m time.Month) time.Time { return time.Date(2025, m, 1, 0, 0, 0, 0, time.UTC) }
	entries := []*SavingsEntry{
		// fora de ordem e com grafia de UC variada de propósito
		{Instalacao: "10/908851-4", RefDate: d(time.March), EconomiaMes: 30},
		{Instalacao: "109088514", RefDate: d(time.January), EconomiaMes: 50},
		{Instalacao: "10/908851-4", RefDate: d(time.February), EconomiaMes: -20}, // piso zero
		{Instalacao: "10/908866-7", RefDate: d(time.January), EconomiaMes: 10},
	}
	AccumulateSavings(entries)

	require.InDelta(t, 80.0, entries[0].EconomiaAcumulada, 1e-9) // 50 + 0 + 30
	assert.InDelta(t, 50.0, entries[1].EconomiaAcumulada, 1e-9)
	assert.InDelta(t, 50.0, entries[2].EconomiaAcumulada, 1e-9)
	assert.InDelta(t, 10.0, entries[3].EconomiaAcumulada, 1e-9)
}
