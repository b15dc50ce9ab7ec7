package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/metrics"
	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/model"
	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fileio"
)

func testProcessor() *Processor {
	p := NewProcessor(metrics.DefaultParams(), zerolog.Nop())
	p.Engine.Now = func() time.Time { return time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC) }
	return p
}

func consumoFixture() *fileio.Workbook {
	header := []string{
		"REF (sempre dia 01 de cada mês)", "Instalação", "Nome Cliente", "Documento",
		"CONSUMO_FP", "CRÉD. CONSUMIDO_FP", "TARIFA FP", "TARIFA_Comp_FP",
		"Boleto Hube definido para a ref. Mensal",
	}
	return &fileio.Workbook{Sheets: []fileio.Sheet{
		{Name: "Detalhe Por UC", Rows: [][]string{
			{"Relatório mensal"},
			header,
			// histórico de outubro (entra só no acumulado)
			{"2025-10-01", "10/908851-4", "EMPRESA X LTDA", "11.111.111/0001-11", "500", "400", "1,00", "0,75", "290,00"},
			// novembro: mês de referência
			{"2025-11-01", "10/908851-4", "EMPRESA X LTDA", "11.111.111/0001-11", "500", "400", "1,00", "0,75", "300,00"},
			{"2025-11-01", "10/2344751-9", "", "", "250", "200", "0,90", "0,70", ""},
			// abaixo do valor mínimo: não vira fatura
			{"2025-11-01", "10/111111-1", "MICRO GERACAO ME", "", "4", "3", "1,00", "0,70", "2,00"},
			// linha de rodapé sem UC: descarte silencioso
			{"", "", "TOTAL GERAL", "", "1254", "1003", "", "", ""},
		}},
	}}
}

func clientesFixture() *fileio.Workbook {
	return &fileio.Workbook{Sheets: []fileio.Sheet{
		{Name: "Infos Clientes", Rows: [][]string{
			{"Instalação", "Nome/Razão Social", "CPF/CNPJ", "Endereço", "Bairro", "Cidade", "Número da conta"},
			{"10/908851-4", "EMPRESA X LTDA", "11.111.111/0001-11", "Rua A, 10", "Centro", "Curitiba", "555-1"},
		}},
	}}
}

func TestProcessLoteCompleto(t *testing.T) {
	p := testProcessor()
	res, err := p.Process(consumoFixture(), clientesFixture(), "2025-11", "2025-12-10")
	require.NoError(t, err)

	// duas faturas de novembro: a de valor ínfimo é filtrada
	require.Len(t, res.Data, 2)

	// ordem determinística por instalação ascendente
	assert.Equal(t, "10/2344751-9", res.Data[0].Instalacao)
	assert.Equal(t, "10/908851-4", res.Data[1].Instalacao)

	// UC sem cadastro: nome provisório, status e aviso nominal
	naoMapeada := res.Data[0]
	assert.Equal(t, model.StatusNaoMapeado, naoMapeada.StatusMapeamento)
	assert.Equal(t, "CLIENTE UC 10/2344751-9", naoMapeada.Nome)
	found := false
	for _, w := range res.Warnings {
		if w.Kind == "uc_sem_cadastro" && w.Details["instalacao"] == "10/2344751-9" {
			found = true
		}
	}
	assert.True(t, found, "aviso nominal da UC sem cadastro")

	// cadastro completa endereço e conta da UC mapeada
	mapeada := res.Data[1]
	assert.Equal(t, model.StatusMapeado, mapeada.StatusMapeamento)
	assert.Equal(t, "Rua A, 10, Centro - Curitiba", mapeada.Endereco)
	assert.Equal(t, "555-1", mapeada.NumConta)

	// boleto fechado soberano
	assert.InDelta(t, 300.0, mapeada.TotalPagar, 1e-9)
	assert.Equal(t, "2025-12-10", mapeada.VencimentoISO)
}

func TestProcessEconomiaAcumulada(t *testing.T) {
	p := testProcessor()
	res, err := p.Process(consumoFixture(), clientesFixture(), "2025-11", "2025-12-10")
	require.NoError(t, err)

	var out, hist model.Invoice
	for _, inv := range res.Data {
		if inv.Instalacao == "10/908851-4" {
			hist = inv
		}
		if inv.Instalacao == "10/2344751-9" {
			out = inv
		}
	}
	// outubro: econSem 500, econCom 200+290 -> econ 10; novembro: 500 - (200+300) -> 0
	assert.InDelta(t, 0.0, hist.EconomiaMes, 1e-9)
	assert.InDelta(t, 10.0, hist.EconomiaTotal, 1e-9)
	// UC com um único mês: acumulado == mensal
	assert.InDelta(t, out.EconomiaMes, out.EconomiaTotal, 1e-9)
}

func TestProcessAbaixoDoMinimoAindaAcumula(t *testing.T) {
	wb := consumoFixture()
	sheet := &wb.Sheets[0]
	// mesma UC, mesma referência: a primeira linha fica abaixo do valor
	// mínimo e não vira fatura, mas a economia dela entra no acumulado
	sheet.Rows = append(sheet.Rows,
		[]string{"2025-11-01", "20/000001-0", "COND. SOLAR", "", "80", "75", "1,00", "0,70", "2,00"},
		[]string{"2025-11-01", "20/000001-0", "COND. SOLAR", "", "100", "80", "1,00", "0,75", "60,00"},
	)

	p := testProcessor()
	res, err := p.Process(wb, nil, "2025-11", "2025-12-10")
	require.NoError(t, err)

	var inv model.Invoice
	for _, d := range res.Data {
		if d.Instalacao == "20/000001-0" {
			inv = d
		}
	}
	require.Equal(t, "20/000001-0", inv.Instalacao)
	// linha filtrada: consumo 80,00, crédito 52,50, dist 27,50; com o
	// boleto de 2,00 a economia do período é 50,50 e só aparece no acumulado
	assert.InDelta(t, 0.0, inv.EconomiaMes, 1e-9)
	assert.InDelta(t, 50.50, inv.EconomiaTotal, 1e-9)
}

func TestProcessSemBaseDeClientes(t *testing.T) {
	p := testProcessor()
	res, err := p.Process(consumoFixture(), nil, "2025-11", "2025-12-10")
	require.NoError(t, err)
	require.Len(t, res.Data, 2)
	// sem base carregada, ausência de cadastro não gera aviso nominal
	for _, w := range res.Warnings {
		assert.NotEqual(t, "uc_sem_cadastro", w.Kind)
	}
}

func TestProcessMesSemDados(t *testing.T) {
	p := testProcessor()
	_, err := p.Process(consumoFixture(), nil, "2024-01", "2024-02-10")
	var be *BatchError
	require.ErrorAs(t, err, &be)
	assert.Contains(t, be.Reason, "nenhum dado válido")
}

func TestProcessEstruturaNaoEncontrada(t *testing.T) {
	p := testProcessor()
	wb := &fileio.Workbook{Sheets: []fileio.Sheet{{Name: "Aba", Rows: [][]string{{"nada"}}}}}
	_, err := p.Process(wb, nil, "2025-11", "2025-12-10")
	var be *BatchError
	require.ErrorAs(t, err, &be)
	assert.Contains(t, be.Reason, "consumo")
}

func TestProcessDatasInvalidas(t *testing.T) {
	p := testProcessor()
	_, err := p.Process(consumoFixture(), nil, "novembro", "2025-12-10")
	assert.Error(t, err)
	_, err = p.Process(consumoFixture(), nil, "2025-11", "10/12/2025")
	assert.Error(t, err)
}

func TestProcessInstalacaoDuplicada(t *testing.T) {
	wb := consumoFixture()
	sheet := &wb.Sheets[0]
	// mesma UC com grafia diferente na mesma referência
	sheet.Rows = append(sheet.Rows, []string{"2025-11-01", "109088514", "EMPRESA X LTDA", "", "100", "80", "1,00", "0,75", "60,00"})

	p := testProcessor()
	res, err := p.Process(wb, clientesFixture(), "2025-11", "2025-12-10")
	require.NoError(t, err)

	found := false
	for _, w := range res.Warnings {
		if w.Kind == "instalacao_duplicada" {
			found = true
		}
	}
	assert.True(t, found)
	// a linha duplicada continua sendo emitida
	assert.Len(t, res.Data, 3)
}
