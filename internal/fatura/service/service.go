// Pipeline do lote: localizar estrutura -> resolver colunas -> filtrar ->
// enriquecer cadastro -> calcular métricas -> acumular economia -> montar
// resultado. Falha de uma linha nunca derruba o lote; falha estrutural
// (aba/cabeçalho/UC não encontrados) aborta antes de qualquer linha.
package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/coerce"
	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/metrics"
	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/model"
	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/normtext"
	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/registry"
	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/resolve"
	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fileio"
)

// BatchError — falha estrutural do lote, devolvida ao chamador como
// {error, details}.
type BatchError struct {
	Reason  string
	Details string
}

func (e *BatchError) Error() string {
	if e.Details == "" {
		return e.Reason
	}
	return e.Reason + ": " + e.Details
}

type Processor struct {
	Engine *metrics.Engine
	Log    zerolog.Logger

	// Override opcional da base de clientes (aba e linha de cabeçalho
	// 1-based vindos da configuração); zero = localizar automaticamente.
	RegistryOverride *RegistryOverride
}

type RegistryOverride struct {
	Aba            string
	LinhaCabecalho int
}

func NewProcessor(params metrics.CalcParams, log zerolog.Logger) *Processor {
	return &Processor{Engine: metrics.NewEngine(params), Log: log}
}

type computedRow struct {
	inv      model.Invoice
	refDate  time.Time
	hasDate  bool
	savings  *metrics.SavingsEntry
	noMes    bool // fora do mês de referência; só participa do acumulado
	semValor bool // abaixo do valor mínimo; idem, não vira fatura
}

// Process executa um lote: relatório de consumo obrigatório, base de
// clientes opcional. mesRef aceita YYYY-MM ou YYYY-MM-DD; vencimento é
// YYYY-MM-DD.
func (p *Processor) Process(wb *fileio.Workbook, clientes *fileio.Workbook, mesRef, vencimento string) (*model.Result, error) {
	refMonth, err := parseMesReferencia(mesRef)
	if err != nil {
		return nil, &BatchError{Reason: "mês de referência inválido", Details: err.Error()}
	}
	vencISO, err := parseVencimento(vencimento)
	if err != nil {
		return nil, &BatchError{Reason: "data de vencimento inválida", Details: err.Error()}
	}

	// estrutura do relatório
	si, headerRow, err := resolve.LocateHeader(wb, resolve.ConsumoKeywords, resolve.ConsumoSheetPreferida)
	if err != nil {
		return nil, &BatchError{Reason: "aba com dados de consumo não encontrada"}
	}
	sheet := &wb.Sheets[si]
	cols := resolve.Resolve(sheet.Header(headerRow), resolve.ConsumoAliases)
	if !cols.Resolved(model.FieldRef) {
		return nil, &BatchError{Reason: "coluna de referência (REF) não encontrada", Details: "aba " + sheet.Name}
	}
	if !cols.Resolved(model.FieldInstalacao) {
		return nil, &BatchError{Reason: "coluna de instalação (UC) não encontrada", Details: "aba " + sheet.Name}
	}
	p.Log.Debug().Str("aba", sheet.Name).Int("linha_cabecalho", headerRow+1).
		Int("colunas_resolvidas", len(cols)).Msg("estrutura do relatório localizada")

	reg := p.buildRegistry(clientes)

	rows := sheet.Maps(headerRow)
	result := &model.Result{Data: []model.Invoice{}, Warnings: []model.Warning{}}

	var computed []*computedRow
	for i, raw := range rows {
		cr, warns := p.processRow(raw, cols, reg, refMonth, vencISO, i)
		result.Warnings = append(result.Warnings, warns...)
		if cr != nil {
			computed = append(computed, cr)
		}
	}

	// o acumulado atravessa todos os meses presentes no arquivo, não só o
	// mês de referência
	entries := make([]*metrics.SavingsEntry, 0, len(computed))
	for _, cr := range computed {
		if cr.hasDate {
			entries = append(entries, cr.savings)
		}
	}
	metrics.AccumulateSavings(entries)

	// só o mês de referência vira fatura; ordem determinística por UC e data
	seen := make(map[string]bool)
	for _, cr := range computed {
		if cr.noMes || cr.semValor {
			continue
		}
		cr.inv.EconomiaTotal = cr.inv.EconomiaMes
		if cr.hasDate {
			cr.inv.EconomiaTotal = cr.savings.EconomiaAcumulada
		}

		key := normtext.CleanKey(cr.inv.Instalacao)
		if seen[key] {
			result.Warnings = append(result.Warnings, model.Warning{
				Kind:     "instalacao_duplicada",
				Severity: model.SeverityWarning,
				Title:    "Instalação duplicada no período",
				Message:  fmt.Sprintf("A UC %s aparece mais de uma vez na referência %s.", cr.inv.Instalacao, refMonth.Format("2006-01")),
				Details:  map[string]any{"instalacao": cr.inv.Instalacao},
			})
		}
		seen[key] = true
		result.Data = append(result.Data, cr.inv)
	}

	sort.SliceStable(result.Data, func(i, j int) bool {
		return result.Data[i].Instalacao < result.Data[j].Instalacao
	})

	if len(result.Data) == 0 {
		return nil, &BatchError{Reason: fmt.Sprintf("nenhum dado válido para o mês %s", refMonth.Format("2006-01"))}
	}
	return result, nil
}

// processRow computa uma linha. Pânico ou dado inutilizável vira aviso de
// erro com os valores brutos anexados para auditoria, e a linha é pulada.
func (p *Processor) processRow(raw model.RawRow, cols model.ColumnMap, reg *registry.Registry, refMonth time.Time, vencISO string, idx int) (cr *computedRow, warns []model.Warning) {
	defer func() {
		if rec := recover(); rec != nil {
			cr = nil
			warns = append(warns, model.Warning{
				Kind:     "linha_descartada",
				Severity: model.SeverityError,
				Title:    "Falha ao processar linha",
				Message:  fmt.Sprintf("Linha %d descartada: %v", idx+1, rec),
				Details:  map[string]any{"linha": idx + 1, "valores": raw},
			})
		}
	}()

	instalacao := coerce.ToText(raw[cols[model.FieldInstalacao]], "")
	if instalacao == "" {
		// rodapés e linhas de totalização não têm UC; descarte silencioso
		return nil, nil
	}

	refDate, hasDate := coerce.ToDate(raw[cols[model.FieldRef]])
	inMonth := hasDate && refDate.Year() == refMonth.Year() && refDate.Month() == refMonth.Month()

	inv, rowWarns := p.Engine.Compute(raw, cols, vencISO)

	// identidade: campos do relatório prevalecem; a base completa o resto
	primary := model.ClientRecord{
		Instalacao: instalacao,
		Nome:       coerce.ToText(raw[cols[model.FieldNome]], ""),
		Documento:  coerce.ToText(raw[cols[model.FieldDocumento]], ""),
		Endereco:   coerce.ToText(raw[cols[model.FieldEndereco]], ""),
		Bairro:     coerce.ToText(raw[cols[model.FieldBairro]], ""),
		Cidade:     coerce.ToText(raw[cols[model.FieldCidade]], ""),
		NumConta:   coerce.ToText(raw[cols[model.FieldNumConta]], ""),
	}
	enriched, status := registry.Enrich(primary, reg)

	inv.Instalacao = enriched.Instalacao
	inv.Nome = enriched.Nome
	inv.Documento = enriched.Documento
	inv.Endereco = enderecoCompleto(enriched)
	inv.NumConta = enriched.NumConta
	inv.StatusMapeamento = status

	semValor := false
	if inMonth {
		if status == model.StatusNaoMapeado && reg.Len() > 0 {
			warns = append(warns, model.Warning{
				Kind:     "uc_sem_cadastro",
				Severity: model.SeverityWarning,
				Title:    "Instalação sem cadastro",
				Message:  fmt.Sprintf("A UC %s não consta na base de clientes; usado nome provisório.", instalacao),
				Details:  map[string]any{"instalacao": instalacao},
			})
		}
		// filtro de valor mínimo: regra de negócio, não de qualidade; a
		// linha não vira fatura, mas a economia dela segue para o acumulado
		if inv.TotalPagar < p.Engine.Params.Policy.ValorMinimoFatura {
			p.Log.Debug().Str("instalacao", instalacao).Float64("total_pagar", inv.TotalPagar).
				Msg("linha abaixo do valor mínimo de fatura")
			semValor = true
		} else {
			warns = append(warns, rowWarns...)
		}
	}

	return &computedRow{
		inv:      inv,
		refDate:  refDate,
		hasDate:  hasDate,
		noMes:    !inMonth,
		semValor: semValor,
		savings: &metrics.SavingsEntry{
			Instalacao:  instalacao,
			RefDate:     refDate,
			EconomiaMes: inv.EconomiaMes,
		},
	}, warns
}

func (p *Processor) buildRegistry(clientes *fileio.Workbook) *registry.Registry {
	empty := registry.Build(nil, nil)
	if clientes == nil {
		return empty
	}
	si, headerRow, err := p.locateClientes(clientes)
	if err != nil {
		p.Log.Warn().Msg("base de clientes sem cabeçalho reconhecível; merge desativado")
		return empty
	}
	sheet := &clientes.Sheets[si]
	cols := resolve.Resolve(sheet.Header(headerRow), resolve.ClientesAliases)
	if !cols.Resolved(model.FieldInstalacao) {
		p.Log.Warn().Str("aba", sheet.Name).Msg("base de clientes sem coluna de UC; merge desativado")
		return empty
	}
	rows := make([]model.RawRow, 0)
	for _, m := range sheet.Maps(headerRow) {
		rows = append(rows, model.RawRow(m))
	}
	reg := registry.Build(rows, cols)
	p.Log.Info().Int("registros", reg.Len()).Msg("base de clientes carregada")
	return reg
}

func (p *Processor) locateClientes(clientes *fileio.Workbook) (int, int, error) {
	if o := p.RegistryOverride; o != nil && o.Aba != "" {
		for i, s := range clientes.Sheets {
			if strings.Contains(strings.ToLower(s.Name), strings.ToLower(o.Aba)) {
				header := o.LinhaCabecalho - 1
				if header < 0 {
					header = 0
				}
				return i, header, nil
			}
		}
		p.Log.Warn().Str("aba", o.Aba).Msg("aba configurada da base de clientes não existe; localizando automaticamente")
	}
	return resolve.LocateHeader(clientes, resolve.ClientesKeywords, resolve.ClientesSheetPreferida)
}

func enderecoCompleto(c model.ClientRecord) string {
	out := c.Endereco
	if c.Bairro != "" {
		if out != "" {
			out += ", "
		}
		out += c.Bairro
	}
	if c.Cidade != "" {
		if out != "" {
			out += " - "
		}
		out += c.Cidade
	}
	return out
}

func parseMesReferencia(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("esperado YYYY-MM ou YYYY-MM-DD, recebido %q", s)
}

func parseVencimento(s string) (string, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", fmt.Errorf("esperado YYYY-MM-DD, recebido %q", s)
	}
	return t.Format("2006-01-02"), nil
}
