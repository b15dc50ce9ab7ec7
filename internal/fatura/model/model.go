package model

// RawRow — uma linha da planilha de origem: nome de coluna real -> valor bruto.
type RawRow map[string]string

// FieldKey identifica um campo canônico da fatura. O conjunto é fixo;
// estender exige adicionar uma lista de aliases em resolve.
type FieldKey string

const (
	FieldRef            FieldKey = "ref"              // data de referência (dia 01 do mês)
	FieldInstalacao     FieldKey = "instalacao"       // unidade consumidora (UC)
	FieldNome           FieldKey = "nome"
	FieldDocumento      FieldKey = "documento"
	FieldEndereco       FieldKey = "endereco"
	FieldBairro         FieldKey = "bairro"
	FieldCidade         FieldKey = "cidade"
	FieldNumConta       FieldKey = "num_conta"
	FieldConsumoQtd     FieldKey = "consumo_qtd"      // kWh consumidos
	FieldCompQtd        FieldKey = "comp_qtd"         // kWh compensados (crédito GD)
	FieldTarifaConsumo  FieldKey = "tarifa_consumo"
	FieldTarifaCompDist FieldKey = "tarifa_comp_dist" // tarifa do crédito na distribuidora
	FieldTarifaCompEV   FieldKey = "tarifa_comp_ev"   // tarifa cobrada pelo EGS
	FieldFaturaCGD      FieldKey = "fatura_c_gd"      // fatura real da distribuidora
	FieldBoletoEV       FieldKey = "boleto_ev"        // boleto fechado do EGS
	FieldDesconto       FieldKey = "desconto"
)

// ColumnMap mapeia campo canônico -> nome real da coluna na planilha.
// Campo ausente = não resolvido; o consumidor usa o fallback global.
// Todo acesso a RawRow passa por aqui, nunca por nome literal.
type ColumnMap map[FieldKey]string

func (m ColumnMap) Resolved(k FieldKey) bool {
	_, ok := m[k]
	return ok
}

// ClientRecord — dados cadastrais de uma UC, vindos da base de clientes.
type ClientRecord struct {
	Instalacao string
	Nome       string
	Documento  string
	Endereco   string
	Bairro     string
	Cidade     string
	NumConta   string
}

// Severidades de aviso.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Warning — diagnóstico não fatal acumulado durante o processamento.
type Warning struct {
	Kind     string         `json:"kind"`
	Severity string         `json:"severity"`
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
}

// Status de mapeamento da UC contra a base de clientes.
const (
	StatusMapeado    = "ok"
	StatusNaoMapeado = "unmapped"
)

// Invoice — registro final de fatura por cliente, pronto para serialização.
// Valores monetários com 2 casas, tarifas com 4.
type Invoice struct {
	Nome             string `json:"nome"`
	Documento        string `json:"documento"`
	Instalacao       string `json:"instalacao"`
	Endereco         string `json:"endereco"`
	NumConta         string `json:"num_conta"`
	StatusMapeamento string `json:"status_mapeamento"`

	// Bloco distribuidora
	DistConsumoQtd   float64 `json:"dist_consumo_qtd"`
	DistConsumoTar   float64 `json:"dist_consumo_tar"`
	DistConsumoTotal float64 `json:"dist_consumo_total"`
	DistCompQtd      float64 `json:"dist_comp_qtd"`
	DistCompTar      float64 `json:"dist_comp_tar"`
	DistCompTotal    float64 `json:"dist_comp_total"`
	DistOutros       float64 `json:"dist_outros"`
	DistTotal        float64 `json:"dist_total"`

	// Bloco EGS (boleto)
	DetCreditoQtd   float64 `json:"det_credito_qtd"`
	DetCreditoTar   float64 `json:"det_credito_tar"`
	DetCreditoTotal float64 `json:"det_credito_total"`
	TotalPagar      float64 `json:"totalPagar"`

	// Economia
	EconTotalSem  float64 `json:"econ_total_sem"`
	EconTotalCom  float64 `json:"econ_total_com"`
	EconomiaMes   float64 `json:"economiaMes"`
	EconomiaTotal float64 `json:"economiaTotal"`

	// Ambiental
	CO2Evitado          float64 `json:"co2Evitado"`
	ArvoresEquivalentes float64 `json:"arvoresEquivalentes"`

	VencimentoISO string `json:"vencimento_iso"`
	EmissaoISO    string `json:"emissao_iso"`
}

// Result — saída de um lote processado.
type Result struct {
	Data     []Invoice `json:"data"`
	Warnings []Warning `json:"warnings"`
}

// ErrorResponse — falha estrutural do lote.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
