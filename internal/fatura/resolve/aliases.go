package resolve

import "github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/model"

// Listas de aliases por campo canônico, em ordem de preferência. A política
// de matching é dado, não código: acrescentar uma variação de planilha é
// acrescentar uma entrada aqui.
var ConsumoAliases = map[model.FieldKey][]string{
	model.FieldRef:            {"REF (sempre dia 01 de cada mês)", "REF"},
	model.FieldInstalacao:     {"Instalação", "Nº Instalação", "instalacap", "instalção", "UC"},
	model.FieldNome:           {"Nome Cliente", "Nome/Razão Social"},
	model.FieldDocumento:      {"Documento", "CPF/CNPJ"},
	model.FieldEndereco:       {"Endereço"},
	model.FieldBairro:         {"Bairro"},
	model.FieldCidade:         {"Cidade"},
	model.FieldNumConta:       {"Número da conta"},
	model.FieldConsumoQtd:     {"CONSUMO_FP", "Consumo kWh"},
	model.FieldCompQtd:        {"CRÉD. CONSUMIDO_FP", "Energia Compensada"},
	model.FieldTarifaConsumo:  {"TARIFA FP", "Tarifa Consumo"},
	model.FieldTarifaCompDist: {"TARIFA DE ENERGIA COMPENSADA"},
	model.FieldTarifaCompEV:   {"TARIFA_Comp_FP"},
	model.FieldFaturaCGD:      {"FATURA C/GD COM RESTITUIÇÃO", "FATURA C/GD COM RESTITUICAO", "FATURA C/GD"},
	model.FieldBoletoEV:       {"Boleto Hube definido para a ref. Mensal", "Boleto"},
	model.FieldDesconto:       {"Desconto", "% Desconto"},
}

// Aliases da planilha de cadastro ("Infos Clientes").
var ClientesAliases = map[model.FieldKey][]string{
	model.FieldInstalacao: {"Instalação", "Nº Instalação", "instalacap", "instalção", "UC"},
	model.FieldNome:       {"Nome/Razão Social", "Nome Cliente"},
	model.FieldDocumento:  {"CPF/CNPJ", "Documento"},
	model.FieldEndereco:   {"Endereço"},
	model.FieldBairro:     {"Bairro"},
	model.FieldCidade:     {"Cidade"},
	model.FieldNumConta:   {"Número da conta"},
}

// Palavras-chave que identificam a linha de cabeçalho da aba de consumo.
var ConsumoKeywords = []string{"REF"}

// Aba preferida no relatório da distribuidora.
const ConsumoSheetPreferida = "Detalhe Por UC"

// Palavras-chave e aba preferida do cadastro de clientes.
var ClientesKeywords = []string{"INSTALA"}

const ClientesSheetPreferida = "Infos Clientes"
