// Base de clientes: junta dados cadastrais ("quem é esta instalação") na
// tabela de consumo. A chave de junção é a UC limpa, porque a grafia do
// identificador varia entre fontes ("10/908851-4" vs "109088514").
package registry

import (
	"fmt"

	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/coerce"
	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/model"
	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/normtext"
)

// Registry — consulta imutável de UC -> cadastro. Construído uma vez a
// partir da planilha secundária; somente leitura durante o merge.
type Registry struct {
	byKey map[string]model.ClientRecord
}

// Build resolve as colunas da tabela de cadastro e indexa cada registro
// sob a chave bruta E a chave limpa. Duplicata: a última escrita vence.
func Build(rows []model.RawRow, cols model.ColumnMap) *Registry {
	reg := &Registry{byKey: make(map[string]model.ClientRecord, len(rows)*2)}
	instCol, ok := cols[model.FieldInstalacao]
	if !ok {
		return reg
	}
	for _, row := range rows {
		raw := coerce.ToText(row[instCol], "")
		if raw == "" {
			continue
		}
		rec := model.ClientRecord{
			Instalacao: raw,
			Nome:       field(row, cols, model.FieldNome),
			Documento:  field(row, cols, model.FieldDocumento),
			Endereco:   field(row, cols, model.FieldEndereco),
			Bairro:     field(row, cols, model.FieldBairro),
			Cidade:     field(row, cols, model.FieldCidade),
			NumConta:   field(row, cols, model.FieldNumConta),
		}
		reg.byKey[raw] = rec
		if clean := normtext.CleanKey(raw); clean != "" {
			reg.byKey[clean] = rec
		}
	}
	return reg
}

func (r *Registry) Len() int { return len(r.byKey) }

// Lookup tenta a chave bruta primeiro, depois a limpa.
func (r *Registry) Lookup(rawID string) (model.ClientRecord, bool) {
	if rec, ok := r.byKey[rawID]; ok {
		return rec, true
	}
	rec, ok := r.byKey[normtext.CleanKey(rawID)]
	return rec, ok
}

// Enrich completa os campos cadastrais de um registro primário com a base.
// Campo a campo: o valor do primário só perde quando está vazio — enriquecer
// um registro já completo é no-op. Sem match, devolve o primário com nome
// sintetizado (quando faltar) e status "unmapped".
func Enrich(primary model.ClientRecord, reg *Registry) (model.ClientRecord, string) {
	found, ok := reg.Lookup(primary.Instalacao)
	if !ok {
		if primary.Nome == "" {
			primary.Nome = PlaceholderNome(primary.Instalacao)
		}
		return primary, model.StatusNaoMapeado
	}
	fill(&primary.Nome, found.Nome)
	fill(&primary.Documento, found.Documento)
	fill(&primary.Endereco, found.Endereco)
	fill(&primary.Bairro, found.Bairro)
	fill(&primary.Cidade, found.Cidade)
	fill(&primary.NumConta, found.NumConta)
	if primary.Nome == "" {
		primary.Nome = PlaceholderNome(primary.Instalacao)
	}
	return primary, model.StatusMapeado
}

// PlaceholderNome — nome sintético para UC sem cadastro; a emissão segue,
// mas o aviso correspondente aponta a instalação.
func PlaceholderNome(instalacao string) string {
	return fmt.Sprintf("CLIENTE UC %s", instalacao)
}

func field(row model.RawRow, cols model.ColumnMap, k model.FieldKey) string {
	col, ok := cols[k]
	if !ok {
		return ""
	}
	return coerce.ToText(row[col], "")
}

func fill(dst *string, src string) {
	if *dst == "" && src != "" {
		*dst = src
	}
}
