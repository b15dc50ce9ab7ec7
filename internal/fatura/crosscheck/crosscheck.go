// Contrato do conferidor de PDFs de fatura (página da fatura vs boleto).
// A implementação vive fora deste serviço; aqui só o contrato consumido.
package crosscheck

import "context"

// Divergence — resultado da conferência de um PDF unificado.
type Divergence struct {
	Arquivo      string  `json:"arquivo"`
	ValorFatura  float64 `json:"valor_fatura"`  // "Total a Pagar" da página 1
	ValorBoleto  float64 `json:"valor_boleto"`  // "Valor do Documento" da página 2
	Divergente   bool    `json:"divergente"`
	Diferenca    float64 `json:"diferenca"`
	ErroExtracao string  `json:"erro_extracao,omitempty"`
}

// Checker compara o total a pagar esperado com os valores extraídos do PDF.
type Checker interface {
	Check(ctx context.Context, pdf []byte, esperado float64) (Divergence, error)
}
