package resolve

import (
	"errors"
	"strings"

	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/normtext"
	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fileio"
)

// ErrHeaderNotFound — nenhuma aba tem linha de cabeçalho com todas as
// palavras-chave. Falha estrutural: o chamador aborta o lote.
var ErrHeaderNotFound = errors.New("aba com a linha de cabeçalho esperada não encontrada")

// Limite de varredura: cabeçalho de relatório nunca passa disso.
const maxHeaderScanRows = 50

// LocateHeader procura a aba e a linha (0-based) cujo conteúdo normalizado
// contém todas as palavras-chave. A aba preferida (match por substring,
// sem caixa) é examinada primeiro; as demais seguem a ordem do arquivo.
func LocateHeader(wb *fileio.Workbook, keywords []string, preferSheet string) (sheetIdx, headerRow int, err error) {
	normKeys := make([]string, len(keywords))
	for i, k := range keywords {
		normKeys[i] = normtext.Normalize(k)
	}

	for _, si := range scanOrder(wb, preferSheet) {
		sheet := &wb.Sheets[si]
		limit := len(sheet.Rows)
		if limit > maxHeaderScanRows {
			limit = maxHeaderScanRows
		}
		for ri := 0; ri < limit; ri++ {
			if rowHasAll(sheet.Rows[ri], normKeys) {
				return si, ri, nil
			}
		}
	}
	return -1, -1, ErrHeaderNotFound
}

func scanOrder(wb *fileio.Workbook, preferSheet string) []int {
	order := make([]int, 0, len(wb.Sheets))
	prefer := strings.ToLower(preferSheet)
	if prefer != "" {
		for i, s := range wb.Sheets {
			if strings.Contains(strings.ToLower(s.Name), prefer) {
				order = append(order, i)
				break
			}
		}
	}
	for i := range wb.Sheets {
		if len(order) > 0 && i == order[0] {
			continue
		}
		order = append(order, i)
	}
	return order
}

func rowHasAll(row []string, normKeys []string) bool {
	var b strings.Builder
	for _, cell := range row {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		b.WriteString(cell)
		b.WriteByte(' ')
	}
	joined := normtext.Normalize(b.String())
	if joined == "" {
		return false
	}
	for _, k := range normKeys {
		if !strings.Contains(joined, k) {
			return false
		}
	}
	return true
}
