// Parser de .xls legado: fixamos a largura da tabela por varredura e lemos
// todas as células até ela, sem confiar em Row.LastCol().
package fileio

import (
	"bytes"
	"errors"
	"io"
	"strings"

	xls "github.com/extrame/xls"
)

// Largura "real" da aba: varre um número razoável de colunas atrás de
// células não vazias. Exportadores de distribuidora costumam deixar
// colunas fantasma no fim.
func computeMaxCols(sheet *xls.WorkSheet) int {
	const probeMax = 512
	maxCols := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		r := sheet.Row(i)
		if r == nil {
			continue
		}
		for j := 0; j < probeMax; j++ {
			if strings.TrimSpace(r.Col(j)) != "" && j+1 > maxCols {
				maxCols = j + 1
			}
		}
	}
	if maxCols == 0 {
		maxCols = 1
	}
	return maxCols
}

func readXLS(r io.Reader) (*Workbook, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// .xls de distribuidora geralmente é windows-1252, às vezes UTF-8
	var book *xls.WorkBook
	var lastErr error
	for _, ch := range []string{"utf-8", "windows-1252", "iso-8859-1"} {
		book, err = xls.OpenReader(bytes.NewReader(b), ch)
		if err == nil && book != nil {
			lastErr = nil
			break
		}
		lastErr = err
	}
	if book == nil {
		if lastErr == nil {
			lastErr = errors.New("xls: falha ao abrir a pasta de trabalho")
		}
		return nil, lastErr
	}

	wb := &Workbook{}
	for s := 0; s < book.NumSheets(); s++ {
		sheet := book.GetSheet(s)
		if sheet == nil {
			continue
		}
		maxCols := computeMaxCols(sheet)
		rows := make([][]string, 0, int(sheet.MaxRow)+1)
		for i := 0; i <= int(sheet.MaxRow); i++ {
			row := sheet.Row(i)
			cols := make([]string, maxCols)
			if row != nil {
				for j := 0; j < maxCols; j++ {
					cols[j] = strings.TrimSpace(row.Col(j))
				}
			}
			rows = append(rows, cols)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: sheet.Name, Rows: rows})
	}
	return wb, nil
}
