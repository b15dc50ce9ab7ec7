package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Sheet — uma aba já materializada como grade de strings.
type Sheet struct {
	Name string
	Rows [][]string
}

// Workbook — todas as abas de um arquivo tabular. CSV vira uma aba única.
type Workbook struct {
	Sheets []Sheet
}

// ReadWorkbook escolhe o parser pela extensão e materializa todas as abas.
// A localização de aba/cabeçalho acontece depois, em cima desta grade.
func ReadWorkbook(r io.Reader, filename string) (*Workbook, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx", ".xlsm":
		return readXLSX(r)
	case ".xls":
		return readXLS(r)
	case ".csv":
		return readCSV(r, filename)
	default:
		return nil, fmt.Errorf("arquivo não suportado: %s", filename)
	}
}

// Header devolve a linha de cabeçalho (0-based), preenchendo células
// vazias com "Coluna N" e desambiguando nomes repetidos.
func (s *Sheet) Header(headerRow int) []string {
	if headerRow < 0 || headerRow >= len(s.Rows) {
		return nil
	}
	h := s.Rows[headerRow]
	out := make([]string, len(h))
	seen := make(map[string]int, len(h))
	for i, v := range h {
		v = strings.TrimSpace(v)
		if v == "" {
			v = fmt.Sprintf("Coluna %d", i+1)
		}
		if n := seen[v]; n > 0 {
			out[i] = fmt.Sprintf("%s (%d)", v, n+1)
		} else {
			out[i] = v
		}
		seen[v]++
	}
	return out
}

// Maps converte as linhas abaixo do cabeçalho em map[cabeçalho]valor,
// descartando linhas completamente vazias.
func (s *Sheet) Maps(headerRow int) []map[string]string {
	headers := s.Header(headerRow)
	if headers == nil {
		return nil
	}
	var out []map[string]string
	for r := headerRow + 1; r < len(s.Rows); r++ {
		rec := s.Rows[r]
		m := make(map[string]string, len(headers))
		empty := true
		for c := 0; c < len(headers); c++ {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			m[headers[c]] = v
			if strings.TrimSpace(v) != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}
