package fileio

import (
	"bufio"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// readCSV lê um CSV como pasta de trabalho de aba única, detectando a
// codificação (UTF-8 ou Latin-1/Windows-1252, comuns em exportações BR)
// e farejando o delimitador (";" é o padrão do Excel pt-BR).
func readCSV(r io.Reader, filename string) (*Workbook, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(2048)
	cs := "utf-8"
	if len(peek) > 0 {
		if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
			cs = strings.ToLower(det.Charset)
		}
	}

	var dec io.Reader = br
	switch cs {
	case "windows-1252", "cp1252":
		dec = transform.NewReader(br, charmap.Windows1252.NewDecoder())
	case "iso-8859-1", "latin1":
		dec = transform.NewReader(br, charmap.ISO8859_1.NewDecoder())
	default:
		// assume UTF-8
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	if delimiterFromSample(peek) == ';' {
		cr.Comma = ';'
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return &Workbook{Sheets: []Sheet{{Name: name, Rows: rows}}}, nil
}

func delimiterFromSample(sample []byte) rune {
	semis, commas := 0, 0
	for _, b := range sample {
		switch b {
		case ';':
			semis++
		case ',':
			commas++
		case '\n':
			if semis+commas > 0 {
				// primeira linha decide
				if semis > commas {
					return ';'
				}
				return ','
			}
		}
	}
	if semis > commas {
		return ';'
	}
	return ','
}
