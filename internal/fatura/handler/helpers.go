package handler

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Extensões aceitas para upload de planilha.
var allowedExts = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xls":  true,
	".csv":  true,
}

func validateExt(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExts[ext] {
		return fmt.Errorf("tipo de arquivo inválido (%s); use .xlsx, .xlsm, .xls ou .csv", ext)
	}
	return nil
}
