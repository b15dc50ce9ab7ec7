package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/config"
	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/model"
	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/service"
	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fileio"
	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/observability"
)

// Processar devolve o http.HandlerFunc do endpoint principal:
// multipart com "file" (relatório), "mes_referencia" (YYYY-MM),
// "vencimento" (YYYY-MM-DD) e, opcional, "base_clientes".
func Processar(cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := r.Header.Get("X-Request-ID")
		log := logger
		if reqID != "" {
			log = logger.With().Str("req_id", reqID).Logger()
		}

		defer r.Body.Close()
		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			writeError(w, http.StatusBadRequest, "formulário multipart inválido", err.Error())
			return
		}

		mesRef := r.FormValue("mes_referencia")
		vencimento := r.FormValue("vencimento")
		if mesRef == "" || vencimento == "" {
			writeError(w, http.StatusBadRequest, "mes_referencia e vencimento são obrigatórios", "")
			return
		}

		wb, name, err := readUpload(r, "file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "falha ao ler o relatório", err.Error())
			return
		}

		clientes, err := loadClientes(r, cfg, log)
		if err != nil {
			// base de clientes é auxiliar: erro degrada para log, não aborta
			log.Warn().Err(err).Msg("base de clientes indisponível")
		}

		proc := service.NewProcessor(cfg.Calculo, log)
		if cfg.BaseClientes.Habilitada {
			proc.RegistryOverride = &service.RegistryOverride{
				Aba:            cfg.BaseClientes.Aba,
				LinhaCabecalho: cfg.BaseClientes.LinhaCabecalho,
			}
		}

		res, err := proc.Process(wb, clientes, mesRef, vencimento)
		if err != nil {
			observability.LotesProcessados.WithLabelValues("error").Inc()
			var be *service.BatchError
			if errors.As(err, &be) {
				writeError(w, http.StatusUnprocessableEntity, be.Reason, be.Details)
			} else {
				writeError(w, http.StatusInternalServerError, "falha inesperada no processamento", err.Error())
			}
			return
		}

		observability.LotesProcessados.WithLabelValues("success").Inc()
		observability.FaturasEmitidas.Add(float64(len(res.Data)))
		for _, warn := range res.Warnings {
			observability.Avisos.WithLabelValues(warn.Kind).Inc()
		}
		observability.DuracaoLote.Observe(time.Since(start).Seconds())

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			log.Error().Err(err).Msg("write json")
			return
		}

		log.Info().
			Str("arquivo", name).
			Str("mes_referencia", mesRef).
			Int("faturas", len(res.Data)).
			Int("avisos", len(res.Warnings)).
			Dur("elapsed", time.Since(start)).
			Msg("lote processado")
	}
}

func readUpload(r *http.Request, field string) (*fileio.Workbook, string, error) {
	f, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	if err := validateExt(header.Filename); err != nil {
		return nil, "", err
	}
	wb, err := fileio.ReadWorkbook(f, header.Filename)
	return wb, header.Filename, err
}

// loadClientes resolve a base de clientes: o upload da requisição tem
// precedência sobre o arquivo configurado.
func loadClientes(r *http.Request, cfg config.Config, log zerolog.Logger) (*fileio.Workbook, error) {
	if wb, ok, err := optionalUpload(r, "base_clientes"); ok {
		return wb, err
	}
	if !cfg.BaseClientes.Habilitada || cfg.BaseClientes.Caminho == "" {
		return nil, nil
	}
	f, err := os.Open(cfg.BaseClientes.Caminho)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	log.Debug().Str("caminho", cfg.BaseClientes.Caminho).Msg("carregando base de clientes configurada")
	return fileio.ReadWorkbook(f, filepath.Base(cfg.BaseClientes.Caminho))
}

func optionalUpload(r *http.Request, field string) (*fileio.Workbook, bool, error) {
	f, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, false, nil
	}
	if err != nil {
		return nil, true, err
	}
	defer func(f multipart.File) { _ = f.Close() }(f)
	if err := validateExt(header.Filename); err != nil {
		return nil, true, err
	}
	wb, err := fileio.ReadWorkbook(f, header.Filename)
	return wb, true, err
}

func writeError(w http.ResponseWriter, status int, reason, details string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: reason, Details: details})
}
