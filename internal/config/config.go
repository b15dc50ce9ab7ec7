package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stefanprati-rgb/gerador-faturas-egs/internal/fatura/metrics"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	MaxUploadMB  int
	LogFile      string

	// caminho do yaml opcional com a base de clientes e a política de cálculo
	ArquivoConfig string

	BaseClientes BaseClientesConfig
	Calculo      metrics.CalcParams
}

// BaseClientesConfig — base de clientes externa: arquivo, aba e linha de
// cabeçalho (1-based), mais a chave liga/desliga.
type BaseClientesConfig struct {
	Habilitada     bool   `yaml:"habilitada"`
	Caminho        string `yaml:"caminho"`
	Aba            string `yaml:"aba"`
	LinhaCabecalho int    `yaml:"linha_cabecalho"`
}

type arquivoConfig struct {
	BaseClientes BaseClientesConfig `yaml:"base_clientes"`
	Calculo      *metrics.CalcParams `yaml:"calculo"`
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8082"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "32"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	cfg := Config{
		Host:          getenv("HOST", "127.0.0.1"),
		Port:          port,
		AllowOrigins:  origins,
		LogLevel:      getenv("LOG_LEVEL", "info"),
		MaxUploadMB:   mb,
		LogFile:       getenv("LOG_FILE", "logs/gerador-faturas.log"),
		ArquivoConfig: getenv("CONFIG_FILE", ""),
		Calculo:       metrics.DefaultParams(),
	}
	if cfg.ArquivoConfig != "" {
		_ = cfg.mergeArquivo(cfg.ArquivoConfig) // arquivo ausente não é fatal
	}
	return cfg
}

func (c *Config) mergeArquivo(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// chaves ausentes no yaml preservam os defaults de cálculo
	calc := c.Calculo
	fc := arquivoConfig{Calculo: &calc}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	c.BaseClientes = fc.BaseClientes
	if c.BaseClientes.LinhaCabecalho <= 0 {
		c.BaseClientes.LinhaCabecalho = 1
	}
	c.Calculo = *fc.Calculo
	return nil
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
