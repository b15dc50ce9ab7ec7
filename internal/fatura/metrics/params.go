package metrics

// CalcParams — constantes de fallback e fatores ambientais, injetados no
// motor de cálculo. Imutável depois de montado: a versão da política de
// fallback faz parte da entrada da função, não de estado global.
type CalcParams struct {
	// Tarifas médias usadas quando a planilha não traz valor utilizável.
	FallbackTarifaDist   float64 `yaml:"fallback_tarifa_dist"`
	FallbackTarifaCompEV float64 `yaml:"fallback_tarifa_comp_ev"`

	// Fatores ambientais.
	CO2PorKWh     float64 `yaml:"co2_por_kwh"`
	ArvoresPorTon float64 `yaml:"arvores_por_ton"`

	// Percentual do Fio B por ano (Resolução Normativa ANEEL), escalonado.
	FioB map[int]float64 `yaml:"fio_b"`

	Policy CalcPolicy `yaml:"politica"`
}

// CalcPolicy — pontos em que iterações do cálculo divergiram; a escolha é
// configuração nomeada, não palpite embutido.
type CalcPolicy struct {
	// Zera economia mensal negativa antes de acumular.
	ClampEconomiaMensal bool `yaml:"clamp_economia_mensal"`
	// Resíduo "outros" abaixo deste piso é tratado como erro de digitação
	// e zerado (com aviso).
	PisoOutrosNegativo float64 `yaml:"piso_outros_negativo"`
	// Valor mínimo de cobrança: abaixo disso a linha não vira fatura.
	ValorMinimoFatura float64 `yaml:"valor_minimo_fatura"`
}

// DefaultParams — médias 2025 das principais distribuidoras e fatores da
// calculadora original.
func DefaultParams() CalcParams {
	return CalcParams{
		FallbackTarifaDist:   0.916370,
		FallbackTarifaCompEV: 0.716045,
		CO2PorKWh:            0.07,
		ArvoresPorTon:        8,
		FioB: map[int]float64{
			2023: 0.15,
			2024: 0.30,
			2025: 0.45,
			2026: 0.60,
			2027: 0.75,
			2028: 0.90,
		},
		Policy: CalcPolicy{
			ClampEconomiaMensal: true,
			PisoOutrosNegativo:  -10.0,
			ValorMinimoFatura:   5.0,
		},
	}
}

// FioBPercent devolve o percentual do Fio B vigente no ano; fora da
// tabela, congela no maior ano conhecido (escalonamento encerrado em 90%).
func (p CalcParams) FioBPercent(year int) float64 {
	if v, ok := p.FioB[year]; ok {
		return v
	}
	maxYear, maxVal := 0, 0.0
	minYear, minVal := int(^uint(0)>>1), 0.0
	for y, v := range p.FioB {
		if y > maxYear {
			maxYear, maxVal = y, v
		}
		if y < minYear {
			minYear, minVal = y, v
		}
	}
	if maxYear == 0 {
		return 0
	}
	if year < minYear {
		return minVal
	}
	return maxVal
}
