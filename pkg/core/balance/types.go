package balance

import (
	"fmt"
	"math"
)

// Inputs holds the fixed plant parameters and the adjustable process variables
// of the "Completo" balance sheet.
type Inputs struct {
	Cana        float64 `json:"cana"`          // C4, fixed
	KCana       float64 `json:"k_cana"`        // C5, fixed
	VazaoVinho  float64 `json:"vazao_vinho"`   // C6, m³/h
	DSPercent   float64 `json:"ds_percent"`    // C8, %
	GLConc      float64 `json:"gl_conc"`       // C9, °GL
	NeoVazao    float64 `json:"neo_vazao"`     // C19, m³/h
	NeoDS       float64 `json:"neo_ds"`        // C20, %
	NeoGL       float64 `json:"neo_gl"`        // C21, °GL
	ConsumoToBe float64 `json:"consumo_to_be"` // H8
	PrecoEtanol float64 `json:"preco_etanol"`  // R$/m³
}

// Validate rejects values outside the calculator's domain (negative, NaN, Inf).
// Compute itself never validates; callers check at the boundary.
func (in Inputs) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"cana", in.Cana},
		{"k_cana", in.KCana},
		{"vazao_vinho", in.VazaoVinho},
		{"ds_percent", in.DSPercent},
		{"gl_conc", in.GLConc},
		{"neo_vazao", in.NeoVazao},
		{"neo_ds", in.NeoDS},
		{"neo_gl", in.NeoGL},
		{"consumo_to_be", in.ConsumoToBe},
		{"preco_etanol", in.PrecoEtanol},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("invalid input %s: not a finite number", f.name)
		}
		if f.value < 0 {
			return fmt.Errorf("invalid input %s: negative value %g", f.name, f.value)
		}
	}
	return nil
}

// Result holds every derived quantity of one evaluation.
// As-is fields map to column C of the sheet, to-be fields to column H.
type Result struct {
	// As-is (C)
	KVinho             float64 `json:"k_vinho"`
	ConsumoAsIs        float64 `json:"consumo_as_is"`
	V1TotalAsIs        float64 `json:"v1_total_as_is"`
	EtanolAsIsHora     float64 `json:"etanol_as_is_hora"`
	EtanolAsIsDia      float64 `json:"etanol_as_is_dia"`
	FlegmassaAsIs      float64 `json:"flegmassa_as_is"`
	VinhacaAsIs        float64 `json:"vinhaca_as_is"`
	SolidosVinhacaAsIs float64 `json:"solidos_vinhaca_as_is"`
	KVinhacaAsIs       float64 `json:"k_vinhaca_as_is"`

	// To-be (H)
	VazaoMistura       float64 `json:"vazao_mistura"`
	DSMistura          float64 `json:"ds_mistura"`
	GLMistura          float64 `json:"gl_mistura"`
	V1TotalToBe        float64 `json:"v1_total_to_be"`
	DeltaV1            float64 `json:"delta_v1"`
	EtanolToBeHora     float64 `json:"etanol_to_be_hora"`
	EtanolToBeDia      float64 `json:"etanol_to_be_dia"`
	FlegmassaToBe      float64 `json:"flegmassa_to_be"`
	VinhacaToBe        float64 `json:"vinhaca_to_be"`
	SolidosVinhacaToBe float64 `json:"solidos_vinhaca_to_be"`
	DeltaVinhaca       float64 `json:"delta_vinhaca"`
	KVinhacaToBe       float64 `json:"k_vinhaca_to_be"`

	// Production & financial
	ProducaoAsIs  float64 `json:"producao_as_is"`
	ProducaoToBe  float64 `json:"producao_to_be"`
	DeltaProducao float64 `json:"delta_producao"`
	ReceitaAsIs   float64 `json:"receita_as_is"`
	ReceitaToBe   float64 `json:"receita_to_be"`
	DeltaReceita  float64 `json:"delta_receita"`
}

// Values returns the result as a name -> value mapping, keyed like the JSON tags.
func (r Result) Values() map[string]float64 {
	out := make(map[string]float64, len(Catalog))
	for _, m := range Catalog {
		out[m.Key] = m.Value(r)
	}
	return out
}
