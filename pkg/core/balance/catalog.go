package balance

// Unit tells the presentation layer how a metric is displayed.
type Unit string

const (
	UnitFlow      Unit = "m3_h"     // m³/h, 3 decimals
	UnitVolumeDay Unit = "m3_dia"   // m³/dia, 3 decimals
	UnitRatio     Unit = "ratio"    // dimensionless, 3 decimals
	UnitPercent   Unit = "percent"  // already a percentage, 2 decimals
	UnitFraction  Unit = "fraction" // shown ×100 as a percentage, 2 decimals
	UnitCurrency  Unit = "brl_dia"  // R$/dia, 2 decimals
)

// Section groups metrics the way the balance sheet lays them out.
type Section string

const (
	SectionBio        Section = "bio"
	SectionMistura    Section = "mistura"
	SectionFinanceiro Section = "financeiro"
)

// Metric describes one derived quantity.
type Metric struct {
	Key     string
	Cell    string // spreadsheet cell, empty for the financial aggregates
	Label   string
	Formula string
	Unit    Unit
	Section Section
	Value   func(Result) float64
}

// Catalog lists every derived quantity in evaluation order.
var Catalog = []Metric{
	{"k_vinho", "C7", "K vinho", "C4*C5/C6", UnitRatio, SectionBio, func(r Result) float64 { return r.KVinho }},
	{"consumo_as_is", "C10", "Consumo específico as is", "-0.244*C9 + 4.564", UnitRatio, SectionBio, func(r Result) float64 { return r.ConsumoAsIs }},
	{"v1_total_as_is", "C11", "V1 total as is", "C6*C9/96*C10", UnitFlow, SectionBio, func(r Result) float64 { return r.V1TotalAsIs }},
	{"etanol_as_is_hora", "C12", "Etanol hidratado as is (m³/h)", "C6*C9/96", UnitFlow, SectionBio, func(r Result) float64 { return r.EtanolAsIsHora }},
	{"etanol_as_is_dia", "C13", "Etanol hidratado as is (m³/dia)", "C12*24", UnitVolumeDay, SectionBio, func(r Result) float64 { return r.EtanolAsIsDia }},
	{"flegmassa_as_is", "C14", "Flegmassa as is", "C12*1.2", UnitFlow, SectionBio, func(r Result) float64 { return r.FlegmassaAsIs }},
	{"vinhaca_as_is", "C15", "Vinhaça as is", "C6 - C12*0.789 + C11 - C14", UnitFlow, SectionBio, func(r Result) float64 { return r.VinhacaAsIs }},
	{"solidos_vinhaca_as_is", "C16", "%Ds vinhaça as is", "C6/C8/C15", UnitFraction, SectionBio, func(r Result) float64 { return r.SolidosVinhacaAsIs }},
	{"k_vinhaca_as_is", "C17", "K vinhaça as is", "C5*C4/C15", UnitRatio, SectionBio, func(r Result) float64 { return r.KVinhacaAsIs }},

	{"vazao_mistura", "H5", "Vazão mistura", "C19 + C6", UnitFlow, SectionMistura, func(r Result) float64 { return r.VazaoMistura }},
	{"ds_mistura", "H6", "%Ds mistura", "(C19*C20 + C6*C8)/H5", UnitPercent, SectionMistura, func(r Result) float64 { return r.DSMistura }},
	{"gl_mistura", "H7", "Conc GL mistura", "(C19*C21 + C6*C9)/H5", UnitPercent, SectionMistura, func(r Result) float64 { return r.GLMistura }},
	{"v1_total_to_be", "H9", "V1 total to be", "H5*H7/96*H8", UnitFlow, SectionMistura, func(r Result) float64 { return r.V1TotalToBe }},
	{"delta_v1", "H10", "Δ V1", "H9 - C11", UnitFlow, SectionMistura, func(r Result) float64 { return r.DeltaV1 }},
	{"etanol_to_be_hora", "H11", "Etanol hidratado to be (m³/h)", "H5*H7/96", UnitFlow, SectionMistura, func(r Result) float64 { return r.EtanolToBeHora }},
	{"etanol_to_be_dia", "H12", "Etanol hidratado to be (m³/dia)", "H11*24", UnitVolumeDay, SectionMistura, func(r Result) float64 { return r.EtanolToBeDia }},
	{"flegmassa_to_be", "H13", "Flegmassa to be", "H11*1.2", UnitFlow, SectionMistura, func(r Result) float64 { return r.FlegmassaToBe }},
	{"vinhaca_to_be", "H14", "Vinhaça to be (m³/h)", "H5 - H11*0.786 + H9 - H13", UnitFlow, SectionMistura, func(r Result) float64 { return r.VinhacaToBe }},
	{"solidos_vinhaca_to_be", "H15", "%Ds vinhaça to be", "H5*H6/H14", UnitFraction, SectionMistura, func(r Result) float64 { return r.SolidosVinhacaToBe }},
	{"delta_vinhaca", "H16", "Δ Vinhaça", "H14 - C15", UnitFlow, SectionMistura, func(r Result) float64 { return r.DeltaVinhaca }},
	{"k_vinhaca_to_be", "H17", "K vinhaça to be", "C4*C5/H14", UnitRatio, SectionMistura, func(r Result) float64 { return r.KVinhacaToBe }},

	{"producao_as_is", "", "Produção as is (m³/dia)", "C13", UnitVolumeDay, SectionFinanceiro, func(r Result) float64 { return r.ProducaoAsIs }},
	{"producao_to_be", "", "Produção to be (m³/dia)", "H12", UnitVolumeDay, SectionFinanceiro, func(r Result) float64 { return r.ProducaoToBe }},
	{"delta_producao", "", "Δ Produção (m³/dia)", "H12 - C13", UnitVolumeDay, SectionFinanceiro, func(r Result) float64 { return r.DeltaProducao }},
	{"receita_as_is", "", "Receita as is (R$/dia)", "C13*preço", UnitCurrency, SectionFinanceiro, func(r Result) float64 { return r.ReceitaAsIs }},
	{"receita_to_be", "", "Receita to be (R$/dia)", "H12*preço", UnitCurrency, SectionFinanceiro, func(r Result) float64 { return r.ReceitaToBe }},
	{"delta_receita", "", "Δ Receita (R$/dia)", "Δ Produção*preço", UnitCurrency, SectionFinanceiro, func(r Result) float64 { return r.DeltaReceita }},
}

// Lookup returns the catalog entry for key.
func Lookup(key string) (Metric, bool) {
	for _, m := range Catalog {
		if m.Key == key {
			return m, true
		}
	}
	return Metric{}, false
}
