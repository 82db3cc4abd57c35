package balance

// Model constants from the "Completo" sheet.
const (
	consumoSlope     = -0.244
	consumoIntercept = 4.564
	glAbsolute       = 96.0 // hydrated ethanol °GL
	hoursPerDay      = 24.0
	flegmassaFactor  = 1.2

	// The as-is and to-be vinhaça rows use different coefficients in the sheet.
	// Both are kept as-is until the modelling team confirms which is intended.
	densityAsIs = 0.789
	densityToBe = 0.786
)

// Compute evaluates the full balance for one set of inputs.
// Every division whose divisor can be zero yields 0 instead of Inf/NaN,
// so Compute is total for finite non-negative inputs.
func Compute(in Inputs) Result {
	var r Result
	computeAsIs(in, &r)
	computeToBe(in, &r)
	computeFinancial(in, &r)
	return r
}

// computeAsIs fills the C column (C7..C17).
func computeAsIs(in Inputs, r *Result) {
	// C7 = C4*C5/C6
	if in.VazaoVinho != 0 {
		r.KVinho = in.Cana * in.KCana / in.VazaoVinho
	}

	// C10 = -0.244*C9 + 4.564
	r.ConsumoAsIs = consumoSlope*in.GLConc + consumoIntercept

	// C11 = C6*C9/96*C10
	r.V1TotalAsIs = in.VazaoVinho * in.GLConc / glAbsolute * r.ConsumoAsIs

	// C12 = C6*C9/96, C13 = C12*24, C14 = C12*1.2
	r.EtanolAsIsHora = in.VazaoVinho * in.GLConc / glAbsolute
	r.EtanolAsIsDia = r.EtanolAsIsHora * hoursPerDay
	r.FlegmassaAsIs = r.EtanolAsIsHora * flegmassaFactor

	// C15 = C6 - C12*0.789 + C11 - C14
	r.VinhacaAsIs = in.VazaoVinho - r.EtanolAsIsHora*densityAsIs + r.V1TotalAsIs - r.FlegmassaAsIs

	// C16 = C6/C8/C15
	if in.DSPercent != 0 && r.VinhacaAsIs != 0 {
		r.SolidosVinhacaAsIs = in.VazaoVinho / in.DSPercent / r.VinhacaAsIs
	}

	// C17 = C5*C4/C15
	if r.VinhacaAsIs != 0 {
		r.KVinhacaAsIs = in.KCana * in.Cana / r.VinhacaAsIs
	}
}

// computeToBe fills the H column (H5..H17). It reads C11 and C15 from r.
func computeToBe(in Inputs, r *Result) {
	// H5 = C19 + C6
	r.VazaoMistura = in.NeoVazao + in.VazaoVinho

	// H6, H7: flow-weighted blend of %Ds and °GL
	if r.VazaoMistura != 0 {
		r.DSMistura = (in.NeoVazao*in.NeoDS + in.VazaoVinho*in.DSPercent) / r.VazaoMistura
		r.GLMistura = (in.NeoVazao*in.NeoGL + in.VazaoVinho*in.GLConc) / r.VazaoMistura
	}

	// H9 = H5*H7/96*H8, H10 = H9 - C11
	r.V1TotalToBe = r.VazaoMistura * r.GLMistura / glAbsolute * in.ConsumoToBe
	r.DeltaV1 = r.V1TotalToBe - r.V1TotalAsIs

	// H11 = H5*H7/96, H12 = H11*24, H13 = H11*1.2
	r.EtanolToBeHora = r.VazaoMistura * r.GLMistura / glAbsolute
	r.EtanolToBeDia = r.EtanolToBeHora * hoursPerDay
	r.FlegmassaToBe = r.EtanolToBeHora * flegmassaFactor

	// H14 = H5 - H11*0.786 + H9 - H13
	r.VinhacaToBe = r.VazaoMistura - r.EtanolToBeHora*densityToBe + r.V1TotalToBe - r.FlegmassaToBe

	// H15 = H5*H6/H14
	if r.VinhacaToBe != 0 {
		r.SolidosVinhacaToBe = r.VazaoMistura * r.DSMistura / r.VinhacaToBe
	}

	// H16 = H14 - C15
	r.DeltaVinhaca = r.VinhacaToBe - r.VinhacaAsIs

	// H17 = C4*C5/H14
	if r.VinhacaToBe != 0 {
		r.KVinhacaToBe = in.Cana * in.KCana / r.VinhacaToBe
	}
}

// computeFinancial derives daily production and revenue from C13/H12.
func computeFinancial(in Inputs, r *Result) {
	r.ProducaoAsIs = r.EtanolAsIsDia
	r.ProducaoToBe = r.EtanolToBeDia
	r.DeltaProducao = r.ProducaoToBe - r.ProducaoAsIs

	r.ReceitaAsIs = r.ProducaoAsIs * in.PrecoEtanol
	r.ReceitaToBe = r.ProducaoToBe * in.PrecoEtanol
	r.DeltaReceita = r.DeltaProducao * in.PrecoEtanol
}
