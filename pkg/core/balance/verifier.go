package balance

import (
	"fmt"
	"math"
)

const checkTolerance = 1e-9

// VerificationResult holds the status of one consistency check.
type VerificationResult struct {
	Name       string   `json:"name"`
	IsBalanced bool     `json:"is_balanced"`
	Gap        float64  `json:"gap"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Verify runs the consistency checks for a computed result.
func Verify(in Inputs, res Result) []VerificationResult {
	return []VerificationResult{
		CheckFinancialLinearity(in, res),
		CheckFinite(res),
		CheckDensityResidual(in),
	}
}

// CheckFinancialLinearity verifies Δ receita = Δ produção × preço.
func CheckFinancialLinearity(in Inputs, res Result) VerificationResult {
	gap := res.DeltaReceita - res.DeltaProducao*in.PrecoEtanol
	return newResult("financial_linearity", gap, "Δ receita differs from Δ produção × preço by %g")
}

// CheckFinite verifies that no derived value is NaN or infinite.
func CheckFinite(res Result) VerificationResult {
	v := VerificationResult{Name: "finite", IsBalanced: true}
	for _, m := range Catalog {
		x := m.Value(res)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			v.IsBalanced = false
			v.Gap++
			v.Warnings = append(v.Warnings, fmt.Sprintf("%s is not finite", m.Key))
		}
	}
	return v
}

// CheckDensityResidual evaluates the inputs with no Neo stream and the as-is
// consumption. The to-be branch then matches the as-is branch except for the
// vinhaça density coefficient, so Δ vinhaça must equal etanol × (0.789 - 0.786).
func CheckDensityResidual(in Inputs) VerificationResult {
	degenerate := in
	degenerate.NeoVazao = 0
	degenerate.ConsumoToBe = consumoSlope*in.GLConc + consumoIntercept
	d := Compute(degenerate)

	want := d.EtanolAsIsHora * (densityAsIs - densityToBe)
	return newResult("density_residual", d.DeltaVinhaca-want, "degenerate Δ vinhaça off by %g")
}

func newResult(name string, gap float64, warning string) VerificationResult {
	isBalanced := math.Abs(gap) < checkTolerance

	var warnings []string
	if !isBalanced {
		warnings = append(warnings, fmt.Sprintf(warning, gap))
	}

	return VerificationResult{
		Name:       name,
		IsBalanced: isBalanced,
		Gap:        gap,
		Warnings:   warnings,
	}
}
