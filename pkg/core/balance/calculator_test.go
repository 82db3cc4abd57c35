package balance

import (
	"math"
	"sync"
	"testing"
)

const tol = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Abs(b))
}

func baseInputs() Inputs {
	return Inputs{
		Cana:        100,
		KCana:       1,
		VazaoVinho:  100,
		DSPercent:   8.5,
		GLConc:      14.5,
		ConsumoToBe: 1.65,
		PrecoEtanol: 2800,
	}
}

func TestCompute_ReferenceScenario(t *testing.T) {
	r := Compute(baseInputs())

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"k_vinho", r.KVinho, 1.0},
		{"consumo_as_is", r.ConsumoAsIs, 1.026},
		{"etanol_as_is_hora", r.EtanolAsIsHora, 1450.0 / 96.0},
		{"etanol_as_is_dia", r.EtanolAsIsDia, 362.5},
		{"v1_total_as_is", r.V1TotalAsIs, 15.496875},
		{"flegmassa_as_is", r.FlegmassaAsIs, 18.125},
		{"vinhaca_as_is", r.VinhacaAsIs, 85.4546875},
		{"solidos_vinhaca_as_is", r.SolidosVinhacaAsIs, 100.0 / 8.5 / 85.4546875},
		{"k_vinhaca_as_is", r.KVinhacaAsIs, 100.0 / 85.4546875},
		{"vazao_mistura", r.VazaoMistura, 100},
		{"ds_mistura", r.DSMistura, 8.5},
		{"gl_mistura", r.GLMistura, 14.5},
		{"v1_total_to_be", r.V1TotalToBe, 24.921875},
		{"delta_v1", r.DeltaV1, 9.425},
		{"etanol_to_be_dia", r.EtanolToBeDia, 362.5},
		{"vinhaca_to_be", r.VinhacaToBe, 94.925},
		{"solidos_vinhaca_to_be", r.SolidosVinhacaToBe, 850.0 / 94.925},
		{"delta_vinhaca", r.DeltaVinhaca, 94.925 - 85.4546875},
		{"k_vinhaca_to_be", r.KVinhacaToBe, 100.0 / 94.925},
		{"receita_as_is", r.ReceitaAsIs, 1015000},
		{"receita_to_be", r.ReceitaToBe, 1015000},
		{"delta_producao", r.DeltaProducao, 0},
		{"delta_receita", r.DeltaReceita, 0},
	}
	for _, c := range checks {
		if !approx(c.got, c.want) {
			t.Errorf("%s: expected %.12f, got %.12f", c.name, c.want, c.got)
		}
	}

	if r.KVinho != 1.0 {
		t.Errorf("k_vinho should be exactly 1.0, got %v", r.KVinho)
	}
}

func TestCompute_ZeroWineFlow(t *testing.T) {
	in := baseInputs()
	in.VazaoVinho = 0

	r := Compute(in)

	if r.KVinho != 0 {
		t.Errorf("k_vinho expected 0, got %v", r.KVinho)
	}
	if r.SolidosVinhacaAsIs != 0 {
		t.Errorf("solidos_vinhaca_as_is expected 0, got %v", r.SolidosVinhacaAsIs)
	}
	// Vinhaça is still evaluated term by term; every term is zero here.
	if r.VinhacaAsIs != 0 {
		t.Errorf("vinhaca_as_is expected 0, got %v", r.VinhacaAsIs)
	}
	if r.KVinhacaAsIs != 0 {
		t.Errorf("k_vinhaca_as_is expected 0, got %v", r.KVinhacaAsIs)
	}
	if r.DSMistura != 0 || r.GLMistura != 0 {
		t.Errorf("mixture concentrations expected 0 with no flow, got ds=%v gl=%v", r.DSMistura, r.GLMistura)
	}
	if r.SolidosVinhacaToBe != 0 || r.KVinhacaToBe != 0 {
		t.Errorf("to-be guards should fire, got solidos=%v k=%v", r.SolidosVinhacaToBe, r.KVinhacaToBe)
	}
	// consumo_as_is does not depend on flow
	if !approx(r.ConsumoAsIs, 1.026) {
		t.Errorf("consumo_as_is expected 1.026, got %v", r.ConsumoAsIs)
	}
}

func TestCompute_ZeroWineFlowKeepsNeoStream(t *testing.T) {
	in := baseInputs()
	in.VazaoVinho = 0
	in.NeoVazao = 40
	in.NeoDS = 5
	in.NeoGL = 9.6

	r := Compute(in)

	if r.VinhacaAsIs != 0 {
		t.Fatalf("vinhaca_as_is expected 0, got %v", r.VinhacaAsIs)
	}
	if !approx(r.DSMistura, 5) || !approx(r.GLMistura, 9.6) {
		t.Errorf("mixture should equal the Neo stream, got ds=%v gl=%v", r.DSMistura, r.GLMistura)
	}
	if !approx(r.EtanolToBeHora, 4) {
		t.Errorf("etanol_to_be_hora expected 4, got %v", r.EtanolToBeHora)
	}
	if !approx(r.DeltaVinhaca, r.VinhacaToBe) {
		t.Errorf("delta_vinhaca should equal vinhaca_to_be when as-is is empty, got %v vs %v", r.DeltaVinhaca, r.VinhacaToBe)
	}
}

func TestCompute_ZeroDissolvedSolids(t *testing.T) {
	in := baseInputs()
	in.DSPercent = 0

	r := Compute(in)

	if r.SolidosVinhacaAsIs != 0 {
		t.Errorf("solidos_vinhaca_as_is expected 0 with ds_percent=0, got %v", r.SolidosVinhacaAsIs)
	}
	if r.KVinhacaAsIs == 0 {
		t.Errorf("k_vinhaca_as_is should not be guarded by ds_percent")
	}
}

func TestCompute_AllZeroIsFinite(t *testing.T) {
	r := Compute(Inputs{})
	for key, v := range r.Values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s is not finite: %v", key, v)
		}
	}
	// consumo_as_is is the intercept alone
	if r.ConsumoAsIs != 4.564 {
		t.Errorf("consumo_as_is expected 4.564, got %v", r.ConsumoAsIs)
	}
}

func TestCompute_DegenerateBlendKeepsDensityResidual(t *testing.T) {
	in := baseInputs()
	in.NeoVazao = 0
	in.ConsumoToBe = -0.244*in.GLConc + 4.564

	r := Compute(in)

	if r.VazaoMistura != in.VazaoVinho {
		t.Errorf("vazao_mistura expected %v, got %v", in.VazaoVinho, r.VazaoMistura)
	}
	if !approx(r.DSMistura, in.DSPercent) || !approx(r.GLMistura, in.GLConc) {
		t.Errorf("mixture should match as-is, got ds=%v gl=%v", r.DSMistura, r.GLMistura)
	}
	if !approx(r.EtanolToBeHora, r.EtanolAsIsHora) {
		t.Errorf("etanol_to_be_hora expected %v, got %v", r.EtanolAsIsHora, r.EtanolToBeHora)
	}
	if !approx(r.DeltaV1+1, 1) {
		t.Errorf("delta_v1 expected ~0, got %v", r.DeltaV1)
	}

	// 0.789 (as-is) vs 0.786 (to-be) leaves a fixed residual on vinhaça.
	want := r.EtanolAsIsHora * (0.789 - 0.786)
	if r.DeltaVinhaca == 0 {
		t.Fatalf("delta_vinhaca should carry the density residual, got 0")
	}
	if !approx(r.DeltaVinhaca, want) {
		t.Errorf("delta_vinhaca expected %.12f, got %.12f", want, r.DeltaVinhaca)
	}
}

func TestCompute_Blend(t *testing.T) {
	in := baseInputs()
	in.NeoVazao = 50
	in.NeoDS = 4
	in.NeoGL = 6

	r := Compute(in)

	if r.VazaoMistura != 150 {
		t.Errorf("vazao_mistura expected 150, got %v", r.VazaoMistura)
	}
	if !approx(r.DSMistura, 7.0) {
		t.Errorf("ds_mistura expected 7.0, got %v", r.DSMistura)
	}
	if !approx(r.GLMistura, 1750.0/150.0) {
		t.Errorf("gl_mistura expected %v, got %v", 1750.0/150.0, r.GLMistura)
	}
	// H5*H7/96 = 1750/96
	if !approx(r.EtanolToBeHora, 1750.0/96.0) {
		t.Errorf("etanol_to_be_hora expected %v, got %v", 1750.0/96.0, r.EtanolToBeHora)
	}
	if !approx(r.DeltaProducao, (1750.0-1450.0)/96.0*24) {
		t.Errorf("delta_producao expected %v, got %v", (1750.0-1450.0)/96.0*24, r.DeltaProducao)
	}
	if r.DeltaReceita <= 0 {
		t.Errorf("blending extra ethanol should raise revenue, got %v", r.DeltaReceita)
	}
}

func TestCompute_FinancialLinearity(t *testing.T) {
	cases := []Inputs{
		baseInputs(),
		{Cana: 500, KCana: 0.8, VazaoVinho: 420, DSPercent: 9.1, GLConc: 12.3, NeoVazao: 75, NeoDS: 3.2, NeoGL: 7.7, ConsumoToBe: 1.71, PrecoEtanol: 3125.5},
		{VazaoVinho: 1, GLConc: 0.1, NeoVazao: 1000, NeoGL: 50, ConsumoToBe: 2, PrecoEtanol: 0.01},
		{},
	}
	for i, in := range cases {
		r := Compute(in)
		if r.DeltaReceita != r.DeltaProducao*in.PrecoEtanol {
			t.Errorf("case %d: delta_receita %v != delta_producao*preco %v", i, r.DeltaReceita, r.DeltaProducao*in.PrecoEtanol)
		}
		if r.ProducaoAsIs != r.EtanolAsIsDia || r.ProducaoToBe != r.EtanolToBeDia {
			t.Errorf("case %d: production should mirror daily ethanol", i)
		}
	}
}

func TestCompute_Idempotent(t *testing.T) {
	in := baseInputs()
	in.NeoVazao = 33.3
	in.NeoDS = 2.2
	in.NeoGL = 11.1

	first := Compute(in)
	second := Compute(in)
	if first != second {
		t.Errorf("Compute is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestCompute_ConcurrentCallers(t *testing.T) {
	in := baseInputs()
	want := Compute(in)

	var wg sync.WaitGroup
	results := make([]Result, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Compute(in)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if got != want {
			t.Errorf("goroutine %d produced a different result", i)
		}
	}
}

func TestResultValues(t *testing.T) {
	r := Compute(baseInputs())
	values := r.Values()

	if len(values) != len(Catalog) {
		t.Fatalf("expected %d values, got %d", len(Catalog), len(values))
	}
	if values["k_vinho"] != r.KVinho {
		t.Errorf("k_vinho mismatch: %v vs %v", values["k_vinho"], r.KVinho)
	}
	if values["delta_receita"] != r.DeltaReceita {
		t.Errorf("delta_receita mismatch: %v vs %v", values["delta_receita"], r.DeltaReceita)
	}
	if m, ok := Lookup("vinhaca_to_be"); !ok || m.Cell != "H14" {
		t.Errorf("Lookup(vinhaca_to_be) = %+v, %v", m, ok)
	}
	if _, ok := Lookup("nope"); ok {
		t.Errorf("Lookup should miss unknown keys")
	}
}

func TestInputsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Inputs)
		wantErr bool
	}{
		{"valid", func(in *Inputs) {}, false},
		{"zero everywhere", func(in *Inputs) { *in = Inputs{} }, false},
		{"negative flow", func(in *Inputs) { in.VazaoVinho = -1 }, true},
		{"negative price", func(in *Inputs) { in.PrecoEtanol = -0.5 }, true},
		{"NaN gl", func(in *Inputs) { in.GLConc = math.NaN() }, true},
		{"Inf neo", func(in *Inputs) { in.NeoVazao = math.Inf(1) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInputs()
			tt.mutate(&in)
			err := in.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
