package defaults

import (
	"errors"
	"fmt"

	"neobio_balance/pkg/core/balance"
)

// Defaults holds the nine initial values of the "Completo" sheet.
type Defaults struct {
	Cana        float64 `json:"cana"`
	KCana       float64 `json:"k_cana"`
	VazaoVinho  float64 `json:"vazao_vinho"`
	DSPercent   float64 `json:"ds_percent"`
	GLConc      float64 `json:"gl_conc"`
	NeoVazao    float64 `json:"neo_vazao"`
	NeoDS       float64 `json:"neo_ds"`
	NeoGL       float64 `json:"neo_gl"`
	ConsumoToBe float64 `json:"consumo_to_be"`
}

// Source identifies where a set of defaults came from.
type Source string

const (
	SourceHardcoded Source = "hardcoded"
	SourceWorkbook  Source = "workbook"
	SourceFile      Source = "file"
)

// DefaultPrecoEtanol is the ethanol price (R$/m³) used when none is configured.
const DefaultPrecoEtanol = 2800.0

// Provider supplies initial calculator inputs.
type Provider interface {
	Load() (Defaults, error)
	Source() Source
}

// Hardcoded returns the built-in fallback table.
func Hardcoded() Defaults {
	return Defaults{
		Cana:        0,
		KCana:       0,
		VazaoVinho:  100,
		DSPercent:   8.5,
		GLConc:      14.5,
		NeoVazao:    0,
		NeoDS:       0,
		NeoGL:       0,
		ConsumoToBe: 1.65,
	}
}

// HardcodedProvider always returns the built-in table.
type HardcodedProvider struct{}

func (HardcodedProvider) Load() (Defaults, error) { return Hardcoded(), nil }
func (HardcodedProvider) Source() Source          { return SourceHardcoded }

// Inputs converts the defaults into calculator inputs priced at precoEtanol.
func (d Defaults) Inputs(precoEtanol float64) balance.Inputs {
	return balance.Inputs{
		Cana:        d.Cana,
		KCana:       d.KCana,
		VazaoVinho:  d.VazaoVinho,
		DSPercent:   d.DSPercent,
		GLConc:      d.GLConc,
		NeoVazao:    d.NeoVazao,
		NeoDS:       d.NeoDS,
		NeoGL:       d.NeoGL,
		ConsumoToBe: d.ConsumoToBe,
		PrecoEtanol: precoEtanol,
	}
}

// LoadError reports that a defaults source could not be read.
type LoadError struct {
	Source Source
	Path   string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("defaults (%s) %s: %v", e.Source, e.Path, e.Err)
	}
	return fmt.Sprintf("defaults (%s): %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsLoadError reports whether err (or anything it wraps) is a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// Resolve loads defaults from p. When p is nil the hardcoded table is used.
// When p fails, the hardcoded table is returned together with the failure,
// which callers surface as a warning rather than abort on.
func Resolve(p Provider) (Defaults, Source, error) {
	if p == nil {
		return Hardcoded(), SourceHardcoded, nil
	}
	d, err := p.Load()
	if err != nil {
		fmt.Printf("[WARNING] Falling back to hardcoded defaults: %v\n", err)
		return Hardcoded(), SourceHardcoded, err
	}
	fmt.Printf("[DEFAULTS] Loaded defaults from %s\n", p.Source())
	return d, p.Source(), nil
}
