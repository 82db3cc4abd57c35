package defaults

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the worksheet holding the balance inputs.
const DefaultSheet = "Completo"

// cellRef is a 1-based (row, column) position on the sheet.
type cellRef struct {
	row, col int
}

// workbookCells maps each default to its cell on the sheet.
var workbookCells = []struct {
	ref   cellRef
	field func(*Defaults) *float64
}{
	{cellRef{4, 3}, func(d *Defaults) *float64 { return &d.Cana }},
	{cellRef{5, 3}, func(d *Defaults) *float64 { return &d.KCana }},
	{cellRef{6, 3}, func(d *Defaults) *float64 { return &d.VazaoVinho }},
	{cellRef{8, 3}, func(d *Defaults) *float64 { return &d.DSPercent }},
	{cellRef{9, 3}, func(d *Defaults) *float64 { return &d.GLConc }},
	{cellRef{19, 3}, func(d *Defaults) *float64 { return &d.NeoVazao }},
	{cellRef{20, 3}, func(d *Defaults) *float64 { return &d.NeoDS }},
	{cellRef{21, 3}, func(d *Defaults) *float64 { return &d.NeoGL }},
	{cellRef{8, 8}, func(d *Defaults) *float64 { return &d.ConsumoToBe }},
}

// WorkbookProvider reads defaults from an uploaded .xlsx workbook.
type WorkbookProvider struct {
	Path   string    // used when Reader is nil
	Reader io.Reader // uploaded workbook
	Sheet  string    // defaults to DefaultSheet
}

// NewWorkbookProvider creates a provider for a workbook on disk.
func NewWorkbookProvider(path, sheet string) *WorkbookProvider {
	return &WorkbookProvider{Path: path, Sheet: sheet}
}

// NewWorkbookReaderProvider creates a provider for an uploaded workbook stream.
func NewWorkbookReaderProvider(r io.Reader, sheet string) *WorkbookProvider {
	return &WorkbookProvider{Reader: r, Sheet: sheet}
}

func (p *WorkbookProvider) Source() Source { return SourceWorkbook }

func (p *WorkbookProvider) sheet() string {
	if p.Sheet == "" {
		return DefaultSheet
	}
	return p.Sheet
}

// Load opens the workbook and reads the nine input cells. Empty cells read as 0.
func (p *WorkbookProvider) Load() (Defaults, error) {
	f, err := p.open()
	if err != nil {
		return Defaults{}, &LoadError{Source: SourceWorkbook, Path: p.Path, Err: err}
	}
	defer f.Close()

	sheet := p.sheet()
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return Defaults{}, &LoadError{Source: SourceWorkbook, Path: p.Path, Err: fmt.Errorf("worksheet %q not found", sheet)}
	}

	var d Defaults
	for _, c := range workbookCells {
		name, err := excelize.CoordinatesToCellName(c.ref.col, c.ref.row)
		if err != nil {
			return Defaults{}, &LoadError{Source: SourceWorkbook, Path: p.Path, Err: err}
		}
		raw, err := f.GetCellValue(sheet, name, excelize.Options{RawCellValue: true})
		if err != nil {
			return Defaults{}, &LoadError{Source: SourceWorkbook, Path: p.Path, Err: fmt.Errorf("cell %s: %w", name, err)}
		}
		v, err := parseCell(raw)
		if err != nil {
			return Defaults{}, &LoadError{Source: SourceWorkbook, Path: p.Path, Err: fmt.Errorf("cell %s: %w", name, err)}
		}
		*c.field(&d) = v
	}
	return d, nil
}

func (p *WorkbookProvider) open() (*excelize.File, error) {
	if p.Reader != nil {
		return excelize.OpenReader(p.Reader)
	}
	if p.Path == "" {
		return nil, fmt.Errorf("no workbook given")
	}
	if _, err := os.Stat(p.Path); err != nil {
		return nil, err
	}
	return excelize.OpenFile(p.Path)
}

// parseCell converts a raw cell value. Blank cells are 0; a decimal comma is accepted.
func parseCell(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err == nil {
		return v, nil
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		if v, err2 := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64); err2 == nil {
			return v, nil
		}
	}
	return 0, fmt.Errorf("not a number: %q", raw)
}
