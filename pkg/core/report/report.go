package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"neobio_balance/pkg/core/balance"
	"neobio_balance/pkg/core/defaults"
	"neobio_balance/pkg/core/format"
)

const Title = "Balanço Neo Bio — Aba Completo"

// inputField describes one input row of the report.
type inputField struct {
	Cell    string
	Label   string
	Section balance.Section
	Unit    balance.Unit
	Value   func(balance.Inputs) float64
}

var inputFields = []inputField{
	{"C4", "Cana (fixo)", balance.SectionBio, balance.UnitFlow, func(in balance.Inputs) float64 { return in.Cana }},
	{"C5", "K Cana (fixo)", balance.SectionBio, balance.UnitRatio, func(in balance.Inputs) float64 { return in.KCana }},
	{"C6", "Vazão vinho", balance.SectionBio, balance.UnitFlow, func(in balance.Inputs) float64 { return in.VazaoVinho }},
	{"C8", "%Ds", balance.SectionBio, balance.UnitPercent, func(in balance.Inputs) float64 { return in.DSPercent }},
	{"C9", "Conc GL", balance.SectionBio, balance.UnitPercent, func(in balance.Inputs) float64 { return in.GLConc }},
	{"C19", "Vazão Neo", sectionNeo, balance.UnitFlow, func(in balance.Inputs) float64 { return in.NeoVazao }},
	{"C20", "%Ds Neo", sectionNeo, balance.UnitPercent, func(in balance.Inputs) float64 { return in.NeoDS }},
	{"C21", "Conc GL Neo", sectionNeo, balance.UnitPercent, func(in balance.Inputs) float64 { return in.NeoGL }},
	{"H8", "Consumo específico to be", balance.SectionMistura, balance.UnitRatio, func(in balance.Inputs) float64 { return in.ConsumoToBe }},
	{"", "Preço etanol (R$/m³)", balance.SectionFinanceiro, balance.UnitCurrency, func(in balance.Inputs) float64 { return in.PrecoEtanol }},
}

// sectionNeo only holds inputs; it has no derived metrics.
const sectionNeo balance.Section = "neo"

var sections = []struct {
	id    balance.Section
	title string
}{
	{balance.SectionBio, "1) Dados da Bio"},
	{sectionNeo, "2) Dados Neo (Volante Neo - Vinho)"},
	{balance.SectionMistura, "3) Dados da Mistura"},
	{balance.SectionFinanceiro, "4) Produções & Financeiro"},
}

// Report is a rendered view of one evaluation.
type Report struct {
	Source      defaults.Source
	Warning     string
	Inputs      balance.Inputs
	Result      balance.Result
	GeneratedAt time.Time
}

// New packages an already computed result for display.
func New(in balance.Inputs, res balance.Result, source defaults.Source, warning error) Report {
	r := Report{
		Source:      source,
		Inputs:      in,
		Result:      res,
		GeneratedAt: time.Now(),
	}
	if warning != nil {
		r.Warning = warning.Error()
	}
	return r
}

// Markdown renders the report as a Markdown document with one table per section.
func (r Report) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", Title)
	fmt.Fprintf(&b, "Valores padrão: **%s** · gerado em %s\n\n", r.Source, r.GeneratedAt.Format("02/01/2006 15:04"))
	if r.Warning != "" {
		fmt.Fprintf(&b, "> **Aviso:** %s\n\n", escape(r.Warning))
	}

	for _, s := range sections {
		fmt.Fprintf(&b, "## %s\n\n", s.title)
		b.WriteString("| Campo | Célula | Valor | Fórmula |\n")
		b.WriteString("|---|---|---:|---|\n")
		for _, f := range inputFields {
			if f.Section != s.id {
				continue
			}
			fmt.Fprintf(&b, "| %s | %s | %s | entrada |\n", escape(f.Label), f.Cell, format.Metric(f.Unit, f.Value(r.Inputs)))
		}
		for _, m := range balance.Catalog {
			if m.Section != s.id {
				continue
			}
			fmt.Fprintf(&b, "| %s | %s | %s | `%s` |\n", escape(m.Label), m.Cell, format.Metric(m.Unit, m.Value(r.Result)), m.Formula)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "**Δ Produção (m³/dia):** %s  \n", format.Flow(r.Result.DeltaProducao))
	fmt.Fprintf(&b, "**Δ Receita (R$/dia):** %s\n", format.Currency(r.Result.DeltaReceita))
	return b.String()
}

const pageStyle = `<style>
body{background:#F6F7F9;font-family:sans-serif}
table.card{background:#FFFFFF;border:1px solid #eef0f2;border-radius:16px;padding:14px 16px;box-shadow:0 1px 3px rgba(0,0,0,.05)}
td.num{text-align:right;font-variant-numeric:tabular-nums}
</style>`

// HTML renders the Markdown report and decorates it for the browser.
func (r Report) HTML() (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := md.Convert([]byte(r.Markdown()), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return "", fmt.Errorf("failed to parse rendered report: %w", err)
	}
	doc.Find("head").AppendHtml("<meta charset=\"utf-8\"><title>" + Title + "</title>" + pageStyle)
	doc.Find("table").AddClass("card")
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		row.Find("td").Eq(2).AddClass("num")
	})
	doc.Find("blockquote").AddClass("warning")

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}
	return out, nil
}

// escape keeps table cells intact.
func escape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
