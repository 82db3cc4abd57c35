package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"neobio_balance/pkg/core/balance"
	"neobio_balance/pkg/core/defaults"
)

func sampleReport(warning error) Report {
	in := balance.Inputs{Cana: 100, KCana: 1, VazaoVinho: 100, DSPercent: 8.5, GLConc: 14.5, NeoVazao: 20, NeoDS: 3, NeoGL: 6, ConsumoToBe: 1.65, PrecoEtanol: 2800}
	return New(in, balance.Compute(in), defaults.SourceWorkbook, warning)
}

func TestMarkdown_Sections(t *testing.T) {
	md := sampleReport(nil).Markdown()

	for _, want := range []string{
		"# " + Title,
		"## 1) Dados da Bio",
		"## 2) Dados Neo (Volante Neo - Vinho)",
		"## 3) Dados da Mistura",
		"## 4) Produções & Financeiro",
		"| K vinho | C7 | 1,000 | `C4*C5/C6` |",
		"| Vazão Neo | C19 | 20,000 | entrada |",
		"| Vinhaça to be (m³/h) | H14 |",
		"`H5 - H11*0.786 + H9 - H13`",
		"Valores padrão: **workbook**",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
	if strings.Contains(md, "Aviso") {
		t.Errorf("no warning expected in markdown")
	}
}

func TestMarkdown_Warning(t *testing.T) {
	md := sampleReport(errors.New("planilha inválida")).Markdown()
	if !strings.Contains(md, "> **Aviso:** planilha inválida") {
		t.Errorf("warning not rendered:\n%s", md)
	}
}

func TestHTML(t *testing.T) {
	html, err := sampleReport(errors.New("sheet missing")).HTML()
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if got := doc.Find("table.card").Length(); got != 4 {
		t.Errorf("expected 4 section tables, got %d", got)
	}
	if got := doc.Find("h2").Length(); got != 4 {
		t.Errorf("expected 4 section headings, got %d", got)
	}
	if doc.Find("title").Text() != Title {
		t.Errorf("unexpected title %q", doc.Find("title").Text())
	}
	if doc.Find("blockquote.warning").Length() != 1 {
		t.Errorf("warning block missing")
	}

	found := false
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Eq(1).Text() == "C7" {
			found = true
			if !cells.Eq(2).HasClass("num") {
				t.Errorf("value cell should be marked numeric")
			}
			if cells.Eq(3).Find("code").Text() != "C4*C5/C6" {
				t.Errorf("formula should render as code, got %q", cells.Eq(3).Text())
			}
		}
	})
	if !found {
		t.Errorf("row for C7 not found")
	}
}
