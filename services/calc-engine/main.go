package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"neobio_balance/pkg/core/balance"
	"neobio_balance/pkg/core/defaults"
	"neobio_balance/pkg/core/report"
	"neobio_balance/pkg/core/utils"

	"github.com/joho/godotenv"
)

type options struct {
	mode         string
	data         string
	workbook     string
	sheet        string
	defaultsFile string
	price        float64
}

func main() {
	godotenv.Load()

	var opts options
	flag.StringVar(&opts.mode, "mode", "calculate", "Mode: calculate, check, report or defaults")
	flag.StringVar(&opts.data, "data", "", "Input payload (JSON or Hjson); missing fields take the defaults")
	flag.StringVar(&opts.workbook, "xlsx", os.Getenv("BALANCE_WORKBOOK"), "Workbook to read defaults from")
	flag.StringVar(&opts.sheet, "sheet", defaults.DefaultSheet, "Worksheet holding the inputs")
	flag.StringVar(&opts.defaultsFile, "defaults", os.Getenv("BALANCE_DEFAULTS_FILE"), "Hjson/JSON defaults file")
	flag.Float64Var(&opts.price, "price", defaults.DefaultPrecoEtanol, "Ethanol price (R$/m³)")
	flag.Parse()

	if err := run(opts, os.Stdout); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, out io.Writer) error {
	var provider defaults.Provider = defaults.HardcodedProvider{}
	switch {
	case opts.workbook != "":
		provider = defaults.NewWorkbookProvider(opts.workbook, opts.sheet)
	case opts.defaultsFile != "":
		provider = defaults.NewFileProvider(opts.defaultsFile)
	}

	d, source, warn := defaults.Resolve(provider)
	if warn != nil {
		fmt.Fprintf(out, "[WARNING] %v\n", warn)
	}

	if opts.mode == "defaults" {
		return printJSON(out, map[string]interface{}{
			"source":   source,
			"defaults": d,
		})
	}

	in := d.Inputs(opts.price)
	if opts.data != "" {
		if _, err := utils.SmartParse(opts.data, &in); err != nil {
			return fmt.Errorf("unmarshaling data: %w", err)
		}
	}
	if err := in.Validate(); err != nil {
		return err
	}

	res := balance.Compute(in)

	switch opts.mode {
	case "calculate":
		return printJSON(out, res)
	case "check":
		runChecks(out, in, res)
		return nil
	case "report":
		fmt.Fprint(out, report.New(in, res, source, warn).Markdown())
		return nil
	default:
		return fmt.Errorf("unknown mode: %s", opts.mode)
	}
}

// runChecks prints the scenario consistency checks.
func runChecks(out io.Writer, in balance.Inputs, res balance.Result) {
	for _, v := range balance.Verify(in, res) {
		if v.IsBalanced {
			fmt.Fprintf(out, "Success: %s (gap %g)\n", v.Name, v.Gap)
			continue
		}
		for _, w := range v.Warnings {
			fmt.Fprintf(out, "Error: %s: %s\n", v.Name, w)
		}
	}
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
