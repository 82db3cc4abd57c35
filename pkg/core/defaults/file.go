package defaults

import (
	"fmt"
	"os"

	"neobio_balance/pkg/core/utils"
)

// FileProvider reads defaults from a Hjson or JSON document keyed by the
// snake_case input names. Missing keys read as 0.
type FileProvider struct {
	Path string
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

func (p *FileProvider) Source() Source { return SourceFile }

func (p *FileProvider) Load() (Defaults, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return Defaults{}, &LoadError{Source: SourceFile, Path: p.Path, Err: err}
	}
	var d Defaults
	if _, err := utils.SmartParse(string(data), &d); err != nil {
		return Defaults{}, &LoadError{Source: SourceFile, Path: p.Path, Err: fmt.Errorf("parse: %w", err)}
	}
	return d, nil
}
