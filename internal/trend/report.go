// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trend

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-trends/internal/scale"
	"github.com/pdiddy/research-trends/pkg/types"
)

// Report is the final state of a run.
type Report struct {
	Generation uint64              `json:"generation" yaml:"generation"`
	Term       types.SearchTerm    `json:"term" yaml:"term"`
	Range      types.YearRange     `json:"range" yaml:"range"`
	Series     types.OrderedSeries `json:"series" yaml:"series"`
	Scales     *types.Scales       `json:"scales" yaml:"scales"`
	Bars       []scale.Bar         `json:"bars" yaml:"bars"`
	Expected   int                 `json:"expected" yaml:"expected"`
	Complete   bool                `json:"complete" yaml:"complete"`
	Errors     []string            `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// FormatJSON writes the report as indented JSON to w.
func FormatJSON(rep Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// reportFile is the on-disk export of a report.
type reportFile struct {
	Report    Report    `yaml:"report"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteReportYAML exports rep to a YAML file at path.
func WriteReportYAML(path string, rep Report) error {
	data, err := yaml.Marshal(&reportFile{Report: rep, Timestamp: time.Now()})
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
