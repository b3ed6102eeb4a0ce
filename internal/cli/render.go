package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/syncvar"
	"github.com/aretw0/syncvar/pkg/domain"
	"github.com/aretw0/syncvar/pkg/proxytree"
	"github.com/muesli/termenv"
	"github.com/olekukonko/tablewriter"
)

// Report is the outcome of running a script.
type Report struct {
	Variable string          `json:"variable"`
	Records  []domain.Record `json:"records"`
	Rejected []RejectedStep  `json:"rejected,omitempty"`
	Final    *proxytree.Node `json:"final"`
}

// RejectedStep is a step whose mutation failed.
type RejectedStep struct {
	Op    syncvar.Op `json:"op"`
	Path  string     `json:"path"`
	Error string     `json:"error"`
}

// NewReport gathers the records and the rejected steps of a run.
func NewReport(variable string, final *proxytree.Node, records []domain.Record, results []syncvar.StepResult) Report {
	report := Report{
		Variable: variable,
		Records:  records,
		Final:    final,
	}
	for _, res := range results {
		if res.Err != nil {
			report.Rejected = append(report.Rejected, RejectedStep{
				Op:    res.Step.Op,
				Path:  res.Step.Path,
				Error: res.Err.Error(),
			})
		}
	}
	return report
}

// RenderJSON writes the report as indented JSON.
func RenderJSON(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// RenderTable writes the applied changes as a table, followed by the rejected steps
// and the final value. Change types are colored when color is true.
func RenderTable(w io.Writer, report Report, color bool) error {
	profile := termenv.Ascii
	if color {
		profile = termenv.ANSI256
	}

	table := tablewriter.NewWriter(w)
	table.Header("#", "Path", "Type", "Value", "Attributes")
	for i, rec := range report.Records {
		if err := table.Append(
			fmt.Sprintf("%d", i+1),
			rec.Change.Path,
			styleType(profile, rec.Change.Type),
			formatValue(rec.Change),
			formatAttributes(rec.Change.Attributes),
		); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%s: %d changes applied\n", report.Variable, len(report.Records))
	for _, rej := range report.Rejected {
		line := fmt.Sprintf("rejected %s %s: %s", rej.Op, rej.Path, rej.Error)
		fmt.Fprintln(w, profile.String(line).Foreground(profile.Color("#fb7185")).String())
	}

	if report.Final != nil {
		final, err := json.Marshal(report.Final)
		if err != nil {
			return fmt.Errorf("failed to encode final value: %w", err)
		}
		fmt.Fprintf(w, "final: %s\n", final)
	}
	return nil
}

func styleType(p termenv.Profile, t domain.ChangeType) string {
	hex := "#818cf8"
	switch t {
	case domain.ChangeSet:
		hex = "#4ade80"
	case domain.ChangeDelete:
		hex = "#f472b6"
	}
	return p.String(t.String()).Foreground(p.Color(hex)).String()
}

func formatValue(c domain.Change) string {
	if c.Type == domain.ChangeDelete {
		return ""
	}
	data, err := json.Marshal(c.Value)
	if err != nil {
		return fmt.Sprintf("%v", c.Value)
	}
	return string(data)
}

func formatAttributes(a *domain.Attributes) string {
	if a == nil {
		return ""
	}
	if a.IsEmpty() {
		return "{}"
	}
	data, _ := json.Marshal(a)
	return string(data)
}
