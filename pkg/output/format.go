// Package output provides utilities for formatting and displaying plan results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/iwvelando/commitment-planner/internal/plan"
	"github.com/iwvelando/commitment-planner/pkg/constants"
	"github.com/iwvelando/commitment-planner/pkg/format"
	"github.com/iwvelando/commitment-planner/pkg/portfolio"
	"gopkg.in/yaml.v3"
)

// Write renders results in the requested output format.
func Write(w io.Writer, outputFormat string, results []plan.Result, diagnostics bool) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return WritePretty(w, results, diagnostics)
	case constants.OutputFormatCSV:
		return WriteCSV(w, results)
	case constants.OutputFormatJSON:
		return WriteJSON(w, results)
	case constants.OutputFormatYAML:
		return WriteYAML(w, results)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(results []plan.Result, diagnostics bool) {
	_ = WritePretty(os.Stdout, results, diagnostics)
}

// WritePretty writes the human-readable tables for every result.
func WritePretty(w io.Writer, results []plan.Result, diagnostics bool) error {
	var buf bytes.Buffer
	for i, result := range results {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "--- Results for scenario %s ---\n", result.Name)
		if result.Plan == nil {
			buf.WriteString("No plan available\n")
			continue
		}
		writeSummary(&buf, result.Plan.Metrics)

		buf.WriteString("\nYear | Phase  | Commitment      | Secondaries     | PE              | VC              | Notes\n")
		buf.WriteString("____ | ______ | _______________ | _______________ | _______________ | _______________ | _____\n")
		for _, c := range result.Plan.Commitments {
			note := "manual"
			if !c.IsManual {
				note = ratioNote(c.Ratios)
			}
			fmt.Fprintf(&buf, "%d | %-6s | %15s | %15s | %15s | %15s | %s\n",
				c.Year, c.Phase, format.WholeCurrency(c.Amount),
				format.WholeCurrency(c.Breakdown.Secondaries), format.WholeCurrency(c.Breakdown.PE), format.WholeCurrency(c.Breakdown.VC),
				note)
		}

		buf.WriteString("\nYear | End Balance     | Calls           | Distributions   | Unfunded        | NAV             | Total Value\n")
		buf.WriteString("____ | _______________ | _______________ | _______________ | _______________ | _______________ | ___________\n")
		for _, row := range result.Plan.AnnualReport {
			fmt.Fprintf(&buf, "%d | %15s | %15s | %15s | %15s | %15s | %s\n",
				row.Year, format.WholeCurrency(row.EndBalance), format.WholeCurrency(row.Calls),
				format.WholeCurrency(row.Distributions), format.WholeCurrency(row.Unfunded),
				format.WholeCurrency(row.NAV), format.WholeCurrency(row.TotalValue))
		}

		if diagnostics && len(result.Plan.Diagnostics) > 0 {
			buf.WriteString("\nSearch diagnostics:\n")
			for _, summary := range result.Plan.Diagnostics {
				fmt.Fprintf(&buf, "  %d: bound %s, forced %s, searched %s, constraint %s",
					summary.Year, format.WholeCurrency(summary.Bound), format.WholeCurrency(summary.ForcedTotal),
					format.WholeCurrency(summary.Searched), summary.Constraint)
				if len(summary.Notes) > 0 {
					fmt.Fprintf(&buf, " (%s)", strings.Join(summary.Notes, "; "))
				}
				buf.WriteString("\n")
			}
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// ratioNote lists the ratios a commitment was split by.
func ratioNote(ratios portfolio.Ratios) string {
	parts := make([]string, 0, len(portfolio.Categories))
	for _, category := range portfolio.Categories {
		parts = append(parts, fmt.Sprintf("%s %s", category, format.Percent(ratios.Get(category))))
	}
	return strings.Join(parts, ", ")
}

func writeSummary(buf *bytes.Buffer, m portfolio.Metrics) {
	mode := "smoothed"
	if m.RelaxedConstraint {
		mode = "relaxed"
	}
	fmt.Fprintf(buf, "Total committed:      %s (%s)\n", format.WholeCurrency(m.TotalCommitted), mode)
	if m.RelaxedTotalCommitted != nil {
		fmt.Fprintf(buf, "Smoothed / relaxed:   %s / %s\n",
			format.WholeCurrency(m.SmoothedTotalCommitted), format.WholeCurrency(*m.RelaxedTotalCommitted))
	}
	fmt.Fprintf(buf, "Cash range:           %s to %s\n", format.WholeCurrency(m.MinCash), format.WholeCurrency(m.MaxCash))
	fmt.Fprintf(buf, "Fully committed:      %s\n", format.Year(m.FullyCommittedYear))
	fmt.Fprintf(buf, "Portfolio MOIC:       %s\n", format.Multiple(m.PortfolioMOIC))
	for _, category := range portfolio.Categories {
		fmt.Fprintf(buf, "  %-12s        %s\n", category, format.Multiple(m.CategoryMOIC[category]))
	}
	fmt.Fprintf(buf, "Final NAV / cash:     %s / %s\n", format.WholeCurrency(m.FinalNAV), format.WholeCurrency(m.FinalCash))
	fmt.Fprintf(buf, "Final total value:    %s\n", format.WholeCurrency(m.FinalTotalValue))
}

var csvHeader = []string{
	"scenario", "year", "committed", "secondaries", "pe", "vc",
	"calls", "distributions", "netCashflow", "endBalance", "unfunded", "nav",
	"cumulativeCommitments", "availableCash", "totalValue", "marketValue",
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(results []plan.Result) {
	_ = WriteCSV(os.Stdout, results)
}

// CsvString returns the CSV representation of results.
func CsvString(results []plan.Result) string {
	var buf bytes.Buffer
	_ = WriteCSV(&buf, results)
	return buf.String()
}

// WriteCSV writes one row per scenario and report year. Breakdown columns are
// empty outside the planning horizon.
func WriteCSV(w io.Writer, results []plan.Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, result := range results {
		if result.Plan == nil {
			continue
		}
		commitments := make(map[int]portfolio.Commitment, len(result.Plan.Commitments))
		for _, c := range result.Plan.Commitments {
			commitments[c.YearIndex] = c
		}
		for _, row := range result.Plan.AnnualReport {
			record := []string{result.Name, strconv.Itoa(row.Year), amount(row.Committed), "", "", ""}
			if c, ok := commitments[row.YearIndex]; ok {
				record[3] = amount(c.Breakdown.Secondaries)
				record[4] = amount(c.Breakdown.PE)
				record[5] = amount(c.Breakdown.VC)
			}
			record = append(record,
				amount(row.Calls), amount(row.Distributions), amount(row.NetCashflow),
				amount(row.EndBalance), amount(row.Unfunded), amount(row.NAV),
				amount(row.CumulativeCommitments), amount(row.AvailableCash),
				amount(row.TotalValue), amount(row.MarketValue),
			)
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WriteJSON writes results as indented JSON.
func WriteJSON(w io.Writer, results []plan.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

// WriteYAML writes results as YAML.
func WriteYAML(w io.Writer, results []plan.Result) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(results); err != nil {
		return err
	}
	return encoder.Close()
}
