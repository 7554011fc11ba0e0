package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
)

// Output formats
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown format %q (supported: table, json, yaml)", format)
	}
}

// render writes result to w in the requested format
func render(w io.Writer, result *pipeline.Result, format string) error {
	body, err := result.Body()
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if format == formatJSON {
		var out bytes.Buffer
		if err := json.Indent(&out, body, "", "  "); err != nil {
			return fmt.Errorf("indent JSON: %w", err)
		}
		out.WriteByte('\n')
		_, err := w.Write(out.Bytes())
		return err
	}

	var resp model.ScoreResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}

	if format == formatYAML {
		data, err := yaml.Marshal(&resp)
		if err != nil {
			return fmt.Errorf("marshal YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	}

	return renderTable(w, &resp, result.Provenance)
}

// renderTable prints the criteria table followed by the composite summary
func renderTable(w io.Writer, resp *model.ScoreResponse, provenance string) error {
	if resp.Title != "" {
		fmt.Fprintf(w, "%s\n", color.New(color.Bold).Sprint(resp.Title))
	}
	fmt.Fprintf(w, "%s\n\n", resp.URL)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Criterion", "Score", "Weight", "Details"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, c := range resp.Categories {
		data = append(data, []string{
			c.Label,
			scoreColor(c.Score).Sprint(strconv.Itoa(c.Score)),
			strconv.FormatFloat(c.Weight, 'f', 3, 64),
			c.Details,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total:          %s/100\n", scoreColor(resp.Total).Sprint(resp.Total))
	if resp.RFProb != nil {
		fmt.Fprintf(w, "RF probability: %.2f\n", *resp.RFProb)
	}
	if resp.ClassificationLabel != "" {
		label := color.New(color.FgRed, color.Bold)
		if resp.ClassificationLabel == model.LabelTrue {
			label = color.New(color.FgGreen, color.Bold)
		}
		fmt.Fprintf(w, "Classification: %s\n", label.Sprint(resp.ClassificationLabel))
	}
	if resp.ModelVersion != "" {
		fmt.Fprintf(w, "Model:          %s (%s)\n", resp.ModelVersion, provenance)
	}
	if resp.Notes != "" {
		fmt.Fprintf(w, "Notes:          %s\n", resp.Notes)
	}
	return nil
}

func scoreColor(score int) *color.Color {
	switch {
	case score >= 70:
		return color.New(color.FgGreen)
	case score >= 40:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}
