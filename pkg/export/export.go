// Package export writes a ranked word list to disk as a text report and,
// optionally, CSV, JSON and YAML files sharing the report's name.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dtnitsch/wordrank/models"
	"github.com/dtnitsch/wordrank/pkg/storage"
	"gopkg.in/yaml.v3"
)

// DefaultReportName is used when the report path is an existing directory or
// when no path is given at all.
const DefaultReportName = "report.txt"

var csvHeader = []string{"rank", "word", "count"}

// Options selects which files are written. Each field controls one output.
type Options struct {
	Out       string // report path; "" means <OutputDir>/report.txt
	OutputDir string // used only when Out is empty
	CSV       bool
	JSON      bool
	YAML      bool
}

// Enabled reports whether any file should be written at all.
func (o Options) Enabled() bool {
	return o.Out != "" || o.CSV || o.JSON || o.YAML
}

// Paths lists the files written by Write. Empty fields were not written.
type Paths struct {
	Report string `json:"report,omitempty"`
	CSV    string `json:"csv,omitempty"`
	JSON   string `json:"json,omitempty"`
	YAML   string `json:"yaml,omitempty"`
}

type Exporter struct {
	storage *storage.Storage
}

func NewExporter(s *storage.Storage) *Exporter {
	if s == nil {
		s = &storage.Storage{}
	}
	return &Exporter{storage: s}
}

// Write saves the report and the formats selected in opts. Nothing is written
// unless opts.Enabled(). The report is always written when anything is.
func (e *Exporter) Write(report string, items []models.WordCount, opts Options) (Paths, error) {
	var paths Paths
	if !opts.Enabled() {
		return paths, nil
	}

	out := opts.Out
	if out == "" {
		dir := opts.OutputDir
		if dir == "" {
			dir = models.DefaultOutputDir
		}
		out = filepath.Join(dir, DefaultReportName)
	}
	reportPath := e.EnsureTxtPath(out)

	if err := e.storage.SaveFile(reportPath, []byte(report)); err != nil {
		return paths, fmt.Errorf("failed to save report: %w", err)
	}
	paths.Report = reportPath

	ranked := models.ToRanked(items)

	if opts.CSV {
		csvPath := withExt(reportPath, ".csv")
		if err := e.WriteCSV(ranked, csvPath); err != nil {
			return paths, err
		}
		paths.CSV = csvPath
	}

	if opts.JSON {
		jsonPath := withExt(reportPath, ".json")
		if err := e.WriteJSON(ranked, jsonPath); err != nil {
			return paths, err
		}
		paths.JSON = jsonPath
	}

	if opts.YAML {
		yamlPath := withExt(reportPath, ".yaml")
		if err := e.WriteYAML(ranked, yamlPath); err != nil {
			return paths, err
		}
		paths.YAML = yamlPath
	}

	return paths, nil
}

// EnsureTxtPath resolves the report path. A path without an extension is an
// existing directory (report.txt goes inside it) or a file name that gets
// ".txt" appended. A path with an extension is returned unchanged.
func (e *Exporter) EnsureTxtPath(out string) string {
	if ext(out) != "" {
		return out
	}
	if e.storage.IsDir(out) {
		return filepath.Join(out, DefaultReportName)
	}
	return strings.TrimRight(out, `/\`) + ".txt"
}

// ext returns the extension of the last path element. A leading dot names a
// hidden file and a trailing dot is not an extension, so ".report" and
// "report." have none.
func ext(path string) string {
	base := filepath.Base(path)
	e := filepath.Ext(base)
	if e == base || e == "." {
		return ""
	}
	return e
}

func withExt(path, newExt string) string {
	return strings.TrimSuffix(path, ext(path)) + newExt
}

// EncodeCSV writes the header rank,word,count followed by one row per item.
func EncodeCSV(w io.Writer, items []models.RankedWord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, item := range items {
		row := []string{strconv.Itoa(item.Rank), item.Word, strconv.Itoa(item.Count)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (e *Exporter) WriteCSV(items []models.RankedWord, path string) error {
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, items); err != nil {
		return err
	}
	if err := e.storage.SaveFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to save CSV: %w", err)
	}
	return nil
}

// ReadCSV parses a file written by WriteCSV.
func (e *Exporter) ReadCSV(path string) ([]models.RankedWord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()
	return DecodeCSV(f)
}

// DecodeCSV parses rank,word,count rows. The header row is required.
func DecodeCSV(r io.Reader) ([]models.RankedWord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("failed to parse CSV: missing header")
	}
	for i, name := range csvHeader {
		if records[0][i] != name {
			return nil, fmt.Errorf("failed to parse CSV: unexpected header %v", records[0])
		}
	}

	items := make([]models.RankedWord, 0, len(records)-1)
	for line, record := range records[1:] {
		rank, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("CSV row %d: invalid rank %q: %w", line+2, record[0], err)
		}
		count, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("CSV row %d: invalid count %q: %w", line+2, record[2], err)
		}
		items = append(items, models.RankedWord{Rank: rank, Word: record[1], Count: count})
	}
	return items, nil
}

func (e *Exporter) WriteJSON(items []models.RankedWord, path string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("error marshalling JSON: %w", err)
	}
	if err := e.storage.SaveFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to save JSON: %w", err)
	}
	return nil
}

func (e *Exporter) WriteYAML(items []models.RankedWord, path string) error {
	data, err := yaml.Marshal(items)
	if err != nil {
		return fmt.Errorf("error marshalling YAML: %w", err)
	}
	if err := e.storage.SaveFile(path, data); err != nil {
		return fmt.Errorf("failed to save YAML: %w", err)
	}
	return nil
}
