package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtnitsch/wordrank/models"
	"github.com/dtnitsch/wordrank/pkg/export"
	"github.com/urfave/cli/v2"
)

type result struct {
	code   int
	stdout string
	stderr string
	logDir string
}

func run(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	logDir := t.TempDir()

	a := New(&stdout, &stderr)
	argv := append([]string{"wordrank", "--log-dir", logDir}, args...)
	err := a.Run(argv)

	code := 0
	if err != nil {
		code = 1
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
	}
	return result{code: code, stdout: stdout.String(), stderr: stderr.String(), logDir: logDir}
}

func TestRankText(t *testing.T) {
	res := run(t, "--text", "ola ola mundo", "--n", "2")
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr %q", res.code, res.stderr)
	}
	want := "Top 2 most common words:\n1. ola -> 2\n2. mundo -> 1\n\n"
	if res.stdout != want {
		t.Errorf("stdout = %q, want %q", res.stdout, want)
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
	}{
		{name: "n zero", args: []string{"--text", "ola", "--n", "0"}, wantCode: 1, wantStdout: "--n must be greater than 0"},
		{name: "n negative", args: []string{"--text", "ola", "--n", "-3"}, wantCode: 1, wantStdout: "--n must be greater than 0"},
		{name: "blank text", args: []string{"--text", "   "}, wantCode: 1, wantStdout: "no text provided"},
		{name: "only separator controls", args: []string{"--text", "\x1c\x1f", "--n", "3"}, wantCode: 1, wantStdout: "no text provided"},
		{name: "missing file", args: []string{"--input", "does-not-exist.txt"}, wantCode: 1, wantStdout: "no text provided"},
		{name: "no source", args: []string{"--n", "3"}, wantCode: 2},
		{name: "two sources", args: []string{"--text", "ola", "--input", "x.txt"}, wantCode: 2},
		{name: "unknown flag", args: []string{"--bogus"}, wantCode: 2},
		{name: "n not a number", args: []string{"--text", "ola", "--n", "many"}, wantCode: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.args...)
			if res.code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (stdout %q, stderr %q)", res.code, tt.wantCode, res.stdout, res.stderr)
			}
			if tt.wantStdout != "" && !strings.Contains(res.stdout, tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", res.stdout, tt.wantStdout)
			}
		})
	}
}

func TestMissingFileIsLogged(t *testing.T) {
	res := run(t, "--input", "does-not-exist.txt")
	if res.code != 1 {
		t.Fatalf("exit code = %d, want 1", res.code)
	}
	content, err := os.ReadFile(filepath.Join(res.logDir, "wordrank.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(content), "file not found") {
		t.Errorf("log does not mention missing file: %s", content)
	}
	if !strings.Contains(res.stderr, "file not found") {
		t.Errorf("stderr does not show the error: %q", res.stderr)
	}
}

func TestRankFileLatin1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.txt")
	// "ação ação fim" in ISO-8859-1
	data := []byte{'a', 0xe7, 0xe3, 'o', ' ', 'a', 0xe7, 0xe3, 'o', ' ', 'f', 'i', 'm'}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	res := run(t, "--input", path, "--n", "5")
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr %q", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "1. acao -> 2\n2. fim -> 1\n") {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestRankHTMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	html := `<html><body><script>var hidden = 1;</script><p>Ola ola mundo</p></body></html>`
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		t.Fatal(err)
	}

	res := run(t, "--input", path, "--n", "5")
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr %q", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "1. ola -> 2\n") {
		t.Errorf("stdout = %q", res.stdout)
	}
	if strings.Contains(res.stdout, "hidden") {
		t.Errorf("script text leaked into ranking: %q", res.stdout)
	}
}

func TestExportFiles(t *testing.T) {
	outDir := t.TempDir()
	out := filepath.Join(outDir, "result")

	res := run(t, "--text", "b a b c", "--n", "2", "--out", out, "--csv", "--json", "--yaml")
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr %q", res.code, res.stderr)
	}

	report, err := os.ReadFile(out + ".txt")
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if string(report) != "Top 2 most common words:\n1. b -> 2\n2. a -> 1\n" {
		t.Errorf("report = %q", report)
	}

	items, err := export.NewExporter(nil).ReadCSV(out + ".csv")
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(items) != 2 || items[0] != (models.RankedWord{Rank: 1, Word: "b", Count: 2}) {
		t.Errorf("csv items = %+v", items)
	}

	var jsonItems []models.RankedWord
	data, err := os.ReadFile(out + ".json")
	if err != nil {
		t.Fatalf("json not written: %v", err)
	}
	if err := json.Unmarshal(data, &jsonItems); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if len(jsonItems) != 2 || jsonItems[1].Word != "a" {
		t.Errorf("json items = %+v", jsonItems)
	}

	if _, err := os.Stat(out + ".yaml"); err != nil {
		t.Errorf("yaml not written: %v", err)
	}
}

func TestExportIntoExistingDirectory(t *testing.T) {
	outDir := t.TempDir()

	res := run(t, "--text", "ola", "--out", outDir)
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr %q", res.code, res.stderr)
	}
	if _, err := os.Stat(filepath.Join(outDir, export.DefaultReportName)); err != nil {
		t.Errorf("report.txt not written inside directory: %v", err)
	}
}

func TestConfigDefaultN(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "wordrank.yaml")
	if err := os.WriteFile(cfgPath, []byte("default_n: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := run(t, "--config", cfgPath, "--text", "ola ola mundo")
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr %q", res.code, res.stderr)
	}
	if res.stdout != "Top 1 most common words:\n1. ola -> 2\n\n" {
		t.Errorf("stdout = %q", res.stdout)
	}

	// An explicit --n wins over the config.
	res = run(t, "--config", cfgPath, "--text", "ola ola mundo", "--n", "2")
	if !strings.HasPrefix(res.stdout, "Top 2 most common words:") {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestConfigErrors(t *testing.T) {
	res := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "--text", "ola")
	if res.code != 1 {
		t.Errorf("missing explicit config: exit code = %d, want 1", res.code)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("default_n: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res = run(t, "--config", bad, "--text", "ola")
	if res.code != 1 || !strings.Contains(res.stderr, "default_n") {
		t.Errorf("invalid config: exit code = %d, stderr %q", res.code, res.stderr)
	}
}

func TestJournalAndRuns(t *testing.T) {
	journal := filepath.Join(t.TempDir(), "runs.db")

	res := run(t, "--journal", journal, "--text", "ola ola mundo", "--n", "2")
	if res.code != 0 {
		t.Fatalf("rank: exit code = %d, stderr %q", res.code, res.stderr)
	}

	res = run(t, "--journal", journal, "runs")
	if res.code != 0 {
		t.Fatalf("runs: exit code = %d, stderr %q", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "Total: 1 runs") {
		t.Errorf("runs stdout = %q", res.stdout)
	}

	res = run(t, "--journal", journal, "runs", "show")
	if res.code != 0 {
		t.Fatalf("runs show: exit code = %d, stderr %q", res.code, res.stderr)
	}
	for _, want := range []string{"text", "Distinct tokens"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("runs show stdout missing %q: %q", want, res.stdout)
		}
	}
	if strings.Contains(res.stdout, "mundo") {
		t.Errorf("journal must not store words: %q", res.stdout)
	}

	res = run(t, "--journal", journal, "runs", "show", "zzzz")
	if res.code != 1 {
		t.Errorf("runs show unknown: exit code = %d, want 1", res.code)
	}

	res = run(t, "--journal", journal, "runs", "prune", "--older-than", "1h")
	if res.code != 0 || !strings.Contains(res.stdout, "Deleted 0 runs") {
		t.Errorf("prune: exit code = %d, stdout %q", res.code, res.stdout)
	}

	res = run(t, "--journal", journal, "runs", "prune", "--older-than", "soon")
	if res.code != 2 {
		t.Errorf("prune bad duration: exit code = %d, want 2", res.code)
	}
}

func TestRunsWithoutJournal(t *testing.T) {
	res := run(t, "runs")
	if res.code != 1 || !strings.Contains(res.stderr, "journal is disabled") {
		t.Errorf("exit code = %d, stderr %q", res.code, res.stderr)
	}
}

func TestStatsCommand(t *testing.T) {
	res := run(t, "stats", "--text", "Olá mundo!\nIsto é Python.", "--json")
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr %q", res.code, res.stderr)
	}
	var stats models.TextStats
	if err := json.Unmarshal([]byte(res.stdout), &stats); err != nil {
		t.Fatalf("decode %q: %v", res.stdout, err)
	}
	want := models.TextStats{Chars: 25, CharsWithoutSpace: 21, Words: 5, Lines: 2, Vowels: 9}
	if stats.Chars != want.Chars || stats.CharsWithoutSpace != want.CharsWithoutSpace ||
		stats.Words != want.Words || stats.Lines != want.Lines || stats.Vowels != want.Vowels {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}

	res = run(t, "stats", "--text", "ola")
	if res.code != 0 || !strings.Contains(res.stdout, "Vowels") {
		t.Errorf("table output: exit code = %d, stdout %q", res.code, res.stdout)
	}

	res = run(t, "stats")
	if res.code != 2 {
		t.Errorf("stats without source: exit code = %d, want 2", res.code)
	}
}

func TestQuickstart(t *testing.T) {
	res := run(t, "quickstart")
	if res.code != 0 || !strings.Contains(res.stdout, "wordrank Quick Start") {
		t.Errorf("exit code = %d, stdout %q", res.code, res.stdout)
	}
}
