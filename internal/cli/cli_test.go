package cli

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jwulff/folio/internal/audit"
	"github.com/jwulff/folio/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

const reportJSON = `{
  "overallScore": 81,
  "summary": "Solid testing narrative.",
  "categories": [
    {"name": "Iteration", "score": 4, "reasoning": "uses trials",
     "evidence": ["5 trials at 70% power"], "gaps": ["no chart"], "suggestions": ["add a chart"]}
  ],
  "waterDetection": [],
  "checklist": {"today": ["label axes"], "thisWeek": [], "beforeSeason": []}
}`

type stubGenerator struct {
	out  string
	reqs []gateway.Request
}

func (g *stubGenerator) Generate(_ context.Context, req gateway.Request) (string, error) {
	g.reqs = append(g.reqs, req)
	return g.out, nil
}

func (g *stubGenerator) Name() string { return "stub" }
func (g *stubGenerator) Close() error { return nil }

// useStub routes every generator built by the commands to g.
func useStub(t *testing.T, g *stubGenerator) {
	t.Helper()
	prev := newGenerator
	newGenerator = func(context.Context, string, string) (gateway.Generator, error) { return g, nil }
	t.Cleanup(func() { newGenerator = prev })
}

// isolate points config, data and keys at a fresh temp dir and returns the
// database path to pass via --db.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{"FOLIO_PROVIDER", "FOLIO_DB", "GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY", "OPENAI_API_KEY"} {
		t.Setenv(k, "")
	}
	return filepath.Join(dir, "folio.sqlite")
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := run(t, "", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "engineering portfolios")
	for _, sub := range []string{"analyze", "rewrite", "history"} {
		assert.Contains(t, out, sub)
	}
}

func TestAnalyzeSavesAndPrints(t *testing.T) {
	dbPath := isolate(t)
	g := &stubGenerator{out: reportJSON}
	useStub(t, g)

	out, err := run(t, "We ran 5 trials at 70% power.", "--db", dbPath, "analyze", "--program", "frc")
	require.NoError(t, err)
	assert.Contains(t, out, "Overall: 81 / 100 (Award Contender)")
	assert.Contains(t, out, "### Iteration")

	require.Len(t, g.reqs, 1)
	assert.NotNil(t, g.reqs[0].Schema)
	assert.Contains(t, g.reqs[0].Prompt, "We ran 5 trials at 70% power.")

	out, err = run(t, "", "--db", dbPath, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "FRC")
	assert.Contains(t, out, "81.0")
	assert.Contains(t, out, audit.FileNamePrefix)
}

func TestAnalyzeFromFileAsJSON(t *testing.T) {
	dbPath := isolate(t)
	useStub(t, &stubGenerator{out: reportJSON})

	src := filepath.Join(t.TempDir(), "portfolio.txt")
	require.NoError(t, os.WriteFile(src, []byte("portfolio text"), 0o644))

	out, err := run(t, "", "--db", dbPath, "analyze", "--json", src)
	require.NoError(t, err)
	assert.Contains(t, out, `"program": "FTC"`)
	assert.Contains(t, out, `"fileName": "Protocol_`)
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	dbPath := isolate(t)
	g := &stubGenerator{out: reportJSON}
	useStub(t, g)

	_, err := run(t, "text", "--db", dbPath, "analyze", "--program", "VEX")
	assert.ErrorIs(t, err, audit.ErrValidation)

	_, err = run(t, "   ", "--db", dbPath, "analyze")
	assert.ErrorIs(t, err, audit.ErrValidation)
	assert.Empty(t, g.reqs)
}

func TestAnalyzeRejectsMalformedReport(t *testing.T) {
	dbPath := isolate(t)
	useStub(t, &stubGenerator{out: `{"overallScore": 50}`})

	_, err := run(t, "text", "--db", dbPath, "analyze")
	assert.ErrorIs(t, err, audit.ErrAnalysis)

	out, err := run(t, "", "--db", dbPath, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved audits.")
}

func TestRewrite(t *testing.T) {
	isolate(t)
	g := &stubGenerator{out: "  Cut jam rate from 30% to 5%.\n"}
	useStub(t, g)

	out, err := run(t, "", "rewrite", "--tone", "concise", "We", "fixed", "jams.")
	require.NoError(t, err)
	assert.Equal(t, "Cut jam rate from 30% to 5%.\n", out)
	require.Len(t, g.reqs, 1)
	assert.Nil(t, g.reqs[0].Schema)
	assert.Contains(t, g.reqs[0].Prompt, `"We fixed jams."`)

	_, err = run(t, "", "rewrite", "--tone", "loud", "x")
	assert.ErrorIs(t, err, audit.ErrValidation)
}

func TestHistoryLifecycle(t *testing.T) {
	dbPath := isolate(t)
	useStub(t, &stubGenerator{out: reportJSON})

	_, err := run(t, "one", "--db", dbPath, "analyze")
	require.NoError(t, err)
	_, err = run(t, "two", "--db", dbPath, "analyze", "-p", "FLL")
	require.NoError(t, err)

	exportPath := filepath.Join(t.TempDir(), "history.json")
	_, err = run(t, "", "--db", dbPath, "history", "export", exportPath)
	require.NoError(t, err)
	raw, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"program": "FLL"`)

	out, err := run(t, "", "--db", dbPath, "history", "export")
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), out)

	// Import into a fresh database, then again to check duplicates are skipped.
	other := filepath.Join(t.TempDir(), "other.sqlite")
	out, err = run(t, "", "--db", other, "history", "import", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 audit(s).")
	out, err = run(t, "", "--db", other, "history", "import", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 audit(s).")

	out, err = run(t, "", "--db", dbPath, "history", "rm", "nope")
	require.NoError(t, err)
	assert.Contains(t, out, "No audit with id nope.")

	// Pull an id out of the listing and remove it.
	out, err = run(t, "", "--db", dbPath, "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "2 audit(s), last saved ")
	id := strings.Fields(lines[3])[0]

	out, err = run(t, "", "--db", dbPath, "history", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "## Action Plan")

	out, err = run(t, "", "--db", dbPath, "history", "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, "(1 left)")

	_, err = run(t, "", "--db", dbPath, "history", "show", id)
	assert.ErrorIs(t, err, audit.ErrValidation)
}

func TestEmptyInputIsValidationErrorWithoutProvider(t *testing.T) {
	dbPath := isolate(t)

	_, err := run(t, "   ", "--db", dbPath, "analyze", "-")
	assert.ErrorIs(t, err, audit.ErrValidation)

	_, err = run(t, "\n", "--db", dbPath, "rewrite", "-")
	assert.ErrorIs(t, err, audit.ErrValidation)
}

func TestHistoryRecoverCorruptPayload(t *testing.T) {
	dbPath := isolate(t)

	out, err := run(t, "", "--db", dbPath, "history", "recover")
	require.NoError(t, err)
	assert.Contains(t, out, "No unreadable history to recover.")

	raw, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = raw.Exec(`INSERT INTO kv(key, value, updatedAt) VALUES('audit_history', '[{"id": broken', 0)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	out, err = run(t, "", "--db", dbPath, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "warning: an unreadable history was set aside")
	assert.Contains(t, out, "No saved audits.")

	dest := filepath.Join(t.TempDir(), "recovered.json")
	_, err = run(t, "", "--db", dbPath, "history", "recover", dest)
	require.NoError(t, err)
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, `[{"id": broken`, string(got))
}

func TestConfigInit(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "folio", "config.yaml")

	out, err := run(t, "", "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "provider: gemini")

	_, err = run(t, "", "--config", path, "config", "init")
	assert.Error(t, err)

	_, err = run(t, "", "--config", path, "config", "init", "--force")
	require.NoError(t, err)

	out, err = run(t, "", "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
}
