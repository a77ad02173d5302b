package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
)

const admissionsFAQ = `[
  {"question": "What is the application deadline?", "answer": "The application deadline is March 1st."},
  {"question": "How much is the tuition fee?", "answer": "Tuition is $20,000 per year."},
  {"question": "Is there a hostel on campus?", "answer": "Yes, hostel accommodation is available for first-year students."},
  {"question": "Are scholarships available?", "answer": "Merit scholarships are available for top applicants."}
]`

// newProject creates a project directory with faqs.json, makes it the
// working directory and isolates user config and logs inside it.
func newProject(t *testing.T, faqs string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Chdir(dir)
	if faqs != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "faqs.json"), []byte(faqs), 0o644))
	}
	return dir
}

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	root := NewRootCmd()
	root.SetArgs(args)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetIn(strings.NewReader(stdin))
	err := root.ExecuteContext(context.Background())
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"serve", "mcp", "ask", "chat", "search", "entries", "validate", "config", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_InvalidProjectConfig(t *testing.T) {
	// Given: a project config with an out-of-range threshold
	dir := newProject(t, admissionsFAQ)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".faqmatch.yaml"), []byte("matcher:\n  threshold: 2\n"), 0o644))

	// When: running any command that needs configuration
	res := run(t, "", "ask", "deadline")

	// Then: the config error is returned
	require.Error(t, res.err)
	assert.Equal(t, apperrors.ErrCodeConfigInvalid, apperrors.GetCode(res.err))
}

func TestRootCmd_FaqsFlagOverridesConfig(t *testing.T) {
	// Given: a YAML corpus outside the default location
	dir := newProject(t, "")
	yamlPath := filepath.Join(dir, "data", "faqs.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(yamlPath), 0o755))
	require.NoError(t, os.WriteFile(yamlPath, []byte("- question: Where is the library?\n  answer: Next to the main gate.\n"), 0o644))

	// When: asking with --faqs
	res := run(t, "", "--faqs", "data/faqs.yaml", "ask", "where is the library")

	// Then: the answer comes from that file
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Next to the main gate.")
}

func TestVersionCmd_SkipsConfig(t *testing.T) {
	// Given: a broken project config
	dir := newProject(t, "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".faqmatch.yaml"), []byte("matcher:\n  threshold: 2\n"), 0o644))

	// When: printing the version
	res := run(t, "", "version", "--short")

	// Then: it still works
	require.NoError(t, res.err)
	assert.NotEmpty(t, strings.TrimSpace(res.stdout))
}
