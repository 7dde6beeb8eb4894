// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ontoreg/ontoreg/internal/config"
	"github.com/ontoreg/ontoreg/internal/testutil"
)

// fixtureManifest declares the MI, MOD and SO test vocabularies.
var fixtureManifest = filepath.Join("..", "..", "pkg", "registry", "testdata", "ontologies.cue")

type (
	// fixedConfigProvider returns a copy of cfg, or err, on every Load.
	fixedConfigProvider struct {
		cfg *config.Config
		err error
	}

	// syncBuffer is a bytes.Buffer safe for a background writer.
	syncBuffer struct {
		mu  sync.Mutex
		buf bytes.Buffer
	}

	cliResult struct {
		stdout string
		stderr string
		err    error
	}
)

func (p fixedConfigProvider) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if p.err != nil {
		return nil, p.err
	}
	cfg := config.DefaultConfig()
	if p.cfg != nil {
		*cfg = *p.cfg
	}
	return cfg, nil
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newTestCLI builds a root command writing to the returned buffers.
func newTestCLI(provider ConfigProvider, stdout, stderr *syncBuffer, args ...string) (*App, func(context.Context) error) {
	app := NewApp(Dependencies{Config: provider, Stdout: stdout, Stderr: stderr})
	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return app, root.ExecuteContext
}

// runCLI executes one command line against cfg (defaults when nil).
func runCLI(t *testing.T, cfg *config.Config, args ...string) cliResult {
	t.Helper()
	var stdout, stderr syncBuffer
	_, execute := newTestCLI(fixedConfigProvider{cfg: cfg}, &stdout, &stderr, args...)
	err := execute(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// runFixture runs a command against the fixture manifest and fails the test
// on error.
func runFixture(t *testing.T, args ...string) string {
	t.Helper()
	res := runCLI(t, nil, append([]string{"--manifest", fixtureManifest}, args...)...)
	if res.err != nil {
		t.Fatalf("%s: %v\nstderr:\n%s", strings.Join(args, " "), res.err, res.stderr)
	}
	return res.stdout
}

// decodeJSON unmarshals command output into T.
func decodeJSON[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	return v
}

func accessionsOf(views []termView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Accession)
	}
	return out
}

// writeTwoVocabManifest creates a manifest with a loadable GOOD vocabulary
// and a BAD one whose resource is missing.
func writeTwoVocabManifest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.MustWriteFile(t, dir, "good.obo", testutil.OBO(
		testutil.OBOTerm{ID: "G:1", Name: "good root"},
		testutil.OBOTerm{ID: "G:2", Name: "good child", IsA: []string{"G:1"}},
	))
	return testutil.MustWriteFile(t, dir, "ontologies.cue", `vocabularies: [
	{id: "GOOD", loader: "obo", resource: "good.obo"},
	{id: "BAD", loader: "obo", resource: "missing.obo"},
]`)
}
