// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ontoreg/ontoreg/internal/config"
	"github.com/ontoreg/ontoreg/pkg/registry"
)

func TestVocabList(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		got := decodeJSON[[]registry.Summary](t, runFixture(t, "--json", "vocab", "list"))
		if len(got) != 3 {
			t.Fatalf("summaries = %+v", got)
		}
		for i, id := range []string{"MI", "MOD", "SO"} {
			if got[i].ID != id || !got[i].Loaded || got[i].Stats.Terms == 0 {
				t.Errorf("summary[%d] = %+v, want loaded %s", i, got[i], id)
			}
		}
	})

	t.Run("table", func(t *testing.T) {
		t.Parallel()
		out := runFixture(t, "vocab", "list")
		for _, want := range []string{"ID", "LOADER", "MI", "MOD", "SO", "cue", "loaded"} {
			if !strings.Contains(out, want) {
				t.Errorf("table missing %q:\n%s", want, out)
			}
		}
	})
}

func TestVocabList_SkipPolicy(t *testing.T) {
	t.Parallel()

	manifestPath := writeTwoVocabManifest(t)
	cfg := config.DefaultConfig()
	cfg.LoadPolicy = config.PolicySkip

	res := runCLI(t, cfg, "--manifest", manifestPath, "vocab", "list")
	if res.err != nil {
		t.Fatalf("vocab list: %v", res.err)
	}
	if !strings.Contains(res.stdout, "failed") || !strings.Contains(res.stdout, "BAD") {
		t.Errorf("output should report BAD as failed:\n%s", res.stdout)
	}

	res = runCLI(t, cfg, "--manifest", manifestPath, "vocab", "list", "--strict")
	var exitErr *ExitError
	if !errors.As(res.err, &exitErr) || exitErr.Code != ExitDegraded {
		t.Errorf("--strict error = %v, want exit code %d", res.err, ExitDegraded)
	}
}

func TestVocabShow(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		type showView struct {
			registry.Summary
			Diagnostics []diagnosticView `json:"diagnostics"`
		}
		got := decodeJSON[showView](t, runFixture(t, "--json", "vocab", "show", "SO"))
		if got.ID != "SO" || got.Stats.Terms == 0 || len(got.Files) == 0 {
			t.Errorf("show SO = %+v", got)
		}
		if got.Diagnostics == nil {
			t.Error("diagnostics should encode as a list")
		}
	})

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		out := runFixture(t, "vocab", "show", "MI")
		for _, want := range []string{"PSI-MI molecular interactions", "loader: obo", "terms:", "diagnostics:"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		res := runCLI(t, nil, "--manifest", fixtureManifest, "vocab", "show", "GO")
		if got := exitCodeFor(res.err); got != ExitNotFound {
			t.Errorf("exit code = %d, want %d (err %v)", got, ExitNotFound, res.err)
		}
	})
}
