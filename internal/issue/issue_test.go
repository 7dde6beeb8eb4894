// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"

	"github.com/charmbracelet/glamour"
)

var allIds = []Id{
	ManifestNotFoundId,
	ManifestParseErrorId,
	VocabularyNotFoundId,
	DictionaryLoadFailedId,
	ConfigLoadFailedId,
	TermNotFoundId,
}

func TestId_Constants(t *testing.T) {
	t.Parallel()

	seen := make(map[Id]bool)
	for _, id := range allIds {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}
	if ManifestNotFoundId != 1 {
		t.Errorf("ManifestNotFoundId = %d, want 1", ManifestNotFoundId)
	}
}

func TestCatalogCompleteness(t *testing.T) {
	t.Parallel()

	for _, id := range allIds {
		issue := Get(id)
		if issue == nil {
			t.Errorf("Get(%d) returned nil", id)
			continue
		}
		if issue.Id() != id {
			t.Errorf("issue.Id() = %d, want %d", issue.Id(), id)
		}
		if issue.Title() == "" || strings.TrimSpace(string(issue.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no content", id)
		}
		if !strings.HasPrefix(strings.TrimSpace(string(issue.MarkdownMsg())), "# ") {
			t.Errorf("issue %d should start with a heading", id)
		}
	}
	if len(issues) != len(allIds) {
		t.Errorf("catalog has %d entries, want %d", len(issues), len(allIds))
	}
	if Get(Id(999)) != nil {
		t.Error("Get(unknown) should return nil")
	}
}

func TestValues_Ordered(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != len(allIds) {
		t.Fatalf("Values() returned %d issues", len(values))
	}
	for i, issue := range values {
		if issue.Id() != allIds[i] {
			t.Errorf("Values()[%d] = %d, want %d", i, issue.Id(), allIds[i])
		}
	}
}

func TestIssue_LinksAreCopies(t *testing.T) {
	t.Parallel()

	issue := Get(ManifestNotFoundId)
	links := issue.ExtLinks()
	if len(links) == 0 {
		t.Fatal("expected external links")
	}
	links[0] = "mutated"
	if issue.ExtLinks()[0] == "mutated" {
		t.Error("ExtLinks must return a copy")
	}
}

func TestIssue_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	var gotStyle string
	render = func(in, stylePath string) (string, error) {
		gotStyle = stylePath
		return in, nil
	}

	rendered, err := Get(DictionaryLoadFailedId).Render("notty")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if gotStyle != "notty" {
		t.Errorf("style = %q", gotStyle)
	}
	if !strings.Contains(rendered, "load_policy") {
		t.Error("rendered output should contain the page body")
	}
	if !strings.Contains(rendered, "## See also") || !strings.Contains(rendered, "oboformat") {
		t.Errorf("rendered output should list links:\n%s", rendered)
	}

	plain, _ := Get(TermNotFoundId).Render("notty")
	if strings.Contains(plain, "See also") {
		t.Error("issues without links should not render a See also section")
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	t.Parallel()

	for _, issue := range Values() {
		out, err := glamour.Render(string(issue.MarkdownMsg()), "notty")
		if err != nil {
			t.Errorf("issue %d: %v", issue.Id(), err)
		}
		if strings.TrimSpace(out) == "" {
			t.Errorf("issue %d rendered empty", issue.Id())
		}
	}
}
