package filescope

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/filescope/filescope/internal/query"
)

func emptyLookup(string) (string, bool) { return "", false }

func TestParseSortOrder(t *testing.T) {
	cases := []struct {
		raw  string
		want query.SortOrder
	}{
		{"", query.SortUnsorted},
		{"none", query.SortUnsorted},
		{"asc", query.SortAscending},
		{"Ascending", query.SortAscending},
		{"DESC", query.SortDescending},
		{"descending", query.SortDescending},
	}
	for _, tc := range cases {
		got, err := parseSortOrder(tc.raw)
		if err != nil {
			t.Fatalf("parseSortOrder(%q) error = %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("parseSortOrder(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
	if _, err := parseSortOrder("sideways"); err == nil {
		t.Fatal("expected error for invalid order")
	}
}

func TestRunViewRendersCSVPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.csv")
	contents := "id,label\n1,one\n2,two\n3,three\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}

	var out, errOut bytes.Buffer
	code := Run(context.Background(), []string{"view", path, "--page-size", "2"}, Options{
		Stdout: &out,
		Stderr: &errOut,
		Lookup: emptyLookup,
	})
	if code != 0 {
		t.Fatalf("Run() = %d, stderr = %s", code, errOut.String())
	}

	rendered := out.String()
	for _, want := range []string{"id (BIGINT)", "label (VARCHAR)", "one", "two", "page 1 of 2", "3 rows total"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("output missing %q:\n%s", want, rendered)
		}
	}
	if strings.Contains(rendered, "three") {
		t.Fatalf("row from the next page leaked into output:\n%s", rendered)
	}
}

func TestRunViewRejectsUnsupportedFile(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Run(context.Background(), []string{"view", "data.json"}, Options{
		Stdout: &out,
		Stderr: &errOut,
		Lookup: emptyLookup,
	})
	if code != 1 {
		t.Fatalf("Run() = %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "unsupported file type") {
		t.Fatalf("stderr = %q", errOut.String())
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Run(context.Background(), []string{"explode"}, Options{
		Stdout: &out,
		Stderr: &errOut,
		Lookup: emptyLookup,
	})
	if code != 1 {
		t.Fatalf("Run() = %d, want 1", code)
	}
}
