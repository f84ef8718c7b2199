package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/popchart/pkg/chart"
	"github.com/matzehuels/popchart/pkg/dataset"
)

func testLayout(t *testing.T) chart.Layout {
	t.Helper()
	ds := dataset.Dataset{
		{Country: "China", Population: 1_400_000_000},
		{Country: "India", Population: 1_380_000_000},
	}
	l, err := chart.Build(ds, chart.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestScaleSummary(t *testing.T) {
	got := map[string]string{}
	for _, kv := range scaleSummary(testLayout(t)) {
		got[kv[0]] = kv[1]
	}

	want := map[string]string{
		"Surface":    "900 × 600",
		"Inner area": "630 × 480",
		"Domain":     "[0, 1,400,000,000]",
		"Band step":  "240.00",
		"Bandwidth":  "168.00",
		"Padding":    "0.3",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestBandTable(t *testing.T) {
	out := bandTable(testLayout(t))
	for _, want := range []string{"Country", "China", "India", "1,400,000,000", "36.00", "630.00", "621.00", "120.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("band table missing %q:\n%s", want, out)
		}
	}
}

func TestTickTable(t *testing.T) {
	out := tickTable(testLayout(t))
	for _, want := range []string{"Tick", "0.0", "1.4B"} {
		if !strings.Contains(out, want) {
			t.Errorf("tick table missing %q:\n%s", want, out)
		}
	}
}

func TestScaleCommand(t *testing.T) {
	out := captureStdout(t)
	if err := runCLI(t, "scale", testCSV, "--no-cache"); err != nil {
		t.Fatalf("scale: %v", err)
	}
	for _, want := range []string{"Band step", "Inner area", "China", "Mexico"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("scale output missing %q", want)
		}
	}
}
