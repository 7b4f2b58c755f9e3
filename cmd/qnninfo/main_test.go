package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/algo-qnn/internal/cpu"
	"github.com/cwbudde/algo-qnn/qnn"
	"github.com/cwbudde/algo-qnn/qnn/gavgpool/conformance"
)

func TestPrintParameters(t *testing.T) {
	p, err := qnn.Initialize()
	if err != nil {
		t.Skipf("host not supported: %v", err)
	}

	var buf bytes.Buffer
	if err := printParameters(&buf, p); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Family", "Kernels", "GAvgPool tile (mr/nr)", "7/8"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintTiers(t *testing.T) {
	var buf bytes.Buffer
	if err := printTiers(&buf, cpu.Features{ForceGeneric: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "generic") {
		t.Fatalf("output missing generic tier:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "Preferred tier: generic") {
		t.Fatalf("forced generic host must prefer the generic tier:\n%s", buf.String())
	}
}

func TestSelfCheck(t *testing.T) {
	p, err := qnn.Initialize()
	if err != nil {
		t.Skipf("host not supported: %v", err)
	}
	testers := selfCheck(p)
	if len(testers) != 5*5*len(conformance.ScaleSweep()) {
		t.Fatalf("len = %d", len(testers))
	}
	for _, tt := range testers[:10] {
		tt.TestQ8(t)
	}
}

func TestFormatting(t *testing.T) {
	if threshold(qnn.Unbounded) != "unbounded" || threshold(64) != "64" {
		t.Fatal("threshold formatting")
	}
	if unset(0) != "unset" || unset(4) != "4" {
		t.Fatal("unset formatting")
	}
	if xzpTile(qnn.XZPParameters{}) != "unset" {
		t.Fatal("xzp formatting")
	}
}
