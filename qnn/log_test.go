package qnn

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/cwbudde/algo-qnn/internal/cpu"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(io.MultiWriter(&buf, zerolog.NewTestWriter(t)))
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestUnsupportedHardwareLogged(t *testing.T) {
	buf := captureLog(t)

	if _, err := newParameters(cpu.Features{Family: cpu.FamilyARM64, Architecture: "arm64"}); err == nil {
		t.Fatal("expected error for ARM64 host without NEON")
	}

	out := buf.String()
	if !strings.Contains(out, `"level":"error"`) || !strings.Contains(out, `"family":"arm64"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
}

func TestParametersLogged(t *testing.T) {
	buf := captureLog(t)

	if _, err := newParameters(x86Host); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"kernels":`) {
		t.Fatalf("missing kernels field: %s", buf.String())
	}
}
