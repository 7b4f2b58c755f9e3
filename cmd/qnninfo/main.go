// Command qnninfo prints the host capabilities, the kernel configuration
// selected by qnn.Initialize and, optionally, the result of a pooling
// self-check.
//
// Usage:
//
//	qnninfo [flags]
//
// Examples:
//
//	qnninfo
//	qnninfo -tiers
//	qnninfo -generic -verify
//	qnninfo -v
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cwbudde/algo-qnn/internal/cpu"
	"github.com/cwbudde/algo-qnn/internal/kernels"
	"github.com/cwbudde/algo-qnn/qnn"
	"github.com/cwbudde/algo-qnn/qnn/gavgpool/conformance"
)

func main() {
	forceGeneric := flag.Bool("generic", false, "select the portable kernel tier regardless of hardware")
	verbose := flag.Bool("v", false, "enable debug logging")
	tiers := flag.Bool("tiers", false, "list registered kernel tiers")
	verify := flag.Bool("verify", false, "run the global average pooling self-check")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: qnninfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints host capabilities and the selected quantized kernels.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		fmt.Fprintf(os.Stderr, "  %s=1  same as -generic\n", cpu.ForceGenericEnv)
	}
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	if *forceGeneric {
		f := cpu.DetectFeatures()
		f.ForceGeneric = true
		cpu.SetForcedFeatures(f)
	}

	params, err := qnn.Initialize()
	if err != nil {
		log.Error().Err(err).Stringer("status", qnn.StatusOf(err)).Msg("initialization failed")
		os.Exit(1)
	}
	defer func() { _ = qnn.Deinitialize() }()

	if err := printParameters(os.Stdout, params); err != nil {
		log.Error().Err(err).Msg("failed to write output")
		os.Exit(1)
	}

	if *tiers {
		if err := printTiers(os.Stdout, params.Features); err != nil {
			log.Error().Err(err).Msg("failed to write output")
			os.Exit(1)
		}
	}

	if *verify {
		start := time.Now()
		testers := selfCheck(params)
		if err := conformance.Sweep(context.Background(), testers, runtime.GOMAXPROCS(0)); err != nil {
			log.Error().Err(err).Msg("self-check failed")
			os.Exit(1)
		}
		log.Info().Int("problems", len(testers)).Dur("elapsed", time.Since(start)).Msg("self-check passed")
	}
}

func printParameters(w io.Writer, p *qnn.Parameters) error {
	f := p.Features
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	rows := [][2]string{
		{"Architecture", f.Architecture},
		{"Family", f.Family.String()},
		{"Vendor", f.Vendor},
		{"Brand", f.Brand},
		{"Cores", fmt.Sprint(f.Cores)},
		{"Uarch", f.Uarch.String()},
		{"SSE2", fmt.Sprint(f.HasSSE2)},
		{"NEON", fmt.Sprint(f.HasNEON)},
		{"Force generic", fmt.Sprint(f.ForceGeneric)},
		{"State", qnn.CurrentState().String()},
		{"Kernels", p.Kernels},
		{"Conv tile (mr/nr/kr)", fmt.Sprintf("%d/%d/%d", p.Conv.MR, p.Conv.NR, p.Conv.KR)},
		{"XZP tile (mr/nr/kr/kc)", xzpTile(p.XZP)},
		{"XZP threshold", threshold(p.XZP.KThreshold)},
		{"Depthwise cr (9/25)", fmt.Sprintf("%d/%d", p.DW9.CR, p.DW25.CR)},
		{"Sum rows m", unset(p.SumRows.M)},
		{"GAvgPool tile (mr/nr)", fmt.Sprintf("%d/%d", p.GAvgPool.MR, p.GAvgPool.NR)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func printTiers(w io.Writer, f cpu.Features) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "\nTier\tSIMD\tPriority\tUsable\n----\t----\t--------\t------\n"); err != nil {
		return err
	}
	for _, e := range kernels.Tiers() {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%d\t%v\n", e.Name, e.SIMDLevel, e.Priority, cpu.Supports(f, e.SIMDLevel)); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	preferred := "none"
	if e := kernels.Preferred(f); e != nil {
		preferred = e.Name
	}
	_, err := fmt.Fprintf(w, "\nPreferred tier: %s\n", preferred)
	return err
}

// selfCheck builds pooling problems around the tile boundaries of p.
func selfCheck(p *qnn.Parameters) []*conformance.Tester {
	mr, nr := p.GAvgPool.MR, p.GAvgPool.NR
	var testers []*conformance.Tester
	for _, channels := range []int{1, nr - 1, nr, nr + 1, 3 * nr} {
		for _, width := range []int{1, mr - 1, mr, mr + 1, 4 * mr} {
			for _, scale := range conformance.ScaleSweep() {
				testers = append(testers, conformance.New().
					BatchSize(2).
					Width(width).
					Channels(channels).
					InputStride(5*nr).
					InputScale(scale))
			}
		}
	}
	return testers
}

func xzpTile(x qnn.XZPParameters) string {
	if x.GEMM == nil {
		return "unset"
	}
	return fmt.Sprintf("%d/%d/%d/%d", x.MR, x.NR, x.KR, x.KC)
}

func threshold(k int) string {
	if k == qnn.Unbounded {
		return "unbounded"
	}
	return fmt.Sprint(k)
}

func unset(v int) string {
	if v == 0 {
		return "unset"
	}
	return fmt.Sprint(v)
}
