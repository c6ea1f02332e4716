package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"

	"github.com/nativert/rtaccount"
	"github.com/nativert/rtaccount/types"
)

type options struct {
	configPath string
	wasmPath   string
	grow       uint
	reserveMiB int
	commitMiB  int
	sampleFor  time.Duration
}

// This is just a demo exercising the ledger end to end: reserve and commit
// memory, optionally run a Wasm module and grow its memory, then report.
func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to a JSON config file")
	flag.StringVar(&opts.wasmPath, "wasm", "", "Wasm module to instantiate")
	flag.UintVar(&opts.grow, "grow", 0, "pages to grow the module's exported memory by")
	flag.IntVar(&opts.reserveMiB, "reserve", 64, "MiB of address space to reserve")
	flag.IntVar(&opts.commitMiB, "commit", 16, "MiB of the reservation to commit")
	flag.DurationVar(&opts.sampleFor, "sample-for", 0, "run the ledger sampler for this long before exiting")
	debug := flag.Bool("debug", false, "enable debug logs")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	final, err := run(ctx, opts, logger)
	stop()
	if err != nil {
		logger.Error().Err(err).Msg("demo failed")
		os.Exit(1)
	}
	logger.Info().Int64("reserved", final.Reserved).Int64("committed", final.Committed).Msg("runtime closed")
}

// run returns the ledger report taken after the runtime is closed, also when
// it fails part way.
func run(ctx context.Context, opts options, logger zerolog.Logger) (final rtaccount.Report, err error) {
	if opts.grow > math.MaxUint32 {
		return final, fmt.Errorf("grow %d exceeds %d pages", opts.grow, uint32(math.MaxUint32))
	}

	cfg := types.DefaultConfig()
	if opts.configPath != "" {
		bz, err := os.ReadFile(opts.configPath)
		if err != nil {
			return final, fmt.Errorf("failed to read config: %w", err)
		}
		if cfg, err = types.LoadConfig(bz); err != nil {
			return final, err
		}
	}

	rt, err := rtaccount.New(ctx, cfg, logger)
	if err != nil {
		return final, fmt.Errorf("failed to start runtime: %w", err)
	}
	defer func() {
		if cerr := rt.Close(context.Background()); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close runtime: %w", cerr)
		}
		final = rt.Report()
	}()

	region, err := rt.Reserve(opts.reserveMiB << 20)
	if err != nil {
		return final, fmt.Errorf("failed to reserve memory: %w", err)
	}
	defer func() {
		if ferr := region.Free(); ferr != nil && err == nil {
			err = fmt.Errorf("failed to free memory: %w", ferr)
		}
	}()

	if err := region.Commit(opts.commitMiB << 20); err != nil {
		return final, fmt.Errorf("failed to commit memory: %w", err)
	}
	rt.LogReport()

	if opts.wasmPath != "" {
		if err := runWasm(ctx, rt, opts.wasmPath, uint32(opts.grow), logger); err != nil {
			return final, err
		}
	}

	if opts.sampleFor > 0 {
		sctx, cancel := context.WithTimeout(ctx, opts.sampleFor)
		_ = rt.RunSampler(sctx)
		cancel()
	}

	logger.Info().Str("capabilities", rt.Capabilities().Serialize()).Msg("negotiated capabilities")
	rt.LogReport()
	return final, nil
}

func runWasm(ctx context.Context, rt *rtaccount.Runtime, path string, grow uint32, logger zerolog.Logger) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read wasm: %w", err)
	}
	mod, err := rt.Instantiate(ctx, code, "")
	if err != nil {
		return err
	}
	defer mod.Close(ctx)

	if mem := mod.Memory(); mem != nil && grow > 0 {
		if _, ok := mem.Grow(grow); !ok {
			logger.Warn().Uint32("pages", grow).Msg("memory grow refused")
		}
	}
	rt.LogReport()
	return nil
}
