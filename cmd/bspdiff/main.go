// bspdiff compares two BSP map files lump by lump.
//
// Usage:
//
//	bspdiff [flags] LEFT.bsp RIGHT.bsp
//
// Each line of output names a lump, four Y/N flags for whether its offset,
// length, version and fourCC match, and YES! (same bytes), NOPE (different
// bytes) or ???? (a side could not be read). With --detail, differing lumps
// are followed by a diff of their decoded form, or of hex chunks when the
// lump has no decoder.
//
// The exit status is 0 when the files match, 1 when they differ and 2 on
// error. Set BSPDIFF_DEBUG to log every decode fallback.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/user/bspgo/pkg/bsp"
	"github.com/user/bspgo/pkg/bsp/branches"
	"github.com/user/bspgo/pkg/bspdiff"
)

type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func (e exitError) ExitCode() int {
	return e.code
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var (
		leftBranch  string
		rightBranch string
		detail      bool
		chunkSize   int
		format      string
		configPath  string
		headers     bool
	)

	flagSet := pflag.NewFlagSet("bspdiff", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&leftBranch, "left-branch", "", "branch of the left file, by name or version (default: from the file header)")
	flagSet.StringVar(&rightBranch, "right-branch", "", "branch of the right file, by name or version (default: from the file header)")
	flagSet.BoolVarP(&detail, "detail", "d", false, "show a detailed diff for each differing lump")
	flagSet.IntVar(&chunkSize, "chunk-size", bspdiff.DefaultChunkSize, "bytes per hex line when diffing opaque lumps")
	flagSet.StringVarP(&format, "format", "f", "text", "output format: text, json or cbor")
	flagSet.StringVar(&configPath, "config", "", "YAML config file")
	flagSet.BoolVar(&headers, "headers", false, "dump both lump directories instead of diffing")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage: bspdiff [flags] LEFT.bsp RIGHT.bsp\n\nFlags:\n%s", flagSet.FlagUsages())
	}

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if flagSet.NArg() != 2 {
		flagSet.Usage()
		return fmt.Errorf("expected 2 files, got %d", flagSet.NArg())
	}

	cfg := &Config{}
	if configPath != "" {
		var err error
		if cfg, err = LoadConfig(configPath); err != nil {
			return err
		}
	}
	if !flagSet.Changed("detail") {
		detail = cfg.Detail
	}
	if !flagSet.Changed("chunk-size") && cfg.ChunkSize > 0 {
		chunkSize = cfg.ChunkSize
	}
	if !flagSet.Changed("format") && cfg.Format != "" {
		format = cfg.Format
	}
	if !validFormats[format] {
		return fmt.Errorf("unknown format %q", format)
	}

	level := slog.LevelWarn
	if os.Getenv("BSPDIFF_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	leftOpts, err := cfg.partitionOptions(0)
	if err != nil {
		return err
	}
	rightOpts, err := cfg.partitionOptions(1)
	if err != nil {
		return err
	}
	left, err := openFile(flagSet.Arg(0), leftBranch, leftOpts...)
	if err != nil {
		return err
	}
	right, err := openFile(flagSet.Arg(1), rightBranch, rightOpts...)
	if err != nil {
		return err
	}
	logger.Debug("opened files",
		"left", flagSet.Arg(0), "left_branch", left.Branch.Name,
		"right", flagSet.Arg(1), "right_branch", right.Branch.Name)

	if headers {
		renderHeaders(stdout, "left", left)
		renderHeaders(stdout, "right", right)
		return nil
	}

	pairing := cfg.Pairing
	if len(pairing) == 0 && left.Branch != right.Branch {
		pairing = bspdiff.PairByName(left.Branch, right.Branch)
	}
	report, err := bspdiff.Diff(left, right,
		bspdiff.WithDetail(detail),
		bspdiff.WithChunkSize(chunkSize),
		bspdiff.WithPairing(pairing),
		bspdiff.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		err = report.EncodeJSON(stdout)
	case "cbor":
		err = report.EncodeCBOR(stdout)
	default:
		newTextRenderer(stdout).Render(report)
	}
	if err != nil {
		return err
	}
	if !report.Equal() {
		return exitError{code: 1}
	}
	return nil
}

// openFile reads path and loads it with the named branch, or the branch its
// file header declares when name is empty. Load does the one full inflate.
func openFile(path, name string, opts ...bsp.Option) (*bsp.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map: %w", err)
	}

	var branch *bsp.Branch
	if name != "" {
		b, ok := branches.ByName(name)
		if !ok {
			return nil, fmt.Errorf("%s: unknown branch %q", path, name)
		}
		branch = b
	} else {
		h, err := bsp.PeekFileHeader(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		b, ok := branches.Detect(h)
		if !ok {
			return nil, fmt.Errorf("%s: no known branch for %q version %d, pass --left-branch or --right-branch", path, h.MagicString(), h.Version)
		}
		branch = b
	}

	f, err := bsp.Load(data, branch, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
