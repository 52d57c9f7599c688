// Command slotmatch generates slot-mask datasets and counts, for every
// event, the users able to attend it.
//
// Usage:
//
//	slotmatch generate [flags]
//	slotmatch run [flags] [strategy]
//	slotmatch strategies
//
// Settings come from an optional YAML file (-config) and are overridden
// by flags. run prints one ".<event id>:<count>" line per event, or
// with -digest a single line hashing all counts.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/hupe1980/slotmatch"
	"github.com/hupe1980/slotmatch/internal/table"
	"github.com/hupe1980/slotmatch/source"
)

const usage = `usage: slotmatch <command> [flags]

commands:
  generate     write a synthetic dataset to the store
  run          match a stored dataset with one strategy
  strategies   list strategy names

run "slotmatch <command> -h" for command flags.
`

// errUsage marks errors caused by the command line itself.
var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return
	}
	fmt.Fprintln(os.Stderr, "slotmatch:", err)
	if errors.Is(err, errUsage) || errors.Is(err, slotmatch.ErrConfiguration) {
		os.Exit(2)
	}
	os.Exit(1)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("%w: missing command", errUsage)
	}

	switch args[0] {
	case "generate":
		return runGenerate(ctx, args[1:], stdout, stderr)
	case "run":
		return runMatch(ctx, args[1:], stdout, stderr)
	case "strategies":
		for _, s := range append([]slotmatch.Strategy{slotmatch.Auto}, slotmatch.Strategies()...) {
			fmt.Fprintln(stdout, s)
		}
		return nil
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

// flags binds command-line flags to Config fields. Only flags given on
// the command line are applied, after the config file is loaded.
type flags struct {
	fs     *flag.FlagSet
	path   string
	setter map[string]func(*Config)
}

func newFlags(name string, stderr io.Writer) *flags {
	f := &flags{
		fs:     flag.NewFlagSet(name, flag.ContinueOnError),
		setter: make(map[string]func(*Config)),
	}
	f.fs.SetOutput(stderr)
	f.fs.StringVar(&f.path, "config", "", "YAML config `file`")

	def := defaultConfig()
	f.stringVar("store", def.Store.Kind, "store kind: local, s3 or minio", func(c *Config) *string { return &c.Store.Kind })
	f.stringVar("path", def.Store.Path, "local store directory", func(c *Config) *string { return &c.Store.Path })
	f.stringVar("bucket", "", "s3 or minio bucket", func(c *Config) *string { return &c.Store.Bucket })
	f.stringVar("prefix", "", "key prefix inside the bucket", func(c *Config) *string { return &c.Store.Prefix })
	f.stringVar("endpoint", "", "s3-compatible endpoint or minio host:port", func(c *Config) *string { return &c.Store.Endpoint })
	f.stringVar("dataset", "", "dataset prefix; empty follows CURRENT", func(c *Config) *string { return &c.Dataset })
	f.stringVar("log-level", def.Log.Level, "debug, info, warn or error", func(c *Config) *string { return &c.Log.Level })
	f.stringVar("log-format", def.Log.Format, "text or json", func(c *Config) *string { return &c.Log.Format })
	return f
}

func (f *flags) stringVar(name, value, usage string, field func(*Config) *string) {
	v := f.fs.String(name, value, usage)
	f.setter[name] = func(c *Config) { *field(c) = *v }
}

func (f *flags) intVar(name string, value int, usage string, field func(*Config) *int) {
	v := f.fs.Int(name, value, usage)
	f.setter[name] = func(c *Config) { *field(c) = *v }
}

func (f *flags) int64Var(name string, value int64, usage string, field func(*Config) *int64) {
	v := f.fs.Int64(name, value, usage)
	f.setter[name] = func(c *Config) { *field(c) = *v }
}

func (f *flags) boolVar(name string, value bool, usage string, field func(*Config) *bool) {
	v := f.fs.Bool(name, value, usage)
	f.setter[name] = func(c *Config) { *field(c) = *v }
}

// parse parses args and returns the effective configuration.
func (f *flags) parse(args []string) (Config, error) {
	if err := f.fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Config{}, err
		}
		return Config{}, fmt.Errorf("%w: %w", errUsage, err)
	}

	cfg := defaultConfig()
	if f.path != "" {
		if err := loadConfig(f.path, &cfg); err != nil {
			return Config{}, &slotmatch.ConfigurationError{Option: "config file", Value: f.path, Cause: err}
		}
	}
	f.fs.Visit(func(fl *flag.Flag) {
		if set, ok := f.setter[fl.Name]; ok {
			set(&cfg)
		}
	})
	return cfg, nil
}

func runGenerate(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	f := newFlags("generate", stderr)
	def := defaultConfig().Generate
	f.intVar("users", def.Users, "number of users", func(c *Config) *int { return &c.Generate.Users })
	f.intVar("events", def.Events, "number of events", func(c *Config) *int { return &c.Generate.Events })
	f.int64Var("seed", def.Seed, "random seed", func(c *Config) *int64 { return &c.Generate.Seed })
	f.stringVar("compression", def.Compression, "none, lz4 or zstd", func(c *Config) *string { return &c.Generate.Compression })
	f.intVar("block-records", table.DefaultBlockRecords, "records per table block", func(c *Config) *int { return &c.Generate.BlockRecords })
	f.boolVar("publish", def.Publish, "point CURRENT at the new dataset", func(c *Config) *bool { return &c.Generate.Publish })
	f.int64Var("write-rate", 0, "upload bandwidth in bytes/s (0: unlimited)", func(c *Config) *int64 { return &c.Generate.WriteRate })

	cfg, err := f.parse(args)
	if err != nil {
		return err
	}
	if f.fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", errUsage, f.fs.Arg(0))
	}

	logger, err := cfg.Log.logger(stderr)
	if err != nil {
		return err
	}
	gen := cfg.Generate
	if gen.WriteRate < 0 {
		return &slotmatch.ConfigurationError{Option: "write rate", Value: gen.WriteRate}
	}
	if gen.Users < 0 || gen.Events < 0 {
		return &slotmatch.ConfigurationError{Option: "dataset size", Value: fmt.Sprintf("%d users, %d events", gen.Users, gen.Events)}
	}
	comp, err := table.ParseCompression(gen.Compression)
	if err != nil {
		return &slotmatch.ConfigurationError{Option: "compression", Value: gen.Compression, Cause: err}
	}
	dataset := cfg.Dataset
	if dataset == "" {
		dataset = fmt.Sprintf("dataset-%d", time.Now().UTC().Unix())
	}

	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}

	start := time.Now()
	ds := source.Generate(rand.New(rand.NewSource(gen.Seed)), gen.Users, gen.Events)
	err = source.WriteDataset(ctx, store, dataset, ds, source.WriteOptions{
		Compression:  comp,
		BlockRecords: gen.BlockRecords,
		BytesPerSec:  gen.WriteRate,
		Publish:      gen.Publish,
	})
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "dataset written",
		"dataset", dataset,
		"users", gen.Users,
		"events", gen.Events,
		"compression", comp.String(),
		"published", gen.Publish,
		"duration", time.Since(start),
	)
	fmt.Fprintln(stdout, dataset)
	return nil
}

func runMatch(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	f := newFlags("run", stderr)
	def := defaultConfig()
	f.stringVar("strategy", def.Strategy, "matching strategy", func(c *Config) *string { return &c.Strategy })
	f.intVar("pages", def.Pages, "multicore event pages", func(c *Config) *int { return &c.Pages })
	f.intVar("workers", 0, "concurrent multicore pages (0: one per page)", func(c *Config) *int { return &c.Workers })
	f.intVar("block-size", 0, "gpu threads per block (0: 256)", func(c *Config) *int { return &c.GPU.BlockSize })
	f.intVar("batch-events", 0, "gpu events per kernel batch (0: device limit)", func(c *Config) *int { return &c.GPU.BatchEvents })
	f.int64Var("device-memory", 0, "gpu device memory limit in bytes (0: unlimited)", func(c *Config) *int64 { return &c.GPU.MemoryLimitBytes })
	f.int64Var("transfer-rate", 0, "gpu transfer bandwidth in bytes/s (0: unlimited)", func(c *Config) *int64 { return &c.GPU.TransferBytesPerSec })
	digest := f.fs.Bool("digest", false, "print a digest of the counts instead of the report")

	cfg, err := f.parse(args)
	if err != nil {
		return err
	}
	switch f.fs.NArg() {
	case 0:
	case 1:
		cfg.Strategy = f.fs.Arg(0)
	default:
		return fmt.Errorf("%w: unexpected arguments %s", errUsage, strings.Join(f.fs.Args()[1:], " "))
	}

	// Everything is validated before the store is opened.
	strategy, err := slotmatch.ParseStrategy(cfg.Strategy)
	if err != nil {
		return err
	}
	logger, err := cfg.Log.logger(stderr)
	if err != nil {
		return err
	}
	matcher, err := slotmatch.NewMatcher(strategy, cfg.options(logger)...)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}

	res, err := matcher.Match(ctx, source.NewTable(store, cfg.Dataset))
	if err != nil {
		return err
	}
	if *digest {
		_, err := fmt.Fprintf(stdout, "%s %d events %016x\n", res.Strategy, res.Events, res.Digest())
		return err
	}
	return res.WriteReport(stdout)
}
