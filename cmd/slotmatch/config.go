package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/slotmatch"
)

// Config is the YAML configuration of the command. Flags override it.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Dataset  string         `yaml:"dataset"`
	Strategy string         `yaml:"strategy"`
	Pages    int            `yaml:"pages"`
	Workers  int            `yaml:"workers"`
	GPU      GPUConfig      `yaml:"gpu"`
	Generate GenerateConfig `yaml:"generate"`
	Log      LogConfig      `yaml:"log"`
}

// StoreConfig selects the blob store holding the mask tables.
type StoreConfig struct {
	// Kind is local, s3 or minio.
	Kind   string `yaml:"kind"`
	Path   string `yaml:"path"`
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
	Region string `yaml:"region"`
	// Endpoint is an S3-compatible endpoint or the MinIO host:port.
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`
	// CommitTable names a DynamoDB table holding CURRENT for s3 stores.
	CommitTable string `yaml:"commit_table"`
}

// GPUConfig tunes the GPU strategy and its emulated device.
type GPUConfig struct {
	BlockSize           int   `yaml:"block_size"`
	BatchEvents         int   `yaml:"batch_events"`
	MemoryLimitBytes    int64 `yaml:"memory_limit_bytes"`
	TransferBytesPerSec int64 `yaml:"transfer_bytes_per_sec"`
	MaxThreadsPerBlock  int   `yaml:"max_threads_per_block"`
	Workers             int   `yaml:"workers"`
}

// GenerateConfig sizes a synthetic dataset.
type GenerateConfig struct {
	Users        int    `yaml:"users"`
	Events       int    `yaml:"events"`
	Seed         int64  `yaml:"seed"`
	Compression  string `yaml:"compression"`
	BlockRecords int    `yaml:"block_records"`
	Publish      bool   `yaml:"publish"`
	// WriteRate caps upload bandwidth in bytes per second. 0 means unlimited.
	WriteRate int64 `yaml:"write_rate"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaultConfig() Config {
	return Config{
		Store:    StoreConfig{Kind: "local", Path: "./data"},
		Strategy: "auto",
		Pages:    10,
		Generate: GenerateConfig{
			Users:       100_000,
			Events:      10_000,
			Seed:        1,
			Compression: "zstd",
			Publish:     true,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// loadConfig decodes the YAML file at path over cfg. Unknown keys are
// rejected.
func loadConfig(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return decodeConfig(f, cfg)
}

func decodeConfig(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// options turns the matcher settings into slotmatch options.
func (c *Config) options(logger *slotmatch.Logger) []slotmatch.Option {
	return []slotmatch.Option{
		slotmatch.WithLogger(logger),
		slotmatch.WithPages(c.Pages),
		slotmatch.WithWorkers(c.Workers),
		slotmatch.WithBlockSize(c.GPU.BlockSize),
		slotmatch.WithBatchEvents(c.GPU.BatchEvents),
		slotmatch.WithDeviceConfig(slotmatch.DeviceConfig{
			MemoryLimitBytes:    c.GPU.MemoryLimitBytes,
			TransferBytesPerSec: c.GPU.TransferBytesPerSec,
			MaxThreadsPerBlock:  c.GPU.MaxThreadsPerBlock,
			Workers:             c.GPU.Workers,
		}),
	}
}

func (c *LogConfig) logger(w io.Writer) (*slotmatch.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return nil, &slotmatch.ConfigurationError{Option: "log level", Value: c.Level}
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(c.Format) {
	case "", "text":
		return slotmatch.NewLogger(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slotmatch.NewLogger(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, &slotmatch.ConfigurationError{Option: "log format", Value: c.Format}
	}
}
