package discovery

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/wagiedev/uci-session-go/internal/engines"
	"github.com/wagiedev/uci-session-go/internal/errors"
)

// Config holds configuration for engine discovery.
type Config struct {
	// EnginePath is an explicit binary path that skips the PATH search.
	EnginePath string

	// Engine is the catalog entry whose binary names are searched.
	// If zero, engines.Default() is used.
	Engine engines.Engine

	// Logger is an optional logger for discovery operations.
	Logger *slog.Logger
}

// Discoverer locates a UCI engine binary.
type Discoverer interface {
	// Discover returns the path to the engine binary or an
	// *errors.EngineNotFoundError listing every location searched.
	Discover(ctx context.Context) (string, error)
}

type discoverer struct {
	cfg *Config
	log *slog.Logger
}

var _ Discoverer = (*discoverer)(nil)

// NewDiscoverer creates a new engine discoverer with the given configuration.
func NewDiscoverer(cfg *Config) Discoverer {
	if cfg == nil {
		cfg = &Config{}
	}

	if cfg.Engine.ID == "" {
		cfg.Engine = engines.Default()
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &discoverer{
		cfg: cfg,
		log: log.With("component", "engine_discovery"),
	}
}

// Discover locates the engine binary.
func (d *discoverer) Discover(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	d.log.Debug("Discovering engine binary", "engine", d.cfg.Engine.ID)

	path, err := d.find()
	if err != nil {
		d.log.Error("Failed to find engine", "error", err)

		return "", err
	}

	d.log.Debug("Found engine binary", "engine_path", path)

	return path, nil
}

func (d *discoverer) find() (string, error) {
	if d.cfg.EnginePath != "" {
		if info, err := os.Stat(d.cfg.EnginePath); err == nil && !info.IsDir() {
			return d.cfg.EnginePath, nil
		}

		d.log.Debug("Explicit engine path not found", "engine_path", d.cfg.EnginePath)

		return "", &errors.EngineNotFoundError{SearchedPaths: []string{d.cfg.EnginePath}}
	}

	searched := make([]string, 0, 8)

	for _, name := range d.cfg.Engine.Binaries {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}

		searched = append(searched, "$PATH/"+name)
	}

	for _, path := range commonPaths(d.cfg.Engine.Binaries) {
		searched = append(searched, path)

		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	d.log.Warn("Engine not found in any searched paths", "searched_paths", searched)

	return "", &errors.EngineNotFoundError{SearchedPaths: searched}
}

func commonPaths(binaries []string) []string {
	dirs := []string{"/usr/local/bin", "/usr/games", "/usr/bin"}

	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local/bin"))
	}

	out := make([]string, 0, len(dirs)*len(binaries))

	for _, dir := range dirs {
		for _, name := range binaries {
			out = append(out, filepath.Join(dir, name))
		}
	}

	return out
}
