package discovery

import (
	"fmt"
	"os"
	"slices"

	"github.com/wagiedev/uci-session-go/internal/config"
)

// Command describes how to launch the engine process.
type Command struct {
	// Path is the engine binary.
	Path string

	// Args are the command line arguments, without the binary.
	Args []string

	// Env is the full process environment.
	Env []string

	// Dir is the working directory; empty means the current one.
	Dir string
}

// BuildCommand constructs the engine command from the session options.
func BuildCommand(path string, options *config.Options) Command {
	return Command{
		Path: path,
		Args: slices.Clone(options.EngineArgs),
		Env:  BuildEnvironment(options),
		Dir:  options.Cwd,
	}
}

// BuildEnvironment constructs the environment variables for the engine
// process. User-provided variables are appended after the inherited ones so
// they take precedence.
func BuildEnvironment(options *config.Options) []string {
	env := os.Environ()

	keys := make([]string, 0, len(options.Env))
	for key := range options.Env {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	for _, key := range keys {
		env = append(env, fmt.Sprintf("%s=%s", key, options.Env[key]))
	}

	return env
}
