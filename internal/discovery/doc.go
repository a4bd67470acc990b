// Package discovery locates UCI engine binaries and builds the command line
// and environment for the engine process.
//
// # Engine Discovery
//
// The Discoverer interface locates an engine binary:
//
//	discoverer := discovery.NewDiscoverer(&discovery.Config{
//	    EnginePath: "",                 // Optional explicit path
//	    Engine:     engines.Default(),
//	    Logger:     slog.Default(),
//	})
//	path, err := discoverer.Discover(ctx)
//
// Discovery searches in the following order:
//  1. Explicit path in Config.EnginePath (if provided)
//  2. System PATH, for each of the catalog entry's binary names
//  3. Common installation directories (/usr/local/bin, /usr/games, /usr/bin, ~/.local/bin)
//
// # Command Building
//
//	cmd := discovery.BuildCommand(path, options)
package discovery
