// Package app builds the command-line applications of both preview
// executables.
//
// It uses urfave/cli/v2 for flag parsing. Each executable runs with zero
// arguments; flags only override configuration keys. Startup order:
//
//  1. Load configuration (defaults, YAML file, PWAPREVIEW_* env, flags)
//  2. Initialize logging
//  3. Start the optional metrics listener and content watcher
//  4. Run the preview server until SIGINT/SIGTERM
//  5. Run shutdown hooks
package app
