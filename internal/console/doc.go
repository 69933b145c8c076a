// Package console prints the operator-facing banner and status lines of
// the preview servers.
//
// Output is French, human-readable and goes to stdout; structured logs
// go to stderr through internal/telemetry/logger. Colours come from
// fatih/color and are disabled automatically when stdout is not a
// terminal or NO_COLOR is set.
package console
