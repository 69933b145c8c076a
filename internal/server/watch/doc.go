// Package watch reports changes under the served directory.
//
// A Watcher registers every directory of the tree with fsnotify, adds
// directories created later, and batches bursts of events through a
// debounce so one editor save yields one notification. Hidden directories
// and node_modules are skipped.
package watch
