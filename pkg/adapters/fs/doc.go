// Package fs holds the filesystem adapters of the notes client: the
// last-good snapshot of the note list and the config file watcher.
package fs
