// Package term renders the notes client on a terminal.
//
// It provides the core.Presenter and core.Confirmer implementations used by
// the CLI, plus a printer for notification events. Colour is enabled only
// when the output is a terminal and NO_COLOR is unset.
package term
