// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package translate localizes the error and diagnostic text produced by
// the runtime packages.
package translate

import (
	"sync"

	"golang.org/x/text/message"
)

var (
	printer     *message.Printer
	printerOnce sync.Once
)

// load builds the printer on first use.
func load() {
	locales := userLocales()
	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	printerOnce.Do(load)
	return printer.Sprintf(key, args...)
}
