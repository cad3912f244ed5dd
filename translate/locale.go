//go:build !n64

package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"
)

func userLocales() []string {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("rt0: locale: %v", err)
	}

	return locales
}
