// Package translate renders user-visible text in the host locale.
package translate

import (
	"github.com/jeandeaual/go-locale"
	"github.com/sirupsen/logrus"

	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		logrus.Debugf("a72ss: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// Size renders a byte count using the largest binary unit that divides it
// evenly, falling back to hex for odd sizes.
func Size(size uint64) string {
	units := []string{"KiB", "MiB", "GiB"}

	if size == 0 || size%1024 != 0 {
		return From("%#x bytes", size)
	}

	unit := ""
	for _, name := range units {
		if size%1024 != 0 {
			break
		}
		size /= 1024
		unit = name
	}

	return From("%d %s", size, unit)
}
