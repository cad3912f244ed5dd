//go:build n64

package translate

// The console has no user settings to read.
func userLocales() []string {
	return nil
}
