//go:build n64

package stdio

// There are no sources on the console; Dbg falls back to value types.
func callArgs(path string, line int, name string) []string {
	return nil
}
