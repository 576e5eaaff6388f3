// Command backgrep searches files for lines matching a backre pattern.
//
// Usage:
//
//	backgrep [flags] PATTERN [FILE...]
//
// With no FILE, standard input is searched. Flags can also be set through
// BACKGREP_* environment variables (BACKGREP_MAX_STEPS=1000) or a config
// file passed with --config. The exit status is 0 when a line matched, 1
// when nothing matched and 2 on error.
package main

func main() {
	Execute()
}
