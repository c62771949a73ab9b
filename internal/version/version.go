// Package version хранит сведения о сборке, подставляемые через -ldflags.
package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает версию, коммит и дату сборки.
func Info() (v, c, d string) { return version, commit, date }

// String собирает краткую строку о сборке для логов и health-ответа.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
}
