package deps

import (
	"os"
	"strings"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("gomarket")

var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{module}	%{shortfile}	▶ %{level:.4s} %{id:03x}%{color:reset} %{message}`,
)

// IgniteLogger installs the process log backend on stderr, leveled by
// log.level.
func IgniteLogger(container Deps) (Deps, error) {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatter := logging.NewBackendFormatter(backend, format)
	leveled := logging.AddModuleLevel(formatter)
	logging.SetBackend(leveled)

	container.LogLevel = leveled
	container.LoggerProvider = log
	if container.ConfigProvider != nil {
		if err := SetLevel(container, container.ConfigProvider.UString("log.level", "INFO")); err != nil {
			return container, err
		}
	}
	return container, nil
}

// SetLevel changes the level of every module logger.
func SetLevel(container Deps, name string) error {
	level, err := logging.LogLevel(strings.ToUpper(strings.TrimSpace(name)))
	if err != nil {
		return errors.Wrapf(err, "deps: log level %q", name)
	}
	if container.LogLevel != nil {
		container.LogLevel.SetLevel(level, "")
	}
	return nil
}
