package logs

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// level é compartilhado por todos os loggers criados aqui, para que --debug
// possa ser aplicado depois que os repositórios já foram construídos.
var level = new(slog.LevelVar)

func init() {
	level.Set(slog.LevelWarn)
}

// SetDebug liga ou desliga as mensagens de debug.
func SetDebug(enabled bool) {
	if enabled {
		level.Set(slog.LevelDebug)
		return
	}
	level.Set(slog.LevelWarn)
}

// NewLogger cria um logger colorido (tint) que escreve em w.
func NewLogger(w io.Writer) *slog.Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}))
}

// ConsoleLogger é o logger padrão do binário, em stderr.
func ConsoleLogger() *slog.Logger {
	return NewLogger(os.Stderr)
}
