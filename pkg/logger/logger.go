package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones del logger estructurado.
type Config struct {
	Env   string // development -> salida de consola; cualquier otro -> JSON
	Level string // trace, debug, info, warn, error
}

// Logger envuelve zerolog para inyectarlo en los casos de uso del motor.
// El motor registra rechazos de validación y filas degeneradas; el resto de
// la aplicación recibe el mismo logger por inyección explícita, nunca por
// estado global.
type Logger struct {
	zl zerolog.Logger
}

// New construye el logger según el entorno: consola legible en development,
// JSON con timestamp en los demás.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zl := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()

	// Las librerías que usan el logger global de zerolog escriben por la
	// misma salida.
	log.Logger = zl

	return &Logger{zl: zl}
}

// Nop devuelve un logger que descarta todo. Es lo que reciben los casos de
// uso cuando no se les inyecta uno real (pruebas incluidas).
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Eventos delegados a zerolog.
func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With crea un sublogger con campos fijos.
func (l *Logger) With() zerolog.Context { return l.zl.With() }

// Zerolog expone el logger interno para la API directa de zerolog.
func (l *Logger) Zerolog() zerolog.Logger { return l.zl }
