// Package logger holds the process-wide zap logger used by the generator and
// the CLI. Library packages never log.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global sugared logger. It is a no-op until Initialize runs.
var Logger = zap.NewNop().Sugar()

// Initialize replaces Logger. verbose lowers the level to debug; jsonOutput
// switches from console to JSON encoding. Logs go to stderr so command
// output on stdout stays clean.
func Initialize(verbose, jsonOutput bool) error {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	if jsonOutput {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		cfg.OutputPaths = []string{"stderr"}
		l, err := cfg.Build()
		if err != nil {
			return err
		}
		Logger = l.Sugar()
		return nil
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.CallerKey = ""
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(os.Stderr), level)
	Logger = zap.New(core).Sugar()
	return nil
}

// Named returns a child of Logger for one component.
func Named(name string) *zap.SugaredLogger { return Logger.Named(name) }

// Sync flushes buffered entries.
func Sync() { _ = Logger.Sync() }
