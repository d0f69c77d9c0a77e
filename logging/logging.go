package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing plain one-line notices to w. Info
// notices are only emitted when verbose is set; warnings and errors always are.
func New(w io.Writer, verbose bool) *zap.SugaredLogger {
	encConfig := zap.NewDevelopmentEncoderConfig()
	encConfig.TimeKey = ""
	encConfig.LevelKey = ""
	encConfig.NameKey = ""
	encConfig.CallerKey = ""
	encConfig.EncodeCaller = nil

	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		level.SetLevel(zapcore.InfoLevel)
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encConfig), zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
