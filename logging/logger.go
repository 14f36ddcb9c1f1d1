// Package logging builds the structured logger shared by the binaries
package logging

import "io"
import "os"

import "go.uber.org/zap"
import "go.uber.org/zap/zapcore"

// New returns a JSON logger with RFC3339 timestamps and caller information. Entries at
// error level and above go to stderr, the rest to stdout.
func New(level string) (*zap.Logger, error) {
	return NewTo(os.Stdout, os.Stderr, level)
}

// NewTo is New writing to the given streams
func NewTo(stdout, stderr io.Writer, level string) (*zap.Logger, error) {
	threshold := zapcore.InfoLevel
	if level != "" {
		var err error
		if threshold, err = zapcore.ParseLevel(level); err != nil {
			return nil, err
		}
	}
	isErrorLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel && lvl >= threshold
	})
	isInfoLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl < zapcore.ErrorLevel && lvl >= threshold
	})

	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.RFC3339TimeEncoder
	encoder := zapcore.NewJSONEncoder(config)

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(stderr)), isErrorLevel),
		zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(stdout)), isInfoLevel),
	)
	return zap.New(core, zap.AddCaller()), nil
}
