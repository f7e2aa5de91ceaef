package logger

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	*zap.Logger
}

// NewLogger builds a zap logger writing to stdout. format is "json" or
// "console"; unknown levels fall back to info.
func NewLogger(level, format string) *Logger {
	cfg := zap.NewProductionConfig()

	// 设置日志级别
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	// 设置日志格式
	if strings.EqualFold(format, "json") {
		cfg.Encoding = "json"
	} else {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// 设置输出
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewExample()
	}

	return &Logger{Logger: logger}
}

func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...)}
}

func (l *Logger) SSHConnectionAttempt(host string, port int, user string) {
	l.Info("Attempting SSH connection",
		zap.String("type", "ssh_connection"),
		zap.String("host", host),
		zap.Int("port", port),
		zap.String("user", user),
	)
}

func (l *Logger) ConnectionFailed(host string, err error) {
	l.Error("SSH connection failed",
		zap.String("type", "ssh_connection"),
		zap.String("host", host),
		zap.Error(err),
	)
}

func (l *Logger) InspectionStep(host, field, command string) {
	l.Debug("Executing command",
		zap.String("type", "inspection"),
		zap.String("host", host),
		zap.String("field", field),
		zap.String("command", command),
	)
}

func (l *Logger) CommandFailed(host, field string, err error) {
	l.Warn("Remote command failed",
		zap.String("type", "inspection"),
		zap.String("host", host),
		zap.String("field", field),
		zap.Error(err),
	)
}

func (l *Logger) NodeInspected(host string, degraded int, elapsed time.Duration) {
	l.Info("Node inspection finished",
		zap.String("type", "inspection"),
		zap.String("host", host),
		zap.Int("fields_with_errors", degraded),
		zap.Duration("elapsed", elapsed),
	)
}
