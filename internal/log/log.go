package log

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sethvargo/go-envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config defines the logger configuration read from environment variables
type Config struct {
	// Dir is the directory the log file is written to
	Dir string `env:"WEBTESTKIT_LOG_DIR,default=/tmp/webtestkit"`

	// Level is the minimum level written to the log
	Level string `env:"WEBTESTKIT_LOG_LEVEL,default=info"`
}

var (
	mu  sync.RWMutex
	log *zap.SugaredLogger
)

// Init initializes the global logger. It creates a production logger
// that writes JSON logs to log.txt under the configured directory.
// The log file is truncated on each startup.
func Init() error {
	ctx := context.Background()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return err
	}

	logPath := filepath.Join(cfg.Dir, "log.txt")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	initCore(logFile, parseLevel(cfg.Level))
	return nil
}

// InitWithWriter initializes the global logger against an arbitrary
// writer at debug level. Tests use this to capture log output.
func InitWithWriter(w io.Writer) {
	initCore(w, zapcore.DebugLevel)
}

func initCore(w io.Writer, level zapcore.Level) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(w),
		level,
	)

	baseLogger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	mu.Lock()
	log = baseLogger.Sugar()
	mu.Unlock()
}

func parseLevel(level string) zapcore.Level {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return parsed
}

// Logger returns the global sugared logger instance. Before Init is
// called a no-op logger is returned so library code can log freely.
func Logger() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()

	if log == nil {
		return zap.NewNop().Sugar()
	}
	return log
}

// Sync flushes any buffered log entries
func Sync() {
	mu.RLock()
	defer mu.RUnlock()

	if log != nil {
		_ = log.Sync()
	}
}
