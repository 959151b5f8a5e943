// Package debug provides env-gated diagnostic logging. Gates are read
// once at startup; SHOEBOX_DEBUG enables everything at once.
package debug

import (
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

type debug struct {
	Scan  bool
	Diff  bool
	Stage bool
}

var d *debug

func init() {
	d = &debug{}
	all := boolEnv("SHOEBOX_DEBUG")
	d.Scan = all || boolEnv("SHOEBOX_DEBUG_SCAN")
	d.Diff = all || boolEnv("SHOEBOX_DEBUG_DIFF")
	d.Stage = all || boolEnv("SHOEBOX_DEBUG_STAGE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Scan() bool {
	return d.Scan
}
func Diff() bool {
	return d.Diff
}
func Stage() bool {
	return d.Stage
}

var (
	logOnce sync.Once
	logger  *zap.SugaredLogger
)

// Log returns the shared debug logger, writing to stderr.
func Log() *zap.SugaredLogger {
	logOnce.Do(func() {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		l, err := cfg.Build()
		if err != nil {
			logger = zap.NewNop().Sugar()
			return
		}
		logger = l.Sugar()
	})
	return logger
}

func Logf(format string, args ...any) {
	Log().Debugf(format, args...)
}
