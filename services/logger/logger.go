package logsvc

import (
	"github.com/rollbar/rollbar-go"
	rollbarerrors "github.com/rollbar/rollbar-go/errors"
	"go.uber.org/zap"

	"github.com/apper-canvas/learnhubdigital/core"
)

// RollbarLogger writes structured entries with zap and reports them to rollbar when enabled.
type RollbarLogger struct {
	zap *zap.SugaredLogger
}

var _ core.Logger = (*RollbarLogger)(nil)

// NewRollbarLogger builds a development logger in debug mode, a JSON production logger otherwise.
// Rollbar reporting stays disabled until Enable is called.
func NewRollbarLogger(conf *core.Config) (*RollbarLogger, error) {
	zconf := zap.NewProductionConfig()
	if conf.Debug {
		zconf = zap.NewDevelopmentConfig()
	}
	if conf.TestMode {
		zconf.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	zl, err := zconf.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(rollbarerrors.StackTracer)
	return New(zl.Sugar()), nil
}

// New wraps an existing zap logger, e.g. zap.NewNop().Sugar() in tests.
func New(sugar *zap.SugaredLogger) *RollbarLogger {
	rollbar.SetEnabled(false)
	return &RollbarLogger{zap: sugar}
}

func (l *RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// Sync flushes both zap's buffer and rollbar's queue.
func (l *RollbarLogger) Sync() {
	_ = l.zap.Sync()
	rollbar.Wait()
}

// prepare splits args into rollbar's interfaces and zap's key/value pairs.
func (l *RollbarLogger) prepare(msg string, args []interface{}) (extras []interface{}, kvs []interface{}) {
	var usrSet bool
	extras = append(make([]interface{}, 0, len(args)+1), msg)
	kvs = make([]interface{}, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case core.LogUser:
			if !usrSet { // only one user per entry
				rollbar.SetPerson(string(v), "", "")
				kvs = append(kvs, "user_id", string(v))
				usrSet = true
			}
		case error:
			extras = append(extras, v)
			kvs = append(kvs, "error", v)
		case map[string]interface{}:
			extras = append(extras, v)
			for k, val := range v {
				kvs = append(kvs, k, val)
			}
		default:
			kvs = append(kvs, v)
		}
	}
	if !usrSet {
		rollbar.ClearPerson()
	}
	return extras, kvs
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	extras, kvs := l.prepare(msg, args)
	rollbar.Debug(extras...)
	l.zap.Debugw(msg, kvs...)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	extras, kvs := l.prepare(msg, args)
	rollbar.Info(extras...)
	l.zap.Infow(msg, kvs...)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	extras, kvs := l.prepare(msg, args)
	rollbar.Warning(extras...)
	l.zap.Warnw(msg, kvs...)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	extras, kvs := l.prepare(msg, args)
	rollbar.Error(extras...)
	l.zap.Errorw(msg, kvs...)
}

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	extras, kvs := l.prepare(msg, args)
	rollbar.Critical(extras...)
	rollbar.Wait()
	l.zap.Fatalw(msg, kvs...)
}
