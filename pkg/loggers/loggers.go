package loggers

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-staking/pkg/repo"
)

const (
	App            = "app"
	Executor       = "executor"
	Ledger         = "ledger"
	Storage        = "storage"
	SystemContract = "system_contract"
)

var w = &LoggerWrapper{
	loggers: map[string]*logrus.Entry{
		App:            newWithModule(logrus.StandardLogger(), App),
		Executor:       newWithModule(logrus.StandardLogger(), Executor),
		Ledger:         newWithModule(logrus.StandardLogger(), Ledger),
		Storage:        newWithModule(logrus.StandardLogger(), Storage),
		SystemContract: newWithModule(logrus.StandardLogger(), SystemContract),
	},
}

type LoggerWrapper struct {
	loggers map[string]*logrus.Entry
}

func newWithModule(l *logrus.Logger, module string) *logrus.Entry {
	return l.WithField("module", module)
}

func parseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Initialize rebuilds all module loggers from the repo config. Every module gets its own
// logrus.Logger so levels can differ, and all of them share the same output.
func Initialize(ctx context.Context, rep *repo.Repo, persist bool) error {
	config := rep.Config.Log

	var out io.Writer = os.Stderr
	if persist {
		logDir := filepath.Join(rep.RepoRoot, repo.LogsDirName)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return errors.Wrap(err, "log initialize")
		}
		rotationTime := config.RotationTime.ToDuration()
		if rotationTime <= 0 {
			rotationTime = 24 * time.Hour
		}
		writer, err := rotatelogs.New(
			filepath.Join(logDir, config.Filename+".%Y%m%d%H%M.log"),
			rotatelogs.WithLinkName(filepath.Join(logDir, config.Filename+".log")),
			rotatelogs.WithMaxAge(time.Duration(config.MaxAge)*24*time.Hour),
			rotatelogs.WithRotationTime(rotationTime),
		)
		if err != nil {
			return errors.Wrap(err, "log initialize")
		}
		go func() {
			<-ctx.Done()
			_ = writer.Close()
		}()
		out = io.MultiWriter(os.Stderr, writer)
	}

	formatter := &logrus.TextFormatter{
		ForceColors:      config.EnableColor,
		DisableColors:    !config.EnableColor,
		DisableTimestamp: config.DisableTimestamp,
		FullTimestamp:    true,
		TimestampFormat:  "2006-01-02T15:04:05.000",
	}

	levels := map[string]string{
		App:            config.Level,
		Executor:       config.Module.Executor,
		Ledger:         config.Module.Ledger,
		Storage:        config.Module.Storage,
		SystemContract: config.Module.SystemContract,
	}

	m := make(map[string]*logrus.Entry)
	for module, level := range levels {
		l := logrus.New()
		l.SetOutput(out)
		l.SetFormatter(formatter)
		l.SetReportCaller(config.ReportCaller)
		l.SetLevel(parseLevel(level))
		m[module] = newWithModule(l, module)
	}

	w = &LoggerWrapper{loggers: m}
	return nil
}

func Logger(name string) logrus.FieldLogger {
	return w.loggers[name]
}
