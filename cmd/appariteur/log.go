package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logTimeLayout = "2006.01.02.15.04.05.000Z"

// defaultDataDir holds the logs of every run.
func defaultDataDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".appariteur")
}

// openLog tees a console log on stderr with a JSON run log under
// dataDir/logs. The run log always records debug entries; the console only
// does when verbose is set. logs/latest points at the newest run log.
func openLog(dataDir string, verbose bool) (*zap.Logger, error) {
	logsDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, errs.Wrap(err)
	}

	logName := time.Now().UTC().Format(logTimeLayout) + ".json"
	runLog, err := os.OpenFile(filepath.Join(logsDir, logName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errs.Wrap(err)
	}

	fileEncoder := zap.NewProductionEncoderConfig()
	fileEncoder.EncodeTime = zapcore.ISO8601TimeEncoder
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoder), zapcore.AddSync(runLog), zap.DebugLevel)

	consoleLevel := zap.InfoLevel
	if verbose {
		consoleLevel = zap.DebugLevel
	}

	if err := linkLatest(logsDir, logName); err != nil {
		_ = runLog.Close()
		return nil, err
	}

	return zap.New(zapcore.NewTee(consoleCore(consoleLevel), fileCore)), nil
}

// openConsoleLog is the logger of commands that run before any data
// directory is known.
func openConsoleLog() *zap.Logger {
	return zap.New(consoleCore(zap.InfoLevel))
}

func consoleCore(level zapcore.Level) zapcore.Core {
	encoder := zap.NewDevelopmentEncoderConfig()
	encoder.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(encoder), zapcore.Lock(os.Stderr), level)
}

// linkLatest swaps logs/latest to name through a temporary link so readers
// never see it missing.
func linkLatest(logsDir, name string) error {
	tmp := filepath.Join(logsDir, ".latest")
	_ = os.Remove(tmp)
	if err := os.Symlink(name, tmp); err != nil {
		return errs.Wrap(err)
	}
	return errs.Wrap(os.Rename(tmp, filepath.Join(logsDir, "latest")))
}
