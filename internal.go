package scopedlog

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

func (s *Service) initializeRollingFileLogger(name string) *lumberjack.Logger {
	if name == emptyString {
		name = defaultLogFileName
	}

	path := filepath.Join(s.WorkingDir, s.config.RelLogFileDir, name+".log")

	return &lumberjack.Logger{
		Filename:   path,
		MaxBackups: s.config.LogFileMaxBackups,
		MaxAge:     s.config.LogFileMaxAgeDays,
		MaxSize:    s.config.LogFileMaxSizeMB,
		Compress:   s.config.LogFileCompress,
	}
}

func (s *Service) initializeWriters() []io.Writer {
	var writers []io.Writer

	if s.Output != nil {
		writers = append(writers, s.Output)
	}
	if s.config.FileLogging {
		s.fileWriter = s.initializeRollingFileLogger(s.config.LogFileName)
		writers = append(writers, s.fileWriter)
	}
	if s.config.ConsoleLogging {
		cw := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: s.config.ConsoleNoColor}
		if s.config.ConsoleTimeFormat != emptyString {
			cw.TimeFormat = s.config.ConsoleTimeFormat
		}
		writers = append(writers, cw)
	}

	return writers
}
