package common

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *zap.Logger

func GetLogger() *zap.Logger {
	return logger
}

func InitLog() {
	// rotate the service log so unattended daily runs never fill the disk
	writeSyncer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   config.LogPath,
		MaxSize:    10, // MB
		MaxBackups: 10,
		MaxAge:     14, // days, matches the run-log retention window
		LocalTime:  true,
	})

	customTimeEncoder := func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Local().Format("2006-01-02 15:04:05.000"))
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		MessageKey:     "M",
		CallerKey:      "C",
		NameKey:        "N",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	encoder := zapcore.NewConsoleEncoder(encoderConfig)
	core := zapcore.NewCore(encoder, writeSyncer, zapcore.InfoLevel)
	logger = zap.New(core, zap.AddCaller())
}
