// Package logging configures the application-wide logrus logger. Log lines
// go to a size-rotated file under logs/ and each entry carries a unique
// event ID so individual requests can be traced through the file.
package logging

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger = logrus.New()

// Formatter writes single-line entries with a stable field order.
type Formatter struct {
	SystemName string
}

func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	b.WriteString(fmt.Sprintf("time=%s ", entry.Time.Format("2006-01-02T15:04:05Z07:00")))
	b.WriteString(fmt.Sprintf("source=%s ", f.SystemName))
	b.WriteString(fmt.Sprintf("level=%s ", strings.ToUpper(entry.Level.String())))
	b.WriteString(fmt.Sprintf("event_id=%s ", uuid.New().String()))

	for k, v := range entry.Data {
		b.WriteString(fmt.Sprintf("%s=%v ", k, v))
	}

	b.WriteString(fmt.Sprintf("msg=%q", entry.Message))
	b.WriteByte('\n')
	return b.Bytes(), nil
}

// Init points the logger at a rotating file. In dev the output is mirrored
// to stderr so logs show up in the terminal.
func Init(env string) {
	if _, err := os.Stat("logs"); os.IsNotExist(err) {
		if err := os.Mkdir("logs", 0o755); err != nil {
			logrus.Fatalf("failed to create log directory: %v", err)
		}
	}

	logFile := &lumberjack.Logger{
		Filename:   "logs/api.log",
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	Logger.SetOutput(logFile)
	Logger.SetFormatter(&Formatter{SystemName: "task-tracker-api"})
	Logger.SetLevel(logrus.InfoLevel)

	if env == "dev" {
		Logger.SetOutput(os.Stderr)
	}
}
