package logger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Category  string `json:"category"`
	Message   string `json:"message"`
}

// Logger writes colored category-tagged lines to stdout and, when a
// log directory is configured, JSON lines to a daily file.
type Logger struct {
	logFile *os.File
}

// NewLogger creates a logger. LOKSANGAM_LOG_DIR selects the directory
// for the JSON file log; leave it unset to log to stdout only.
func NewLogger() *Logger {
	l := &Logger{}

	dir := os.Getenv("LOKSANGAM_LOG_DIR")
	if dir == "" {
		return l
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Failed to create log directory %s: %v", dir, err)
		return l
	}
	name := filepath.Join(dir, fmt.Sprintf("loksangam-%s.log", time.Now().Format("2006-01-02")))
	logFile, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Failed to open log file %s: %v", name, err)
		return l
	}
	l.logFile = logFile
	return l
}

func (l *Logger) log(level LogLevel, category, message string) {
	entry := LogEntry{
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Level:     levelString(level),
		Category:  strings.ToUpper(category),
		Message:   message,
	}

	fmt.Print(l.terminalLine(entry))

	if l.logFile != nil {
		jsonBytes, _ := json.Marshal(entry)
		l.logFile.WriteString(string(jsonBytes) + "\n")
	}
}

func (l *Logger) terminalLine(entry LogEntry) string {
	var levelColor *color.Color
	switch entry.Level {
	case "DEBUG":
		levelColor = color.New(color.FgCyan)
	case "INFO":
		levelColor = color.New(color.FgGreen)
	case "WARN":
		levelColor = color.New(color.FgYellow)
	case "ERROR", "FATAL":
		levelColor = color.New(color.FgRed)
	default:
		levelColor = color.New(color.FgWhite)
	}

	timeStr := color.New(color.FgBlue).Sprint(entry.Timestamp[11:19])
	levelStr := levelColor.Sprintf("%-5s", entry.Level)
	categoryStr := levelColor.Sprintf("[%-8s]", entry.Category)
	return fmt.Sprintf("%s %s %s %s\n", timeStr, levelStr, categoryStr, entry.Message)
}

func levelString(level LogLevel) string {
	switch level {
	case DEBUG:
		return "DEBUG"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "INFO"
	}
}

func (l *Logger) Debug(category, message string) {
	l.log(DEBUG, category, message)
}

func (l *Logger) Info(category, message string) {
	l.log(INFO, category, message)
}

func (l *Logger) Warn(category, message string) {
	l.log(WARN, category, message)
}

func (l *Logger) Error(category, message string) {
	l.log(ERROR, category, message)
}

func (l *Logger) Fatal(category, message string) {
	l.log(FATAL, category, message)
	os.Exit(1)
}

// LogRequest records one served HTTP request.
func (l *Logger) LogRequest(method, path string, status int, duration time.Duration) {
	l.Info("HTTP", fmt.Sprintf("%s %s - %d (%s)", method, path, status, duration))
}

func (l *Logger) Close() {
	if l.logFile != nil {
		l.logFile.Close()
	}
}
