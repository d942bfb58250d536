package models

type LogType string

const (
	LogSystem   LogType = "SYSTEM"
	LogResponse LogType = "RESPONSE"
	LogWarn     LogType = "WARN"
	LogError    LogType = "ERROR"
)

// LogEntry is one operator-facing log line.
type LogEntry struct {
	ID      int64   `json:"id"`
	Time    string  `json:"time"`
	Type    LogType `json:"type"`
	Content string  `json:"content"`
}

// Line renders the entry as "[time] content".
func (e LogEntry) Line() string {
	return "[" + e.Time + "] " + e.Content
}
