package planner

import "time"

const DefaultNoticeTTL = 3 * time.Second

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

var severityColors = map[Severity]string{
	SeveritySuccess: "#4caf50",
	SeverityError:   "#f44336",
	SeverityInfo:    "#2196f3",
}

// Color returns the display color for s
func (s Severity) Color() string {
	if c, ok := severityColors[s]; ok {
		return c
	}
	return severityColors[SeverityInfo]
}

// Notice is the single transient message shown to the user
type Notice struct {
	Message   string
	Severity  Severity
	Color     string
	ExpiresAt time.Time
}

func (n Notice) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}
