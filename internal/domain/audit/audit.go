package audit

import (
	"time"

	"github.com/google/uuid"
)

// Category groups audit events by the area of the app they touch.
type Category string

const (
	CategoryRegistration Category = "registration"
	CategoryConfig       Category = "config"
	CategoryExport       Category = "export"
)

// Action represents the action that occurred.
type Action string

const (
	ActionToggle    Action = "toggle"
	ActionDelete    Action = "delete"
	ActionDeleteAll Action = "delete_all"
	ActionDownload  Action = "download"
)

// Severity represents the severity level of an audit event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event is a single admin action. Applicant submissions are not audited.
type Event struct {
	ID           string
	Timestamp    time.Time
	Category     Category
	Action       Action
	Severity     Severity
	Actor        string
	ResourceType string
	ResourceID   string
	Description  string
	IPAddress    string
	UserAgent    string
}

// NewEvent creates a new audit event stamped with now.
// PRE: actor and action are non-empty
// POST: Returns an Event with a fresh ID and info severity
func NewEvent(actor string, category Category, action Action, now time.Time) Event {
	return Event{
		ID:        uuid.New().String(),
		Timestamp: now.UTC(),
		Category:  category,
		Action:    action,
		Severity:  SeverityInfo,
		Actor:     actor,
	}
}

// WithSeverity sets the severity level.
func (e Event) WithSeverity(s Severity) Event {
	e.Severity = s
	return e
}

// WithResource sets resource information.
func (e Event) WithResource(resourceType, resourceID string) Event {
	e.ResourceType = resourceType
	e.ResourceID = resourceID
	return e
}

// WithDescription sets the event description.
func (e Event) WithDescription(desc string) Event {
	e.Description = desc
	return e
}

// WithRequest sets IP address and user agent from the HTTP request.
func (e Event) WithRequest(ipAddress, userAgent string) Event {
	e.IPAddress = ipAddress
	e.UserAgent = userAgent
	return e
}
