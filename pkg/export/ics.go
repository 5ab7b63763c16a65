package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// CalendarEvent is one timed entry of an ICS export.
type CalendarEvent struct {
	UID         string
	Start       time.Time
	End         time.Time
	Summary     string
	Location    string
	Description string
}

// ICSExporter renders events as an iCalendar feed.
type ICSExporter struct {
	ProductID string
	now       func() time.Time
}

// NewICSExporter constructs an ICS exporter.
func NewICSExporter(productID string) *ICSExporter {
	if productID == "" {
		productID = "-//kiosk-api//schedule//RU"
	}
	return &ICSExporter{ProductID: productID, now: time.Now}
}

// Render serializes events into a VCALENDAR document.
func (e *ICSExporter) Render(name string, events []CalendarEvent) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(e.ProductID)
	if name != "" {
		cal.SetName(name)
	}

	stamp := e.now().UTC()
	for _, event := range events {
		if event.UID == "" {
			return nil, fmt.Errorf("ics event %q has no uid", event.Summary)
		}
		if !event.End.After(event.Start) {
			return nil, fmt.Errorf("ics event %q ends before it starts", event.Summary)
		}
		vevent := cal.AddEvent(event.UID)
		vevent.SetDtStampTime(stamp)
		vevent.SetStartAt(event.Start)
		vevent.SetEndAt(event.End)
		vevent.SetSummary(event.Summary)
		if event.Location != "" {
			vevent.SetLocation(event.Location)
		}
		if event.Description != "" {
			vevent.SetDescription(event.Description)
		}
	}

	return []byte(cal.Serialize()), nil
}
