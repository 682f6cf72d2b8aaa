package domain

import "errors"

// ErrNotFound is returned by stores when no document exists for a key.
var ErrNotFound = errors.New("not found")

// TaskSource tags which input section a task was derived from.
type TaskSource string

const (
	SourceEmail    TaskSource = "Email"
	SourceWhatsApp TaskSource = "WhatsApp"
	SourceManual   TaskSource = "Manual"
)

func (s TaskSource) Valid() bool {
	switch s {
	case SourceEmail, SourceWhatsApp, SourceManual:
		return true
	}
	return false
}

// Task is an actionable item extracted from the day's communications
// (or added manually). The ID stays stable across completion toggles.
type Task struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	IsCompleted bool       `json:"isCompleted"`
	Source      TaskSource `json:"source"`
}

// CalendarEvent is an appointment extracted from the corpus. Time is the
// free-form descriptor the extractor produced (e.g. "Tomorrow at 10:00 AM"),
// kept as a display string rather than a parsed timestamp.
type CalendarEvent struct {
	ID           string   `json:"id"`
	Time         string   `json:"time"`
	Title        string   `json:"title"`
	Participants []string `json:"participants"`
}

type InsightCategory string

const (
	CategoryStrategic    InsightCategory = "Strategic"
	CategoryProductivity InsightCategory = "Productivity"
	CategoryPersonal     InsightCategory = "Personal"
)

func (c InsightCategory) Valid() bool {
	switch c {
	case CategoryStrategic, CategoryProductivity, CategoryPersonal:
		return true
	}
	return false
}

// Insight is a proactive suggestion derived from the day's communications.
type Insight struct {
	ID       string          `json:"id"`
	Text     string          `json:"text"`
	Category InsightCategory `json:"category"`
}

// Briefing is the aggregated daily artifact for one identity and one
// calendar day. It is written atomically: either all four fields exist
// for a day, or no document exists at all. Tasks may be patched
// independently afterwards via completion toggling.
type Briefing struct {
	Summary  string          `json:"summary"`
	Tasks    []Task          `json:"tasks"`
	Events   []CalendarEvent `json:"events"`
	Insights []Insight       `json:"insights"`
}

// Clone returns a deep copy so callers and stores never share slices.
func (b *Briefing) Clone() *Briefing {
	if b == nil {
		return nil
	}
	out := &Briefing{Summary: b.Summary}
	out.Tasks = CloneTasks(b.Tasks)
	if b.Events != nil {
		out.Events = make([]CalendarEvent, len(b.Events))
		for i, e := range b.Events {
			out.Events[i] = e
			if e.Participants != nil {
				out.Events[i].Participants = append([]string(nil), e.Participants...)
			}
		}
	}
	if b.Insights != nil {
		out.Insights = append([]Insight(nil), b.Insights...)
	}
	return out
}

// CloneTasks copies a task slice, preserving nil vs empty.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	return append([]Task(nil), tasks...)
}
