package ai

// Note is one piece of knowledge the model extracted, assigned to a
// model-discovered topic.
type Note struct {
	Topic      string   `json:"topic"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags,omitempty"`
	SourceFile string   `json:"source_file"`
}

// Event is a dated item the model extracted (meeting, deadline, appointment).
type Event struct {
	Date        string `json:"date"` // YYYY-MM-DD
	Time        string `json:"time,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	SourceFile  string `json:"source_file"`
}

// Result is the structured output of one classification call.
type Result struct {
	Topics []string `json:"topics"`
	Events []Event  `json:"calendar_events"`
	Notes  []Note   `json:"notes"`
}
