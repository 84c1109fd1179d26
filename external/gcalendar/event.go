package gcalendar

// Event is the subset of a Calendar API event the league publishes.
type Event struct {
	ID          string    `json:"id,omitempty"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Start       EventTime `json:"start"`
	End         EventTime `json:"end"`
	ColorID     string    `json:"colorId,omitempty"`
}

type EventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

type eventsPage struct {
	Items         []Event `json:"items"`
	NextPageToken string  `json:"nextPageToken"`
}
