package events

// ViewEvent records a single fetch of a book listing. Fields other than
// BookID and Timestamp are best-effort request metadata.
type ViewEvent struct {
	BookID    string
	Timestamp int64
	IP        string
	UserAgent string
	Referer   string
}
