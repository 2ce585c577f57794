package source

// Record is one normalized raw interaction event. User and item identifiers
// keep their original source form; the builder assigns dense ids later.
type Record struct {
	UserID    string
	ItemID    string
	Rating    float64
	Timestamp int64
}

// Result carries the normalized records plus ingestion drop accounting.
type Result struct {
	Records []Record
	// Dropped counts malformed records skipped during ingestion.
	Dropped int
}
