package models

const (
	// MaxMarksPerSubject is the best score a student can get in one subject.
	MaxMarksPerSubject = 100

	// FailThreshold is the mark below which a score counts as failed.
	FailThreshold = 35
)

// StudentTotal is a student's summed marks, with the fields needed to rank and display it.
type StudentTotal struct {
	StudentID  int64
	Identifier string
	Name       string
	Department string
	Total      int
}

// SubjectStats are the raw aggregates of one subject's marks.
type SubjectStats struct {
	SubjectID int64
	Name      string
	Count     int
	Sum       int
	Max       int
	Min       int
	Fail      int
}
