package domain

// QualityReport is the per-table summary of the corrections applied in a batch.
type QualityReport struct {
	RunID    string
	Sections []ReportSection
}

// ReportSection holds the counters of one source table, in display order.
type ReportSection struct {
	Title    string
	Counters []ReportCounter
}

type ReportCounter struct {
	Name  string
	Value int
}
