package domain

// QualityCounters tally what a table transform did to one batch.
// MissingRemoved and MissingFilled are keyed by column name.
type QualityCounters struct {
	Table             string
	Processed         int
	DuplicatesRemoved int
	MissingRemoved    map[string]int
	MissingFilled     map[string]int
	Loaded            int
}

func NewQualityCounters(table string) QualityCounters {
	return QualityCounters{
		Table:          table,
		MissingRemoved: map[string]int{},
		MissingFilled:  map[string]int{},
	}
}

// Removed returns the count of rows dropped for a missing value in column.
func (c QualityCounters) Removed(column string) int {
	return c.MissingRemoved[column]
}

// Filled returns the count of values substituted in column.
func (c QualityCounters) Filled(column string) int {
	return c.MissingFilled[column]
}
