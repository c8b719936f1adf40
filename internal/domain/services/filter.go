package services

import "github.com/ersonp/lexis/internal/domain/entities"

// Evaluate returns the records whose properties satisfy every present
// criterion, preserving input order. Empty criteria return all records.
func Evaluate(records []entities.StringRecord, criteria entities.FilterCriteria) []entities.StringRecord {
	result := make([]entities.StringRecord, 0, len(records))
	for i := range records {
		if criteria.Match(records[i].Properties) {
			result = append(result, records[i])
		}
	}
	return result
}
