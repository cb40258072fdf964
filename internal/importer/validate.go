package importer

import "strings"

// Validate checks a canonical record and returns an ordered list of defect
// messages. All rules are evaluated so a caller sees every defect at once;
// an empty list means the record is valid. It never panics.
func Validate(rec Record) []string {
	defects := make([]string, 0, 4)

	if rec.InternID == "" {
		defects = append(defects, "internId is required")
	}
	if rec.Name == "" {
		defects = append(defects, "name is required")
	}
	if rec.Domain == "" {
		defects = append(defects, "domain is required")
	}
	if rec.Duration == nil {
		defects = append(defects, "duration is required")
	}

	defects = append(defects, dateDefects("startingDate", rec.StartingDate)...)
	defects = append(defects, dateDefects("completionDate", rec.CompletionDate)...)

	return defects
}

func dateDefects(field, value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{field + " is required"}
	}
	if _, ok := ParseDate(value); !ok {
		return []string{field + " must be a valid date in DD-MM-YYYY or YYYY-MM-DD format"}
	}
	return nil
}
