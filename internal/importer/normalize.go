package importer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// fieldAliases maps each canonical field name to the ordered list of source
// keys accepted for it. The canonical name is always tried first.
var fieldAliases = map[string][]string{
	"internId":       {"internId", "Intern ID", "InternID", "intern_id", "Intern Id", "ID"},
	"name":           {"name", "Name", "Name of the Intern", "Intern Name", "Full Name", "full_name"},
	"domain":         {"domain", "Domain", "Internship Domain"},
	"duration":       {"duration", "Duration", "Duration (Months)", "Duration in Months"},
	"startingDate":   {"startingDate", "Starting Date", "Start Date", "startDate", "start_date"},
	"completionDate": {"completionDate", "Completion Date", "End Date", "endDate", "Ending Date", "end_date"},
	"email":          {"email", "Email", "Email ID", "E-mail"},
	"status":         {"status", "Status"},
	"mentorName":     {"mentorName", "Mentor Name", "Mentor"},
	"mentorEmail":    {"mentorEmail", "Mentor Email"},
	"contactNo":      {"contactNo", "mentorContact", "Contact No", "Mentor Contact", "Contact Number"},
}

// Normalize maps one raw row onto the canonical record shape. It is a pure
// transform: absent or malformed inputs become empty or absent canonical
// fields, never errors.
func Normalize(raw map[string]interface{}) Record {
	rec := Record{
		InternID:       strings.ToUpper(strings.TrimSpace(stringValue(resolve(raw, "internId")))),
		Name:           titleCase(strings.TrimSpace(stringValue(resolve(raw, "name")))),
		Domain:         strings.TrimSpace(stringValue(resolve(raw, "domain"))),
		Duration:       intValue(resolve(raw, "duration")),
		StartingDate:   normalizeDate(resolve(raw, "startingDate")),
		CompletionDate: normalizeDate(resolve(raw, "completionDate")),
		Email:          strings.ToLower(strings.TrimSpace(stringValue(resolve(raw, "email")))),
		Status:         normalizeStatus(resolve(raw, "status")),
	}

	mentorName := titleCase(strings.TrimSpace(stringValue(resolve(raw, "mentorName"))))
	mentorEmail := strings.ToLower(strings.TrimSpace(stringValue(resolve(raw, "mentorEmail"))))
	mentorContact := digitsOnly(stringValue(resolve(raw, "contactNo")))
	if mentorName != "" || mentorEmail != "" || mentorContact != "" {
		rec.Mentor = &Mentor{Name: mentorName, Email: mentorEmail, ContactNo: mentorContact}
	}

	return rec
}

// resolve tries the canonical key first, then each display-name alias in
// priority order. Unresolved fields stay absent.
func resolve(raw map[string]interface{}, canonical string) interface{} {
	for _, key := range fieldAliases[canonical] {
		if v, ok := raw[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

// normalizeDate converts spreadsheet serials and known textual layouts into
// the canonical form. Unparseable strings pass through unchanged so the
// validator can flag them.
func normalizeDate(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case float64:
		return CanonicalDate(DateFromSerial(v))
	case int:
		return CanonicalDate(DateFromSerial(float64(v)))
	case int64:
		return CanonicalDate(DateFromSerial(float64(v)))
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return CanonicalDate(DateFromSerial(f))
		}
		return v.String()
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return ""
		}
		if t, ok := ParseDate(s); ok {
			return CanonicalDate(t)
		}
		return s
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func normalizeStatus(value interface{}) string {
	if strings.EqualFold(strings.TrimSpace(stringValue(value)), "revoked") {
		return "revoked"
	}
	return "active"
}

func stringValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func intValue(value interface{}) *int {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		n := int(v)
		return &n
	case int:
		n := v
		return &n
	case int64:
		n := int(v)
		return &n
	case json.Number:
		if i, err := v.Int64(); err == nil {
			n := int(i)
			return &n
		}
		if f, err := v.Float64(); err == nil {
			n := int(f)
			return &n
		}
		return nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		if n, err := strconv.Atoi(s); err == nil {
			return &n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			n := int(f)
			return &n
		}
		return nil
	default:
		return nil
	}
}

// titleCase upper-cases the first rune of each word and lower-cases the rest,
// collapsing repeated whitespace on the way.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
