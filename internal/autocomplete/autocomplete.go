// Package autocomplete holds the keyword suggestions offered by the truck
// transaction forms.
package autocomplete

import (
	"regexp"
)

const (
	FieldDestination = "destination"
	FieldCustomer    = "customer"
)

// Data maps a form field to its candidate values.
type Data map[string][]string

// NewData drops empty values, which distinct queries happily return.
func NewData(destinations, customers []string) Data {
	return Data{
		FieldDestination: nonEmpty(destinations),
		FieldCustomer:    nonEmpty(customers),
	}
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Filter returns the values of field that contain keyword, ignoring case.
// The keyword is matched literally.
func Filter(data Data, field, keyword string) []string {
	values := data[field]
	matched := make([]string, 0, len(values))
	if len(values) == 0 {
		return matched
	}

	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(keyword))
	for _, v := range values {
		if re.MatchString(v) {
			matched = append(matched, v)
		}
	}
	return matched
}
