// Package normalize splits the leading item number off a meal's display name.
package normalize

import (
	"regexp"
	"strings"

	"github.com/dtnitsch/lne-nutrition/models"
)

var reItemNumber = regexp.MustCompile(`^([0-9]+)[\s\p{Z}]+`)

// SplitItemNumber returns the digit run at the very start of name when it is
// followed by whitespace, and the trimmed remainder. ok is false otherwise
// and name is returned unchanged.
func SplitItemNumber(name string) (number, rest string, ok bool) {
	m := reItemNumber.FindStringSubmatchIndex(name)
	if m == nil {
		return "", name, false
	}
	return name[m[2]:m[3]], strings.TrimSpace(name[m[1]:]), true
}

// Normalize applies SplitItemNumber to rec.Name. Nutrients, serving size and
// ingredients are left as extracted.
func Normalize(rec models.MealRecord) models.MealRecord {
	number, rest, ok := SplitItemNumber(rec.Name)
	if !ok {
		rec.ItemNumber = nil
		return rec
	}
	rec.ItemNumber = &number
	rec.Name = rest
	return rec
}

// All normalizes every record in place and returns the slice.
func All(records []models.MealRecord) []models.MealRecord {
	for i := range records {
		records[i] = Normalize(records[i])
	}
	return records
}
