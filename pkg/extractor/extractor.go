// Package extractor pulls meal records out of a category page.
package extractor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/lne-nutrition/models"
	"github.com/dtnitsch/lne-nutrition/pkg/htmlutil"
)

// Class markers used by the category page markup.
const (
	ClassName        = "IngredName"
	ClassServing     = "Ingred_Serving_Contents"
	ClassIngredients = "Ingred_Ingred_Contents"
)

const (
	sodiumLabel = models.LabelSodium
	sodiumUnit  = "mg"
	tripleWidth = 3 // label, per serving, per 100g
)

// ErrMissingIngredients is returned when a meal entry has no ingredients element.
var ErrMissingIngredients = errors.New("missing ingredients element")

// ExtractionError identifies the meal entry a page failed on.
type ExtractionError struct {
	Entry int // zero-based, document order
	Meal  string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("meal entry %d (%q): %v", e.Entry, e.Meal, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extract returns one raw record per meal entry in document order, plus any
// non-fatal warnings about the entries. A page with no entries yields no
// records and no error.
func Extract(doc *goquery.Document) ([]models.MealRecord, []string, error) {
	var (
		records  []models.MealRecord
		warnings []string
		err      error
	)

	entries(doc.Selection).EachWithBreak(func(i int, td *goquery.Selection) bool {
		rec, warns, extractErr := extractEntry(td)
		for _, w := range warns {
			warnings = append(warnings, fmt.Sprintf("meal entry %d (%q): %s", i, rec.Name, w))
		}
		if extractErr != nil {
			err = &ExtractionError{Entry: i, Meal: rec.Name, Err: extractErr}
			return false
		}
		records = append(records, rec)
		return true
	})
	if err != nil {
		return nil, warnings, err
	}
	return records, warnings, nil
}

// entries selects table cells with a direct IngredName child holding an h2.
func entries(sel *goquery.Selection) *goquery.Selection {
	return sel.Find("td").FilterFunction(func(_ int, td *goquery.Selection) bool {
		return td.ChildrenFiltered("." + ClassName).Find("h2").Length() > 0
	})
}

func extractEntry(td *goquery.Selection) (models.MealRecord, []string, error) {
	var rec models.MealRecord

	rec.Name, _ = htmlutil.OwnText(td.Find("h2").First())

	if serving, ok := htmlutil.OwnText(td.Find("." + ClassServing).First()); ok {
		rec.ServingSize = &serving
	}

	nutrients, warnings := extractNutrients(td.Find("table td"))
	rec.Nutrients = nutrients

	ings := td.Find("." + ClassIngredients).First()
	if ings.Length() == 0 {
		return rec, warnings, ErrMissingIngredients
	}
	rec.Ingredients = htmlutil.FlattenText(ings)

	return rec, warnings, nil
}

// extractNutrients walks cells as label/value/per-100g triples and stops
// right after the Sodium pair.
func extractNutrients(cells *goquery.Selection) (models.Nutrients, []string) {
	var (
		nutrients models.Nutrients
		warnings  []string
	)
	n := cells.Length()
	for i := 0; i < n; i += tripleWidth {
		key := htmlutil.FlattenText(cells.Eq(i))
		if i+1 >= n {
			warnings = append(warnings, fmt.Sprintf("nutrient %q has no value cell", key))
			break
		}
		value := htmlutil.FlattenText(cells.Eq(i + 1))

		if key == sodiumLabel {
			value = strings.TrimSpace(strings.ReplaceAll(value, sodiumUnit, ""))
			nutrients.Set(key, value)
			break
		}
		nutrients.Set(key, value)
	}
	return nutrients, warnings
}
