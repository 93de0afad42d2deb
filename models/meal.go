package models

// CategoryPage is one menu page linked from the index, e.g. "Dinners".
type CategoryPage struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

// Nutrient is a single label/value pair from a meal's nutrition panel.
type Nutrient struct {
	Label string
	Value string
}

// Nutrients is an ordered label->value mapping. Order is the order the labels
// were encountered in the markup.
type Nutrients []Nutrient

// Get returns the value stored for label.
func (n Nutrients) Get(label string) (string, bool) {
	for _, nu := range n {
		if nu.Label == label {
			return nu.Value, true
		}
	}
	return "", false
}

// Set stores value under label, replacing an existing entry in place.
func (n *Nutrients) Set(label, value string) {
	for i := range *n {
		if (*n)[i].Label == label {
			(*n)[i].Value = value
			return
		}
	}
	*n = append(*n, Nutrient{Label: label, Value: value})
}

// Labels returns the labels in encounter order.
func (n Nutrients) Labels() []string {
	labels := make([]string, len(n))
	for i, nu := range n {
		labels[i] = nu.Label
	}
	return labels
}

// MealRecord is one meal entry scraped from a category page.
// ItemNumber and ServingSize are nil when absent from the markup.
type MealRecord struct {
	ItemNumber  *string
	Name        string
	ServingSize *string
	Nutrients   Nutrients
	Ingredients string
}

// Field looks a header label up against the record. The fixed fields are
// matched first, then the nutrient mapping.
func (m MealRecord) Field(label string) (string, bool) {
	switch label {
	case LabelItemNumber:
		if m.ItemNumber == nil {
			return "", false
		}
		return *m.ItemNumber, true
	case LabelName:
		return m.Name, true
	case LabelServingSize:
		if m.ServingSize == nil {
			return "", false
		}
		return *m.ServingSize, true
	case LabelIngredients:
		return m.Ingredients, true
	}
	return m.Nutrients.Get(label)
}
