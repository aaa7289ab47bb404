package engine

// CatalogEntry describes one operation for the public catalog endpoint.
type CatalogEntry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
	Inputs int    `json:"inputs"`
}

// Catalog is the static description of every supported operation. It is a
// pure constant with no state behind it.
type Catalog struct {
	BasicOperations    []CatalogEntry      `json:"basic_operations"`
	AdvancedOperations []CatalogEntry      `json:"advanced_operations"`
	Conversions        map[string][]string `json:"conversions"`
	FinanceOperations  []CatalogEntry      `json:"finance_operations"`
}

// Operations returns the operations catalog.
func Operations() Catalog {
	return Catalog{
		BasicOperations: []CatalogEntry{
			{ID: "addition", Name: "Addition", Symbol: "+", Inputs: 2},
			{ID: "subtraction", Name: "Subtraction", Symbol: "-", Inputs: 2},
			{ID: "multiplication", Name: "Multiplication", Symbol: "×", Inputs: 2},
			{ID: "division", Name: "Division", Symbol: "÷", Inputs: 2},
			{ID: "power", Name: "Power", Symbol: "^", Inputs: 2},
			{ID: "percentage", Name: "Percentage", Symbol: "%", Inputs: 2},
		},
		AdvancedOperations: []CatalogEntry{
			{ID: "square_root", Name: "Square Root", Symbol: "√", Inputs: 1},
			{ID: "sin", Name: "Sine", Symbol: "sin", Inputs: 1},
			{ID: "cos", Name: "Cosine", Symbol: "cos", Inputs: 1},
			{ID: "tan", Name: "Tangent", Symbol: "tan", Inputs: 1},
			{ID: "log", Name: "Logarithm (base 10)", Symbol: "log", Inputs: 1},
			{ID: "ln", Name: "Natural Logarithm", Symbol: "ln", Inputs: 1},
		},
		Conversions: map[string][]string{
			DomainLength:      Units(DomainLength),
			DomainWeight:      Units(DomainWeight),
			DomainTemperature: Units(DomainTemperature),
		},
		FinanceOperations: []CatalogEntry{
			{ID: "simple_interest", Name: "Simple Interest", Inputs: 3},
			{ID: "compound_interest", Name: "Compound Interest", Inputs: 3},
			{ID: "loan_payment", Name: "Loan Monthly Payment", Inputs: 3},
		},
	}
}
