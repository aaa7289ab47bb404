// Package calculation defines the operation requests, results, and history
// records shared by the engine, the ledger, and the HTTP layer.
package calculation

import "time"

// Kind is the closed tag identifying which computation variant a request
// represents.
type Kind string

const (
	KindAddition       Kind = "addition"
	KindSubtraction    Kind = "subtraction"
	KindMultiplication Kind = "multiplication"
	KindDivision       Kind = "division"
	KindPower          Kind = "power"
	KindPercentage     Kind = "percentage"
	KindSquareRoot     Kind = "square_root"
	KindSin            Kind = "sin"
	KindCos            Kind = "cos"
	KindTan            Kind = "tan"
	KindLog            Kind = "log"
	KindLn             Kind = "ln"
	KindConversion     Kind = "conversion"
	KindFinance        Kind = "finance"
)

// Kinds lists every operation kind, in catalog order.
func Kinds() []Kind {
	return []Kind{
		KindAddition, KindSubtraction, KindMultiplication, KindDivision,
		KindPower, KindPercentage, KindSquareRoot, KindSin, KindCos,
		KindTan, KindLog, KindLn, KindConversion, KindFinance,
	}
}

// Valid reports whether k is a known operation kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// AngleUnit selects the interpretation of trigonometric inputs.
type AngleUnit string

const (
	AngleRadians AngleUnit = "radians"
	AngleDegrees AngleUnit = "degrees"
)

// FinanceOp selects a financial formula.
type FinanceOp string

const (
	FinanceSimpleInterest   FinanceOp = "simple_interest"
	FinanceCompoundInterest FinanceOp = "compound_interest"
	FinanceLoanPayment      FinanceOp = "loan_payment"
)

// BasicRequest is a binary arithmetic request.
type BasicRequest struct {
	Num1      float64 `json:"num1"`
	Num2      float64 `json:"num2"`
	Operation Kind    `json:"operation"`
}

// AdvancedRequest is a unary scientific request. AngleUnit defaults to
// radians and only matters for sin/cos/tan.
type AdvancedRequest struct {
	Value     float64   `json:"value"`
	Operation Kind      `json:"operation"`
	AngleUnit AngleUnit `json:"angle_unit,omitempty"`
}

// ConversionRequest converts a value between two units of the same domain.
type ConversionRequest struct {
	Value    float64 `json:"value"`
	FromUnit string  `json:"from_unit"`
	ToUnit   string  `json:"to_unit"`
	Domain   string  `json:"conversion_type"`
}

// FinanceRequest is a financial formula request. Rate is a percentage
// (5 means 5%), Term is in years.
type FinanceRequest struct {
	Principal float64   `json:"principal"`
	Rate      float64   `json:"rate"`
	Term      float64   `json:"time"`
	Operation FinanceOp `json:"operation"`
}

// Result is the outcome of a successful engine invocation: the numeric value
// at full precision plus a canonical, deterministic expression string.
type Result struct {
	Value      float64
	Expression string
	Kind       Kind
}

// Record is one immutable ledger entry.
type Record struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	Kind       Kind      `json:"operation_type"`
	Expression string    `json:"expression"`
	Result     string    `json:"result"`
	CreatedAt  time.Time `json:"created_at"`
}

// Filter narrows a history query. Zero fields are unconstrained; predicates
// are conjunctive.
type Filter struct {
	Kind  Kind
	Start time.Time
	End   time.Time
	Limit int
}

const (
	// FilterDefaultLimit applies when a filter leaves Limit unset.
	FilterDefaultLimit = 100
	// FilterMaxLimit caps any history query.
	FilterMaxLimit = 1000
)

// EffectiveLimit resolves the query limit against the default and ceiling.
func (f Filter) EffectiveLimit() int {
	if f.Limit <= 0 {
		return FilterDefaultLimit
	}
	if f.Limit > FilterMaxLimit {
		return FilterMaxLimit
	}
	return f.Limit
}

// Stats summarizes a user's ledger over a bounded recent window.
type Stats struct {
	TotalCalculations   int64          `json:"total_calculations"`
	OperationCounts     map[Kind]int64 `json:"operation_counts"`
	RecentActivityCount int            `json:"recent_activity_count"`
}

// ExportRow is one line of a history export. It is a pure projection of a
// list result; renderers must not reorder or refilter rows.
type ExportRow struct {
	Index      int
	Expression string
	Result     string
	Kind       Kind
	CreatedAt  time.Time
}
