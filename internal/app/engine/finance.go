package engine

import (
	"fmt"
	"math"

	"github.com/MathHub-Labs/calc-service/internal/app/domain/calculation"
	"github.com/MathHub-Labs/calc-service/internal/errors"
)

// Finance evaluates a financial formula. Rate arrives as a percentage and is
// used as a decimal fraction internally; results are rounded to two decimal
// places here, once, and never re-rounded on display.
func Finance(req calculation.FinanceRequest) (calculation.Result, error) {
	if req.Principal <= 0 {
		return calculation.Result{}, errors.InvalidInput("principal must be positive").
			WithDetails("principal", req.Principal)
	}
	if req.Rate < 0 {
		return calculation.Result{}, errors.InvalidInput("rate must not be negative").
			WithDetails("rate", req.Rate)
	}
	if req.Term <= 0 {
		return calculation.Result{}, errors.InvalidInput("time period must be positive").
			WithDetails("time", req.Term)
	}

	rate := req.Rate / 100

	var (
		value      float64
		expression string
	)

	switch req.Operation {
	case calculation.FinanceSimpleInterest:
		value = req.Principal * rate * req.Term
		expression = fmt.Sprintf("SI: P=%s, R=%s%%, T=%s",
			formatNumber(req.Principal), formatNumber(req.Rate), formatNumber(req.Term))

	case calculation.FinanceCompoundInterest:
		// Annual compounding.
		value = req.Principal * (math.Pow(1+rate, req.Term) - 1)
		expression = fmt.Sprintf("CI: P=%s, R=%s%%, T=%s",
			formatNumber(req.Principal), formatNumber(req.Rate), formatNumber(req.Term))

	case calculation.FinanceLoanPayment:
		monthlyRate := rate / 12
		nPayments := req.Term * 12
		if monthlyRate == 0 {
			// The amortization formula divides by zero at rate 0.
			value = req.Principal / nPayments
		} else {
			growth := math.Pow(1+monthlyRate, nPayments)
			value = req.Principal * monthlyRate * growth / (growth - 1)
		}
		expression = fmt.Sprintf("Loan: P=%s, R=%s%% p.a., T=%s years",
			formatNumber(req.Principal), formatNumber(req.Rate), formatNumber(req.Term))

	default:
		return calculation.Result{}, errors.UnsupportedOperation(string(req.Operation))
	}

	return calculation.Result{
		Value:      roundToCents(value),
		Expression: expression,
		Kind:       calculation.KindFinance,
	}, nil
}

func roundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}
