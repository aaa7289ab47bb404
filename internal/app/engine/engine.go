// Package engine evaluates calculation requests. Every function is pure:
// given a request it returns a numeric result and a canonical expression
// string, or a structured validation error. The engine knows nothing about
// users or storage.
package engine

import (
	"fmt"
	"math"
	"strconv"

	"github.com/MathHub-Labs/calc-service/internal/app/domain/calculation"
	"github.com/MathHub-Labs/calc-service/internal/errors"
)

// Basic evaluates a binary arithmetic request.
func Basic(req calculation.BasicRequest) (calculation.Result, error) {
	var (
		value      float64
		expression string
	)

	switch req.Operation {
	case calculation.KindAddition:
		value = req.Num1 + req.Num2
		expression = fmt.Sprintf("%s + %s", formatNumber(req.Num1), formatNumber(req.Num2))
	case calculation.KindSubtraction:
		value = req.Num1 - req.Num2
		expression = fmt.Sprintf("%s - %s", formatNumber(req.Num1), formatNumber(req.Num2))
	case calculation.KindMultiplication:
		value = req.Num1 * req.Num2
		expression = fmt.Sprintf("%s × %s", formatNumber(req.Num1), formatNumber(req.Num2))
	case calculation.KindDivision:
		if req.Num2 == 0 {
			return calculation.Result{}, errors.DivisionByZero()
		}
		value = req.Num1 / req.Num2
		expression = fmt.Sprintf("%s ÷ %s", formatNumber(req.Num1), formatNumber(req.Num2))
	case calculation.KindPower:
		value = math.Pow(req.Num1, req.Num2)
		expression = fmt.Sprintf("%s^%s", formatNumber(req.Num1), formatNumber(req.Num2))
	case calculation.KindPercentage:
		value = req.Num1 * req.Num2 / 100
		expression = fmt.Sprintf("%s%% of %s", formatNumber(req.Num1), formatNumber(req.Num2))
	default:
		return calculation.Result{}, errors.UnsupportedOperation(string(req.Operation))
	}

	return calculation.Result{Value: value, Expression: expression, Kind: req.Operation}, nil
}

// Advanced evaluates a unary scientific request. Degrees are converted to
// radians before trigonometric evaluation; the expression always shows the
// original input value with its unit suffix.
func Advanced(req calculation.AdvancedRequest) (calculation.Result, error) {
	angleUnit := req.AngleUnit
	if angleUnit == "" {
		angleUnit = calculation.AngleRadians
	}
	if angleUnit != calculation.AngleRadians && angleUnit != calculation.AngleDegrees {
		return calculation.Result{}, errors.InvalidAngleUnit(string(angleUnit))
	}

	value := req.Value
	isTrig := req.Operation == calculation.KindSin ||
		req.Operation == calculation.KindCos ||
		req.Operation == calculation.KindTan

	angleSuffix := ""
	if isTrig {
		if angleUnit == calculation.AngleDegrees {
			value = req.Value * math.Pi / 180
			angleSuffix = "°"
		} else {
			angleSuffix = " rad"
		}
	}

	var (
		result     float64
		expression string
	)

	switch req.Operation {
	case calculation.KindSquareRoot:
		if value < 0 {
			return calculation.Result{}, errors.NegativeSquareRoot(value)
		}
		result = math.Sqrt(value)
		expression = fmt.Sprintf("√%s", formatNumber(req.Value))
	case calculation.KindSin:
		result = math.Sin(value)
		expression = fmt.Sprintf("sin(%s%s)", formatNumber(req.Value), angleSuffix)
	case calculation.KindCos:
		result = math.Cos(value)
		expression = fmt.Sprintf("cos(%s%s)", formatNumber(req.Value), angleSuffix)
	case calculation.KindTan:
		result = math.Tan(value)
		expression = fmt.Sprintf("tan(%s%s)", formatNumber(req.Value), angleSuffix)
	case calculation.KindLog:
		if value <= 0 {
			return calculation.Result{}, errors.NonPositiveLog(value)
		}
		result = math.Log10(value)
		expression = fmt.Sprintf("log₁₀(%s)", formatNumber(req.Value))
	case calculation.KindLn:
		if value <= 0 {
			return calculation.Result{}, errors.NonPositiveLog(value)
		}
		result = math.Log(value)
		expression = fmt.Sprintf("ln(%s)", formatNumber(req.Value))
	default:
		return calculation.Result{}, errors.UnsupportedOperation(string(req.Operation))
	}

	return calculation.Result{Value: result, Expression: expression, Kind: req.Operation}, nil
}

// formatNumber renders a float deterministically, without a trailing ".0"
// for integral values. Expressions built from it are stable for identical
// inputs, which the history ledger relies on. Values of ordinary magnitude
// stay in plain decimal notation; only extreme magnitudes fall back to
// scientific form.
func formatNumber(v float64) string {
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e15) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatResult renders a numeric result for storage in a history record.
func FormatResult(v float64) string {
	return formatNumber(v)
}
