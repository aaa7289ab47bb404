package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MathHub-Labs/calc-service/internal/app/domain/calculation"
	"github.com/MathHub-Labs/calc-service/internal/errors"
)

func TestBasic(t *testing.T) {
	tests := []struct {
		name       string
		req        calculation.BasicRequest
		value      float64
		expression string
	}{
		{
			name:       "addition",
			req:        calculation.BasicRequest{Num1: 5, Num2: 3, Operation: calculation.KindAddition},
			value:      8,
			expression: "5 + 3",
		},
		{
			name:       "subtraction negative result",
			req:        calculation.BasicRequest{Num1: 3, Num2: 5, Operation: calculation.KindSubtraction},
			value:      -2,
			expression: "3 - 5",
		},
		{
			name:       "multiplication",
			req:        calculation.BasicRequest{Num1: 5, Num2: 3, Operation: calculation.KindMultiplication},
			value:      15,
			expression: "5 × 3",
		},
		{
			name:       "division",
			req:        calculation.BasicRequest{Num1: 5, Num2: 2, Operation: calculation.KindDivision},
			value:      2.5,
			expression: "5 ÷ 2",
		},
		{
			name:       "power",
			req:        calculation.BasicRequest{Num1: 2, Num2: 10, Operation: calculation.KindPower},
			value:      1024,
			expression: "2^10",
		},
		{
			name:       "percentage",
			req:        calculation.BasicRequest{Num1: 5, Num2: 200, Operation: calculation.KindPercentage},
			value:      10,
			expression: "5% of 200",
		},
		{
			name:       "fractional operands",
			req:        calculation.BasicRequest{Num1: 0.1, Num2: 0.2, Operation: calculation.KindAddition},
			value:      0.1 + 0.2,
			expression: "0.1 + 0.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Basic(tt.req)
			require.NoError(t, err)
			assert.InDelta(t, tt.value, got.Value, 1e-12)
			assert.Equal(t, tt.expression, got.Expression)
			assert.Equal(t, tt.req.Operation, got.Kind)
		})
	}
}

func TestBasicDivisionByZero(t *testing.T) {
	_, err := Basic(calculation.BasicRequest{Num1: 5, Operation: calculation.KindDivision})
	require.Error(t, err)
	svcErr := errors.GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, errors.CodeDivisionByZero, svcErr.Code)
}

func TestBasicUnsupportedOperation(t *testing.T) {
	_, err := Basic(calculation.BasicRequest{Num1: 1, Num2: 2, Operation: calculation.KindSin})
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnsupportedOperation, errors.GetServiceError(err).Code)
}

func TestAdvanced(t *testing.T) {
	tests := []struct {
		name       string
		req        calculation.AdvancedRequest
		value      float64
		expression string
	}{
		{
			name:       "square root",
			req:        calculation.AdvancedRequest{Value: 9, Operation: calculation.KindSquareRoot},
			value:      3,
			expression: "√9",
		},
		{
			name:       "sin degrees",
			req:        calculation.AdvancedRequest{Value: 30, Operation: calculation.KindSin, AngleUnit: calculation.AngleDegrees},
			value:      0.5,
			expression: "sin(30°)",
		},
		{
			name:       "sin radians default",
			req:        calculation.AdvancedRequest{Value: 0.5, Operation: calculation.KindSin},
			value:      math.Sin(0.5),
			expression: "sin(0.5 rad)",
		},
		{
			name:       "cos degrees",
			req:        calculation.AdvancedRequest{Value: 60, Operation: calculation.KindCos, AngleUnit: calculation.AngleDegrees},
			value:      0.5,
			expression: "cos(60°)",
		},
		{
			name:       "tan degrees",
			req:        calculation.AdvancedRequest{Value: 45, Operation: calculation.KindTan, AngleUnit: calculation.AngleDegrees},
			value:      1,
			expression: "tan(45°)",
		},
		{
			name:       "log base 10",
			req:        calculation.AdvancedRequest{Value: 1000, Operation: calculation.KindLog},
			value:      3,
			expression: "log₁₀(1000)",
		},
		{
			name:       "natural log",
			req:        calculation.AdvancedRequest{Value: math.E, Operation: calculation.KindLn},
			value:      1,
			expression: "ln(2.718281828459045)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Advanced(tt.req)
			require.NoError(t, err)
			assert.InDelta(t, tt.value, got.Value, 1e-9)
			assert.Equal(t, tt.expression, got.Expression)
		})
	}
}

func TestAdvancedErrors(t *testing.T) {
	tests := []struct {
		name string
		req  calculation.AdvancedRequest
		code errors.ErrorCode
	}{
		{
			name: "negative square root",
			req:  calculation.AdvancedRequest{Value: -4, Operation: calculation.KindSquareRoot},
			code: errors.CodeNegativeSquareRoot,
		},
		{
			name: "log of zero",
			req:  calculation.AdvancedRequest{Value: 0, Operation: calculation.KindLog},
			code: errors.CodeNonPositiveLog,
		},
		{
			name: "ln of negative",
			req:  calculation.AdvancedRequest{Value: -1, Operation: calculation.KindLn},
			code: errors.CodeNonPositiveLog,
		},
		{
			name: "invalid angle unit",
			req:  calculation.AdvancedRequest{Value: 1, Operation: calculation.KindSin, AngleUnit: "gradians"},
			code: errors.CodeInvalidAngleUnit,
		},
		{
			name: "binary operation rejected",
			req:  calculation.AdvancedRequest{Value: 1, Operation: calculation.KindAddition},
			code: errors.CodeUnsupportedOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Advanced(tt.req)
			require.Error(t, err)
			svcErr := errors.GetServiceError(err)
			require.NotNil(t, svcErr)
			assert.Equal(t, tt.code, svcErr.Code)
		})
	}
}

func TestFormatResult(t *testing.T) {
	assert.Equal(t, "8", FormatResult(8))
	assert.Equal(t, "2.5", FormatResult(2.5))
	assert.Equal(t, "-0.5", FormatResult(-0.5))
	// Large results stay in plain decimal, e.g. 2 ton in gram.
	assert.Equal(t, "2000000", FormatResult(2e6))
	assert.Equal(t, "-123456789", FormatResult(-123456789))
	assert.Equal(t, "0", FormatResult(0))
	// Extreme magnitudes keep the compact scientific form.
	assert.Equal(t, "1e-07", FormatResult(1e-7))
	assert.Equal(t, "1e+20", FormatResult(1e20))
}
