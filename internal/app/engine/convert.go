package engine

import (
	"fmt"

	"github.com/MathHub-Labs/calc-service/internal/app/domain/calculation"
	"github.com/MathHub-Labs/calc-service/internal/errors"
)

// Conversion domains. Length and weight convert through a canonical base
// unit (meter, kilogram) with multiplicative factors. Temperature is affine
// and must never go through the factor tables.
const (
	DomainLength      = "length"
	DomainWeight      = "weight"
	DomainTemperature = "temperature"
)

var conversionFactors = map[string]map[string]float64{
	DomainLength: {
		"meter":      1,
		"kilometer":  1000,
		"centimeter": 0.01,
		"millimeter": 0.001,
		"mile":       1609.34,
		"yard":       0.9144,
		"foot":       0.3048,
		"inch":       0.0254,
	},
	DomainWeight: {
		"kilogram": 1,
		"gram":     0.001,
		"pound":    0.453592,
		"ounce":    0.0283495,
		"ton":      1000,
	},
}

var temperatureUnits = map[string]bool{
	"celsius":    true,
	"fahrenheit": true,
	"kelvin":     true,
}

// Convert evaluates a unit conversion request.
func Convert(req calculation.ConversionRequest) (calculation.Result, error) {
	switch req.Domain {
	case DomainTemperature:
		value, err := convertTemperature(req.Value, req.FromUnit, req.ToUnit)
		if err != nil {
			return calculation.Result{}, err
		}
		expression := fmt.Sprintf("%s %s → %s", formatNumber(req.Value), req.FromUnit, req.ToUnit)
		return calculation.Result{Value: value, Expression: expression, Kind: calculation.KindConversion}, nil

	case DomainLength, DomainWeight:
		factors := conversionFactors[req.Domain]
		fromFactor, ok := factors[req.FromUnit]
		if !ok {
			return calculation.Result{}, errors.UnsupportedUnit(req.Domain, req.FromUnit)
		}
		toFactor, ok := factors[req.ToUnit]
		if !ok {
			return calculation.Result{}, errors.UnsupportedUnit(req.Domain, req.ToUnit)
		}

		// Source value to the base unit, then base to target.
		value := req.Value * fromFactor / toFactor
		expression := fmt.Sprintf("%s %s = ? %s", formatNumber(req.Value), req.FromUnit, req.ToUnit)
		return calculation.Result{Value: value, Expression: expression, Kind: calculation.KindConversion}, nil

	default:
		return calculation.Result{}, errors.InvalidInput(fmt.Sprintf("unsupported conversion type %q", req.Domain)).
			WithDetails("conversion_type", req.Domain)
	}
}

// convertTemperature goes through Celsius in two affine steps.
func convertTemperature(value float64, fromUnit, toUnit string) (float64, error) {
	if !temperatureUnits[fromUnit] {
		return 0, errors.UnsupportedUnit(DomainTemperature, fromUnit)
	}
	if !temperatureUnits[toUnit] {
		return 0, errors.UnsupportedUnit(DomainTemperature, toUnit)
	}

	var celsius float64
	switch fromUnit {
	case "celsius":
		celsius = value
	case "fahrenheit":
		celsius = (value - 32) * 5 / 9
	case "kelvin":
		celsius = value - 273.15
	}

	switch toUnit {
	case "fahrenheit":
		return celsius*9/5 + 32, nil
	case "kelvin":
		return celsius + 273.15, nil
	default:
		return celsius, nil
	}
}

// Units returns the unit names of a conversion domain, or nil for an unknown
// domain. The slices back the operations catalog.
func Units(domain string) []string {
	switch domain {
	case DomainLength:
		return []string{"meter", "kilometer", "centimeter", "millimeter", "mile", "yard", "foot", "inch"}
	case DomainWeight:
		return []string{"kilogram", "gram", "pound", "ounce", "ton"}
	case DomainTemperature:
		return []string{"celsius", "fahrenheit", "kelvin"}
	default:
		return nil
	}
}
