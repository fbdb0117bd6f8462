package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Clients send numbers either as JSON numbers or as numeric strings, so
// mutation bodies are decoded loosely and coerced field by field.
type body map[string]any

func readBody(c *gin.Context) (body, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	b := body{}
	if err := json.NewDecoder(c.Request.Body).Decode(&b); err != nil && !errors.Is(err, io.EOF) {
		return nil, apperr.New(apperr.ErrValidation, "invalid JSON body")
	}
	return b, nil
}

// has reports whether key is present with a non-null value.
func (b body) has(key string) bool {
	v, ok := b[key]
	return ok && v != nil
}

func (b body) str(key string) string {
	s, _ := toString(b[key])
	return s
}

func toString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	}
	return "", false
}

func toDecimal(field string, v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(x)); err == nil {
			return d, nil
		}
	}
	return decimal.Decimal{}, apperr.Newf(apperr.ErrValidation, "%s must be a number", field)
}

func toInt(field string, v any) (int, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, apperr.Newf(apperr.ErrValidation, "%s must be a number", field)
		}
		f = parsed
	default:
		return 0, apperr.Newf(apperr.ErrValidation, "%s must be a number", field)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, apperr.Newf(apperr.ErrValidation, "%s must be a whole number", field)
	}
	return int(f), nil
}

// toBool follows the usual truthiness: "false"/"0" strings are false, any
// other non-empty string is true, numbers are true unless zero.
func toBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(x)); err == nil {
			return b
		}
		return x != ""
	case float64:
		return x != 0
	}
	return false
}

// toFloat returns NaN for anything that is not numeric and 0 when absent.
func toFloat(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return x
	case string:
		if strings.TrimSpace(x) == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f
		}
	case bool:
		if x {
			return 1
		}
		return 0
	}
	return math.NaN()
}
