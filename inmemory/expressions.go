package inmemory

import (
	"fmt"
	"strings"

	"github.com/learnloop/edsearch"
)

// matchesFilters checks if a document matches all the filter expressions.
func matchesFilters(doc Document, filters []edsearch.Expression) bool {
	for _, filter := range filters {
		if !evaluateExpression(doc, filter) {
			return false
		}
	}
	return true
}

// evaluateExpression evaluates a single expression against a document.
func evaluateExpression(doc Document, expr edsearch.Expression) bool {
	switch e := expr.(type) {
	case edsearch.AndExpr:
		return evaluateAnd(doc, e)
	case edsearch.OrExpr:
		return evaluateOr(doc, e)
	case edsearch.NotExpr:
		return !evaluateExpression(doc, e.Inner)
	case edsearch.EqExpr:
		return evaluateEq(doc, e)
	case edsearch.ContainsExpr:
		return evaluateContains(doc, e)
	case edsearch.InExpr:
		return evaluateIn(doc, e)
	default:
		// Unknown expression type, return true to not filter out
		return true
	}
}

// evaluateAnd evaluates an AND expression.
func evaluateAnd(doc Document, expr edsearch.AndExpr) bool {
	for _, e := range expr.Exprs {
		if !evaluateExpression(doc, e) {
			return false
		}
	}
	return true
}

// evaluateOr evaluates an OR expression. The empty disjunction matches
// nothing, which makes Or() the explicit no-match predicate.
func evaluateOr(doc Document, expr edsearch.OrExpr) bool {
	for _, e := range expr.Exprs {
		if evaluateExpression(doc, e) {
			return true
		}
	}
	return false
}

// evaluateEq evaluates an equality expression.
func evaluateEq(doc Document, expr edsearch.EqExpr) bool {
	docValue, exists := doc.Fields[expr.Field]
	if !exists {
		return expr.Value == nil
	}

	return compareEqual(docValue, expr.Value)
}

// evaluateContains evaluates a case-insensitive substring match on string
// fields. Multi-valued fields match when any element contains the value.
func evaluateContains(doc Document, expr edsearch.ContainsExpr) bool {
	docValue, exists := doc.Fields[expr.Field]
	if !exists || expr.Value == "" {
		return false
	}

	return valueContains(docValue, strings.ToLower(expr.Value))
}

func valueContains(value interface{}, lowered string) bool {
	switch v := value.(type) {
	case string:
		return strings.Contains(strings.ToLower(v), lowered)
	case []string:
		for _, item := range v {
			if strings.Contains(strings.ToLower(item), lowered) {
				return true
			}
		}
	case []interface{}:
		for _, item := range v {
			if valueContains(item, lowered) {
				return true
			}
		}
	}
	return false
}

// evaluateIn evaluates a membership-in-set expression. Scalar fields match
// when they equal any set member; multi-valued fields match when any
// element does.
func evaluateIn(doc Document, expr edsearch.InExpr) bool {
	docValue, exists := doc.Fields[expr.Field]
	if !exists || len(expr.Values) == 0 {
		return false
	}

	elements := []interface{}{docValue}
	switch v := docValue.(type) {
	case []interface{}:
		elements = v
	case []string:
		elements = make([]interface{}, len(v))
		for i, s := range v {
			elements[i] = s
		}
	}

	for _, elem := range elements {
		for _, accepted := range expr.Values {
			if compareEqual(elem, accepted) {
				return true
			}
		}
	}
	return false
}

// compareEqual checks if two values are equal.
func compareEqual(v1, v2 interface{}) bool {
	if v1 == nil || v2 == nil {
		return v1 == v2
	}

	if f1, ok1 := toFloat64(v1); ok1 {
		if f2, ok2 := toFloat64(v2); ok2 {
			return f1 == f2
		}
	}

	return fmt.Sprintf("%v", v1) == fmt.Sprintf("%v", v2)
}

// toFloat64 attempts to convert a value to float64.
func toFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}
