package edsearch

// Expression represents a composable filter expression.
// All Expressions are QueryOptions, but not all QueryOptions are Expressions.
type Expression interface {
	QueryOption
	// expr is a marker method to distinguish expressions from other options.
	expr()
}

// baseExpr provides the expr marker method for all expression types.
type baseExpr struct{}

func (baseExpr) expr() {}

// AndExpr represents an AND combination of expressions.
type AndExpr struct {
	baseExpr
	// Exprs contains the expressions to combine with AND logic.
	Exprs []Expression
}

// Apply implements the QueryOption interface for AndExpr.
func (a AndExpr) Apply(cfg *QueryConfig) {
	cfg.Filters = append(cfg.Filters, a)
}

// And creates an AND expression combining multiple expressions.
func And(exprs ...Expression) Expression {
	return AndExpr{Exprs: exprs}
}

// OrExpr represents an OR combination of expressions.
// An OrExpr with no sub-expressions matches nothing; it is the explicit
// "no match" predicate a field filter resolves to when a query segments
// into zero tokens.
type OrExpr struct {
	baseExpr
	// Exprs contains the expressions to combine with OR logic.
	Exprs []Expression
}

// Apply implements the QueryOption interface for OrExpr.
func (o OrExpr) Apply(cfg *QueryConfig) {
	cfg.Filters = append(cfg.Filters, o)
}

// Or creates an OR expression combining multiple expressions.
// Or() with no arguments is the empty disjunction and matches no items.
func Or(exprs ...Expression) Expression {
	return OrExpr{Exprs: exprs}
}

// NotExpr represents a NOT negation of an expression.
type NotExpr struct {
	baseExpr
	// Inner is the expression to negate.
	Inner Expression
}

// Apply implements the QueryOption interface for NotExpr.
func (n NotExpr) Apply(cfg *QueryConfig) {
	cfg.Filters = append(cfg.Filters, n)
}

// Not creates a NOT expression negating the given expression.
func Not(expr Expression) Expression {
	return NotExpr{Inner: expr}
}

// EqExpr represents an equality comparison expression.
type EqExpr struct {
	baseExpr
	// Field is the name of the field to compare.
	Field string
	// Value is the value to compare against.
	Value interface{}
}

// Apply implements the QueryOption interface for EqExpr.
func (e EqExpr) Apply(cfg *QueryConfig) {
	cfg.Filters = append(cfg.Filters, e)
}

// Eq creates an equality comparison expression.
func Eq(field string, value interface{}) Expression {
	return EqExpr{Field: field, Value: value}
}

// ContainsExpr represents a case-insensitive substring match expression.
type ContainsExpr struct {
	baseExpr
	// Field is the name of the field to scan.
	Field string
	// Value is the substring to look for.
	Value string
}

// Apply implements the QueryOption interface for ContainsExpr.
func (c ContainsExpr) Apply(cfg *QueryConfig) {
	cfg.Filters = append(cfg.Filters, c)
}

// Contains creates a case-insensitive substring match expression.
func Contains(field, value string) Expression {
	return ContainsExpr{Field: field, Value: value}
}

// InExpr represents a membership-in-set expression. It matches when the
// field value equals one of Values or, for multi-valued fields, when any
// element of the field value does.
type InExpr struct {
	baseExpr
	// Field is the name of the field to test.
	Field string
	// Values is the set of accepted values.
	Values []interface{}
}

// Apply implements the QueryOption interface for InExpr.
func (i InExpr) Apply(cfg *QueryConfig) {
	cfg.Filters = append(cfg.Filters, i)
}

// In creates a membership-in-set expression.
func In(field string, values ...interface{}) Expression {
	return InExpr{Field: field, Values: values}
}

// InStrings creates a membership-in-set expression from a string slice.
func InStrings(field string, values []string) Expression {
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return InExpr{Field: field, Values: vals}
}
