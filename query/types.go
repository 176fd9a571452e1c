package query

import (
	"fmt"
	"strings"
)

// TokenType identifies a keyword of the query language.
type TokenType int

const (
	// Logical operators
	TokenAnd TokenType = iota
	TokenOr
	TokenNot

	// Comparisons
	TokenGreater // GT
	TokenLess    // LT
	TokenEqual   // EQ
	TokenIs      // IS

	// Apply tokens
	TokenMax
	TokenMin
	TokenAvg
	TokenSum
	TokenCount
)

var tokenNames = map[TokenType]string{
	TokenAnd:     "AND",
	TokenOr:      "OR",
	TokenNot:     "NOT",
	TokenGreater: "GT",
	TokenLess:    "LT",
	TokenEqual:   "EQ",
	TokenIs:      "IS",
	TokenMax:     "MAX",
	TokenMin:     "MIN",
	TokenAvg:     "AVG",
	TokenSum:     "SUM",
	TokenCount:   "COUNT",
}

// String returns the keyword as written in a query.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// filterKeywords maps the operator key of a filter object to its token.
var filterKeywords = map[string]TokenType{
	"AND": TokenAnd,
	"OR":  TokenOr,
	"NOT": TokenNot,
	"GT":  TokenGreater,
	"LT":  TokenLess,
	"EQ":  TokenEqual,
	"IS":  TokenIs,
}

// applyTokens maps the token of an APPLY rule to its token.
var applyTokens = map[string]TokenType{
	"MAX":   TokenMax,
	"MIN":   TokenMin,
	"AVG":   TokenAvg,
	"SUM":   TokenSum,
	"COUNT": TokenCount,
}

// Order directions.
const (
	DirUp   = "UP"
	DirDown = "DOWN"
)

// Query represents a parsed query
type Query struct {
	Where           FilterNode       // nil when WHERE is empty
	Options         Options          // Output columns and order
	Transformations *Transformations // nil when absent
}

// Options holds the OPTIONS block.
type Options struct {
	Columns []string   // Output columns in the requested order
	Order   *OrderSpec // nil when absent
}

// OrderSpec is the ORDER of a query. The single key form parses to a spec
// with direction UP and one key.
type OrderSpec struct {
	Dir  string
	Keys []string
}

// Transformations holds the GROUP and APPLY rules of a query.
type Transformations struct {
	Group []string
	Apply []ApplyRule
}

// ApplyRule names one aggregate, e.g. {"maxAvg": {"MAX": "courses_avg"}}.
// Token is kept as written; it is checked during validation.
type ApplyRule struct {
	Name  string
	Token string
	Key   string
}

// FilterNode is a node of the WHERE tree.
type FilterNode interface {
	filterNode()
	String() string
}

// LogicalExpr is an AND, OR or NOT node. NOT has exactly one child once
// validated.
type LogicalExpr struct {
	Op       TokenType
	Children []FilterNode
}

// ComparisonExpr is a GT, LT or EQ leaf. Value is kept as decoded; the
// validator requires a number.
type ComparisonExpr struct {
	Op    TokenType
	Key   string
	Value interface{}
}

// MatchExpr is an IS leaf. Value is kept as decoded; the validator requires
// a string.
type MatchExpr struct {
	Key   string
	Value interface{}
}

func (*LogicalExpr) filterNode()    {}
func (*ComparisonExpr) filterNode() {}
func (*MatchExpr) filterNode()      {}

func (e *LogicalExpr) String() string {
	parts := make([]string, len(e.Children))
	for i, child := range e.Children {
		parts[i] = child.String()
	}
	return fmt.Sprintf("%s(%s)", e.Op, strings.Join(parts, ", "))
}

func (e *ComparisonExpr) String() string {
	return fmt.Sprintf("%s %s %v", e.Key, e.Op, e.Value)
}

func (e *MatchExpr) String() string {
	return fmt.Sprintf("%s IS %q", e.Key, fmt.Sprint(e.Value))
}
