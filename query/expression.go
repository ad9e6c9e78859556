package query

import (
	"fmt"
	"strings"
	"time"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	"rpgroster/errx"
)

// ExpressionDeclarations declares the identifiers usable in a filter
// expression.
func ExpressionDeclarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent(string(FieldID), filtering.TypeInt),
		filtering.DeclareIdent(string(FieldName), filtering.TypeString),
		filtering.DeclareIdent(string(FieldTitle), filtering.TypeString),
		filtering.DeclareIdent(string(FieldRace), filtering.TypeString),
		filtering.DeclareIdent(string(FieldProfession), filtering.TypeString),
		filtering.DeclareIdent(string(FieldExperience), filtering.TypeInt),
		filtering.DeclareIdent(string(FieldLevel), filtering.TypeInt),
		filtering.DeclareIdent(string(FieldUntilNextLevel), filtering.TypeInt),
		filtering.DeclareIdent(string(FieldBirthday), filtering.TypeTimestamp),
		filtering.DeclareIdent(string(FieldBanned), filtering.TypeBool),
	)
}

var comparisonOps = map[string]Op{
	filtering.FunctionEquals:        OpEq,
	filtering.FunctionNotEquals:     OpNe,
	filtering.FunctionLessThan:      OpLt,
	filtering.FunctionLessEquals:    OpLe,
	filtering.FunctionGreaterThan:   OpGt,
	filtering.FunctionGreaterEquals: OpGe,
}

// ParseExpression parses an AIP-160 filter expression into a Predicate. An
// empty expression yields nil. Any parse or translation failure is a
// BadRequest.
func ParseExpression(filterStr string) (Predicate, error) {
	if strings.TrimSpace(filterStr) == "" {
		return nil, nil
	}

	decls, err := ExpressionDeclarations()
	if err != nil {
		return nil, errx.ErrInternal.WithCause(fmt.Errorf("create declarations: %w", err))
	}

	filter, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return nil, badFilter(fmt.Errorf("parse filter: %w", err))
	}

	pred, err := translateExpr(filter.CheckedExpr.GetExpr())
	if err != nil {
		return nil, badFilter(err)
	}
	return pred, nil
}

func badFilter(err error) error {
	return errx.ErrBadRequest.WithMsg(err.Error()).WithData("field", "filter").WithCause(err)
}

func translateExpr(e *expr.Expr) (Predicate, error) {
	if e == nil {
		return nil, nil
	}

	switch kind := e.GetExprKind().(type) {
	case *expr.Expr_CallExpr:
		return translateCall(kind.CallExpr)
	default:
		return nil, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

func translateCall(call *expr.Expr_Call) (Predicate, error) {
	switch call.GetFunction() {
	case filtering.FunctionAnd:
		return translateAnd(call.GetArgs())
	case filtering.FunctionOr:
		return translateOr(call.GetArgs())
	case filtering.FunctionHas:
		return translateHas(call.GetArgs())
	}
	if op, ok := comparisonOps[call.GetFunction()]; ok {
		return translateComparison(call.GetArgs(), op)
	}
	return nil, fmt.Errorf("unsupported function: %s", call.GetFunction())
}

func translateAnd(args []*expr.Expr) (Predicate, error) {
	terms := make([]Predicate, 0, len(args))
	for _, arg := range args {
		term, err := translateExpr(arg)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return And(terms...), nil
}

func translateOr(args []*expr.Expr) (Predicate, error) {
	terms := make([]Predicate, 0, len(args))
	for _, arg := range args {
		term, err := translateExpr(arg)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return Or(terms...), nil
}

func translateHas(args []*expr.Expr) (Predicate, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("has requires 2 arguments")
	}

	field, err := extractField(args[0])
	if err != nil {
		return nil, err
	}
	if !isTextField(field) {
		return nil, fmt.Errorf("field %s does not support ':'", field)
	}

	value, err := extractValue(args[1])
	if err != nil {
		return nil, err
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("field %s needs a string operand", field)
	}
	return Contains{Field: field, Substring: s}, nil
}

func translateComparison(args []*expr.Expr, op Op) (Predicate, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("comparison requires 2 arguments")
	}

	field, err := extractField(args[0])
	if err != nil {
		return nil, err
	}

	value, err := extractValue(args[1])
	if err != nil {
		return nil, err
	}

	return Compare(field, op, value), nil
}

func isTextField(f Field) bool {
	switch f {
	case FieldName, FieldTitle, FieldRace, FieldProfession:
		return true
	}
	return false
}

func extractField(e *expr.Expr) (Field, error) {
	ident, ok := e.GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return "", fmt.Errorf("expected identifier, got %T", e.GetExprKind())
	}
	field := Field(ident.IdentExpr.GetName())
	if field.Column() == "" {
		return "", fmt.Errorf("unknown field: %s", field)
	}
	return field, nil
}

func extractValue(e *expr.Expr) (any, error) {
	switch kind := e.GetExprKind().(type) {
	case *expr.Expr_ConstExpr:
		return extractConstValue(kind.ConstExpr)
	case *expr.Expr_IdentExpr:
		// bare true/false
		switch kind.IdentExpr.GetName() {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("unexpected identifier in value position: %s", kind.IdentExpr.GetName())
	case *expr.Expr_CallExpr:
		if kind.CallExpr.GetFunction() == filtering.FunctionTimestamp && len(kind.CallExpr.GetArgs()) == 1 {
			return extractTimestampValue(kind.CallExpr.GetArgs()[0])
		}
		return nil, fmt.Errorf("unsupported function in value position: %s", kind.CallExpr.GetFunction())
	default:
		return nil, fmt.Errorf("expected constant or timestamp, got %T", kind)
	}
}

func extractConstValue(c *expr.Constant) (any, error) {
	switch kind := c.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return int64(kind.Uint64Value), nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}

func extractTimestampValue(e *expr.Expr) (time.Time, error) {
	c, ok := e.GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp argument must be a constant string")
	}
	s, ok := c.ConstExpr.GetConstantKind().(*expr.Constant_StringValue)
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp argument must be a string")
	}
	t, err := time.Parse(time.RFC3339Nano, s.StringValue)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp format: %s", s.StringValue)
	}
	return t.UTC(), nil
}
