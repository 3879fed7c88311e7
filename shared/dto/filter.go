package dto

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorIn        = "in"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreaterEq = "greater_eq"
	FilterIsNull            = "is_null"
	FilterIsNotNull         = "is_not_null"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

// falseClause matches no rows. Used for an IN over an empty list.
const falseClause = "FALSE"

// Filter is a single named-parameter predicate on one column.
// ArgName overrides the bind name when the same column appears twice in a statement.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq in not_eq less_eq greater_eq is_null is_not_null"`
	Table    string
}

func Eq(table, field string, value any) Filter {
	return Filter{Table: table, Field: field, Operator: FilterOperatorEq, Value: value}
}

func In(table, field string, values any) Filter {
	return Filter{Table: table, Field: field, Operator: FilterOperatorIn, Value: values}
}

// And groups filters so that every one of them must hold.
func And(filters ...any) FilterGroup {
	return FilterGroup{Operator: FilterGroupOperatorAnd, Filters: filters}
}

func (f *Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

func (f *Filter) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	column := f.column()

	argName := f.ArgName
	if argName == "" {
		argName = f.Field
	}

	comparison := map[string]string{
		FilterOperatorEq:        "=",
		FilterOperatorNotEq:     "!=",
		FilterOperatorLessEq:    "<=",
		FilterOperatorGreaterEq: ">=",
	}

	switch f.Operator {
	case FilterOperatorEq, FilterOperatorNotEq, FilterOperatorLessEq, FilterOperatorGreaterEq:
		args[argName] = f.Value

		return fmt.Sprintf("%s %s :%s", column, comparison[f.Operator], argName), args
	case FilterOperatorIn:
		return f.inClause(column, argName, args)
	case FilterIsNull:
		return column + " IS NULL", args
	case FilterIsNotNull:
		return column + " IS NOT NULL", args
	default:
		return "", args
	}
}

// inClause expands a slice into one bind per element. Non-slice values bind as a single element.
func (f *Filter) inClause(column, argName string, args map[string]any) (string, map[string]any) {
	val := reflect.ValueOf(f.Value)
	if val.Kind() != reflect.Array && val.Kind() != reflect.Slice {
		args[argName] = f.Value

		return fmt.Sprintf("%s IN (:%s)", column, argName), args
	}

	if val.Len() == 0 {
		return falseClause, args
	}

	named := make([]string, val.Len())

	for idx := range val.Len() {
		name := fmt.Sprintf("%s_%d", argName, idx)
		args[name] = val.Index(idx).Interface()
		named[idx] = ":" + name
	}

	return fmt.Sprintf("%s IN (%s)", column, strings.Join(named, ", ")), args
}

type FilterGroup struct {
	Filters  []any
	Operator string
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	whereClause := []string{}

	operator := f.Operator
	if operator == "" {
		operator = FilterGroupOperatorAnd
	}

	for _, filter := range f.Filters {
		var (
			where string
			arg   map[string]any
		)

		switch fill := filter.(type) {
		case Filter:
			where, arg = fill.GetWhereClause()
		case FilterGroup:
			where, arg = fill.GetWhereClause()
		default:
			continue
		}

		if where == "" {
			continue
		}

		whereClause = append(whereClause, where)
		maps.Copy(args, arg)
	}

	if len(whereClause) == 0 {
		return "", args
	}

	return fmt.Sprintf("(%s)", strings.Join(whereClause, " "+operator+" ")), args
}
