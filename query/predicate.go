// Package query builds player predicates that can run either in memory or as
// a SQL WHERE fragment, plus the paging request shared by list endpoints.
package query

import (
	"fmt"
	"strings"
	"time"

	"rpgroster/models"
)

// Dialect names the SQL flavour a predicate is rendered for. Values match
// gorm's Dialector.Name().
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
	DialectSQLite   Dialect = "sqlite"
)

// Predicate is a filter over players.
type Predicate interface {
	// Match evaluates the predicate against p.
	Match(p *models.Player) bool
	// SQL renders the predicate as a clause with positional parameters.
	// An empty clause matches every row.
	SQL(d Dialect) (string, []any)
}

// Field is a filterable player attribute.
type Field string

const (
	FieldID             Field = "id"
	FieldName           Field = "name"
	FieldTitle          Field = "title"
	FieldRace           Field = "race"
	FieldProfession     Field = "profession"
	FieldExperience     Field = "experience"
	FieldLevel          Field = "level"
	FieldUntilNextLevel Field = "untilNextLevel"
	FieldBirthday       Field = "birthday"
	FieldBanned         Field = "banned"
)

var fieldColumns = map[Field]string{
	FieldID:             "id",
	FieldName:           "name",
	FieldTitle:          "title",
	FieldRace:           "race",
	FieldProfession:     "profession",
	FieldExperience:     "experience",
	FieldLevel:          "level",
	FieldUntilNextLevel: "until_next_level",
	FieldBirthday:       "birthday",
	FieldBanned:         "banned",
}

func (f Field) Column() string {
	return fieldColumns[f]
}

// value returns the attribute as int64, string, bool or time.Time.
func (f Field) value(p *models.Player) any {
	switch f {
	case FieldID:
		return p.ID
	case FieldName:
		return p.Name
	case FieldTitle:
		return p.Title
	case FieldRace:
		return string(p.Race)
	case FieldProfession:
		return string(p.Profession)
	case FieldExperience:
		return int64(p.Experience)
	case FieldLevel:
		return int64(p.Level)
	case FieldUntilNextLevel:
		return int64(p.UntilNextLevel)
	case FieldBirthday:
		return p.Birthday
	case FieldBanned:
		return p.Banned
	}
	return nil
}

// Op is a comparison operator.
type Op string

const (
	OpEq Op = "="
	OpNe Op = "!="
	OpLt Op = "<"
	OpLe Op = "<="
	OpGt Op = ">"
	OpGe Op = ">="
)

// Comparison compares a field against a constant.
type Comparison struct {
	Field Field
	Op    Op
	Value any
}

// Compare builds a comparison. Integer values are widened to int64 and
// times are normalised to UTC so both renderings see the same constant.
func Compare(field Field, op Op, value any) Comparison {
	switch v := value.(type) {
	case int:
		value = int64(v)
	case int32:
		value = int64(v)
	case time.Time:
		value = v.UTC()
	case models.Race:
		value = string(v)
	case models.Profession:
		value = string(v)
	}
	return Comparison{Field: field, Op: op, Value: value}
}

func (c Comparison) Match(p *models.Player) bool {
	cmp, ok := compareValues(c.Field.value(p), c.Value)
	if !ok {
		return false
	}
	switch c.Op {
	case OpEq:
		return cmp == 0
	case OpNe:
		return cmp != 0
	case OpLt:
		return cmp < 0
	case OpLe:
		return cmp <= 0
	case OpGt:
		return cmp > 0
	case OpGe:
		return cmp >= 0
	}
	return false
}

func (c Comparison) SQL(Dialect) (string, []any) {
	return fmt.Sprintf("%s %s ?", c.Field.Column(), c.Op), []any{c.Value}
}

// compareValues orders a against b. ok is false when the types differ.
func compareValues(a, b any) (int, bool) {
	switch av := a.(type) {
	case int64:
		bv, ok := b.(int64)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		}
		return 0, true
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		}
		return 1, true
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return av.Compare(bv), true
	}
	return 0, false
}

// Contains is a case-sensitive, unanchored substring match on a text field.
type Contains struct {
	Field     Field
	Substring string
}

func (c Contains) Match(p *models.Player) bool {
	s, ok := c.Field.value(p).(string)
	return ok && strings.Contains(s, c.Substring)
}

// SQL avoids LIKE so that wildcards in the substring are literal and the
// match stays case-sensitive on every dialect.
func (c Contains) SQL(d Dialect) (string, []any) {
	col := c.Field.Column()
	switch d {
	case DialectPostgres:
		return fmt.Sprintf("strpos(%s, ?) > 0", col), []any{c.Substring}
	case DialectMySQL:
		return fmt.Sprintf("LOCATE(?, BINARY %s) > 0", col), []any{c.Substring}
	default:
		return fmt.Sprintf("instr(%s, ?) > 0", col), []any{c.Substring}
	}
}

// Conjunction holds when every term holds. An empty conjunction matches all.
type Conjunction []Predicate

// And combines the given predicates, skipping nil ones.
func And(preds ...Predicate) Predicate {
	terms := make(Conjunction, 0, len(preds))
	for _, p := range preds {
		if p == nil {
			continue
		}
		if nested, ok := p.(Conjunction); ok {
			terms = append(terms, nested...)
			continue
		}
		terms = append(terms, p)
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return terms
}

func (c Conjunction) Match(p *models.Player) bool {
	for _, term := range c {
		if !term.Match(p) {
			return false
		}
	}
	return true
}

func (c Conjunction) SQL(d Dialect) (string, []any) {
	clauses := make([]string, 0, len(c))
	var args []any
	for _, term := range c {
		clause, termArgs := term.SQL(d)
		if clause == "" {
			continue
		}
		clauses = append(clauses, clause)
		args = append(args, termArgs...)
	}
	switch len(clauses) {
	case 0:
		return "", nil
	case 1:
		return clauses[0], args
	}
	return "(" + strings.Join(clauses, " AND ") + ")", args
}

// Disjunction holds when any term holds.
type Disjunction []Predicate

// Or combines the given predicates, skipping nil ones. Or with no terms
// matches nothing.
func Or(preds ...Predicate) Predicate {
	terms := make(Disjunction, 0, len(preds))
	for _, p := range preds {
		if p == nil {
			continue
		}
		if nested, ok := p.(Disjunction); ok {
			terms = append(terms, nested...)
			continue
		}
		terms = append(terms, p)
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return terms
}

func (d Disjunction) Match(p *models.Player) bool {
	for _, term := range d {
		if term.Match(p) {
			return true
		}
	}
	return false
}

func (d Disjunction) SQL(dialect Dialect) (string, []any) {
	clauses := make([]string, 0, len(d))
	var args []any
	for _, term := range d {
		clause, termArgs := term.SQL(dialect)
		if clause == "" {
			// a term matching everything makes the whole disjunction true
			return "", nil
		}
		clauses = append(clauses, clause)
		args = append(args, termArgs...)
	}
	switch len(clauses) {
	case 0:
		return "1 = 0", nil
	case 1:
		return clauses[0], args
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}

// MatchAll returns a predicate that accepts every player.
func MatchAll() Predicate {
	return Conjunction{}
}
