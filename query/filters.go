package query

import (
	"time"

	"rpgroster/models"
)

// PlayerFilter holds the optional list/count parameters. A nil field is not
// filtered on.
type PlayerFilter struct {
	Name          *string
	Title         *string
	Race          *models.Race
	Profession    *models.Profession
	After         *int64 // epoch ms, inclusive
	Before        *int64 // epoch ms, exclusive
	Banned        *bool
	MinExperience *int
	MaxExperience *int
	MinLevel      *int
	MaxLevel      *int

	// Expression is an already parsed filter expression, AND-ed with the rest.
	Expression Predicate
}

// Predicate builds the conjunction of every present criterion. It never
// touches the store.
func (f PlayerFilter) Predicate() Predicate {
	return And(
		contains(FieldName, f.Name),
		contains(FieldTitle, f.Title),
		equalsEnum(FieldRace, f.Race),
		equalsEnum(FieldProfession, f.Profession),
		birthdayBound(OpGe, f.After),
		birthdayBound(OpLt, f.Before),
		equalsBool(FieldBanned, f.Banned),
		bound(FieldExperience, OpGe, f.MinExperience),
		bound(FieldExperience, OpLe, f.MaxExperience),
		bound(FieldLevel, OpGe, f.MinLevel),
		bound(FieldLevel, OpLe, f.MaxLevel),
		f.Expression,
	)
}

func contains(field Field, s *string) Predicate {
	if s == nil {
		return nil
	}
	return Contains{Field: field, Substring: *s}
}

func equalsEnum[T ~string](field Field, v *T) Predicate {
	if v == nil {
		return nil
	}
	return Compare(field, OpEq, string(*v))
}

func equalsBool(field Field, v *bool) Predicate {
	if v == nil {
		return nil
	}
	return Compare(field, OpEq, *v)
}

func bound(field Field, op Op, v *int) Predicate {
	if v == nil {
		return nil
	}
	return Compare(field, op, *v)
}

func birthdayBound(op Op, ms *int64) Predicate {
	if ms == nil {
		return nil
	}
	return Compare(FieldBirthday, op, time.UnixMilli(*ms))
}
