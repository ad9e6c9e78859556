package query

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rpgroster/errx"
	"rpgroster/models"
)

func ptr[T any](v T) *T { return &v }

func roster() []models.Player {
	players := []models.Player{
		{ID: 1, Name: "Ниус", Title: "Высший", Race: models.RaceHobbit, Profession: models.ProfessionRogue, Experience: 33970, Birthday: time.Date(2010, 10, 12, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Name: "Никрашш", Title: "НайтВульф", Race: models.RaceOrc, Profession: models.ProfessionWarrior, Experience: 58347, Birthday: time.Date(2010, 2, 14, 0, 0, 0, 0, time.UTC)},
		{ID: 3, Name: "Ezgarrat", Title: "Fury of the North", Race: models.RaceDwarf, Profession: models.ProfessionCleric, Experience: 100, Birthday: time.Date(2005, 6, 1, 0, 0, 0, 0, time.UTC), Banned: true},
		{ID: 4, Name: "amarfi", Title: "Keeper", Race: models.RaceElf, Profession: models.ProfessionDruid, Experience: 0, Birthday: time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 5, Name: "Amarfi", Title: "Keeper_%", Race: models.RaceElf, Profession: models.ProfessionSorcerer, Experience: 804, Birthday: time.Date(2020, 3, 3, 0, 0, 0, 0, time.UTC)},
	}
	for i := range players {
		models.DeriveProgression(&players[i])
	}
	return players
}

func matching(pred Predicate, players []models.Player) []int64 {
	ids := []int64{}
	for i := range players {
		if pred.Match(&players[i]) {
			ids = append(ids, players[i].ID)
		}
	}
	return ids
}

func TestPlayerFilter_EmptyMatchesEverything(t *testing.T) {
	pred := PlayerFilter{}.Predicate()

	assert.Equal(t, []int64{1, 2, 3, 4, 5}, matching(pred, roster()))
	clause, args := pred.SQL(DialectPostgres)
	assert.Empty(t, clause)
	assert.Empty(t, args)
}

func TestPlayerFilter_NameIsCaseSensitiveSubstring(t *testing.T) {
	pred := PlayerFilter{Name: ptr("marf")}.Predicate()
	assert.Equal(t, []int64{4, 5}, matching(pred, roster()))

	pred = PlayerFilter{Name: ptr("Amar")}.Predicate()
	assert.Equal(t, []int64{5}, matching(pred, roster()))
}

func TestPlayerFilter_Ranges(t *testing.T) {
	players := roster()

	pred := PlayerFilter{MinExperience: ptr(100), MaxExperience: ptr(50)}.Predicate()
	assert.Empty(t, matching(pred, players))

	pred = PlayerFilter{MinExperience: ptr(100), MaxExperience: ptr(804)}.Predicate()
	assert.Equal(t, []int64{3, 5}, matching(pred, players))

	pred = PlayerFilter{MinLevel: ptr(1), MaxLevel: ptr(1)}.Predicate()
	assert.Equal(t, []int64{3}, matching(pred, players))
}

func TestPlayerFilter_BirthdayBounds(t *testing.T) {
	after := time.Date(2005, 6, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	before := time.Date(2010, 10, 12, 0, 0, 0, 0, time.UTC).UnixMilli()

	pred := PlayerFilter{After: &after, Before: &before}.Predicate()

	// after is inclusive, before exclusive
	assert.Equal(t, []int64{2, 3}, matching(pred, roster()))
}

func TestPlayerFilter_EnumsAndBanned(t *testing.T) {
	players := roster()

	pred := PlayerFilter{Race: ptr(models.RaceElf), Profession: ptr(models.ProfessionDruid)}.Predicate()
	assert.Equal(t, []int64{4}, matching(pred, players))

	pred = PlayerFilter{Banned: ptr(true)}.Predicate()
	assert.Equal(t, []int64{3}, matching(pred, players))

	pred = PlayerFilter{Banned: ptr(false), Race: ptr(models.RaceElf)}.Predicate()
	assert.Equal(t, []int64{4, 5}, matching(pred, players))
}

func TestPlayerFilter_SQLPerDialect(t *testing.T) {
	f := PlayerFilter{Title: ptr("Keeper_%"), MinLevel: ptr(2)}

	clause, args := f.Predicate().SQL(DialectPostgres)
	assert.Equal(t, "(strpos(title, ?) > 0 AND level >= ?)", clause)
	assert.Equal(t, []any{"Keeper_%", int64(2)}, args)

	clause, _ = f.Predicate().SQL(DialectMySQL)
	assert.Equal(t, "(LOCATE(?, BINARY title) > 0 AND level >= ?)", clause)

	clause, _ = f.Predicate().SQL(DialectSQLite)
	assert.Equal(t, "(instr(title, ?) > 0 AND level >= ?)", clause)
}

func TestAnd_DropsNilAndFlattens(t *testing.T) {
	level := Compare(FieldLevel, OpGe, 1)
	banned := Compare(FieldBanned, OpEq, false)

	assert.Equal(t, level, And(nil, level, nil))
	assert.Equal(t, Conjunction{level, banned}, And(And(level, nil), banned))
	assert.Equal(t, Conjunction{}, And())
}

func TestPageRequest_Validate(t *testing.T) {
	require.NoError(t, DefaultPage().Validate())
	require.NoError(t, PageRequest{Number: 50, Size: 3, Order: "level"}.Validate())

	err := PageRequest{Number: -1, Size: 3}.Validate()
	assert.ErrorIs(t, err, errx.ErrBadRequest)

	err = PageRequest{Number: 0, Size: 0}.Validate()
	assert.ErrorIs(t, err, errx.ErrBadRequest)

	err = PageRequest{Number: 0, Size: 3, Order: "TITLE"}.Validate()
	assert.ErrorIs(t, err, errx.ErrBadRequest)

	assert.Equal(t, models.OrderLevel, PageRequest{Order: "level"}.SortOrder())
	offset, ok := PageRequest{Number: 50, Size: 3}.Offset()
	assert.True(t, ok)
	assert.Equal(t, 150, offset)

	_, ok = PageRequest{Number: math.MaxInt/2 + 1, Size: 2}.Offset()
	assert.False(t, ok)

	offset, ok = PageRequest{Number: 0, Size: math.MaxInt}.Offset()
	assert.True(t, ok)
	assert.Zero(t, offset)
}

func TestParseExpression(t *testing.T) {
	players := roster()

	tests := []struct {
		name   string
		filter string
		want   []int64
	}{
		{name: "equals", filter: `race = "ELF"`, want: []int64{4, 5}},
		{name: "not equals", filter: `race != "ELF"`, want: []int64{1, 2, 3}},
		{name: "integer range", filter: `experience >= 100 AND experience < 34000`, want: []int64{1, 3, 5}},
		{name: "has", filter: `title:"Keep"`, want: []int64{4, 5}},
		{name: "timestamp", filter: `birthday < timestamp("2006-01-01T00:00:00Z")`, want: []int64{3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := ParseExpression(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, matching(pred, players))
		})
	}
}

func TestParseExpression_Empty(t *testing.T) {
	pred, err := ParseExpression("   ")
	require.NoError(t, err)
	assert.Nil(t, pred)
}

func TestParseExpression_RejectsUnknownField(t *testing.T) {
	_, err := ParseExpression(`mana > 3`)
	require.Error(t, err)
	assert.True(t, errx.IsBadRequest(err))
}

func TestParseExpression_CombinesWithNamedFilters(t *testing.T) {
	expression, err := ParseExpression(`level >= 1`)
	require.NoError(t, err)

	pred := PlayerFilter{Race: ptr(models.RaceElf), Expression: expression}.Predicate()
	assert.Equal(t, []int64{5}, matching(pred, roster()))

	clause, args := pred.SQL(DialectSQLite)
	assert.Equal(t, "(race = ? AND level >= ?)", clause)
	assert.Equal(t, []any{"ELF", int64(1)}, args)
}

func TestParseExpression_Or(t *testing.T) {
	pred, err := ParseExpression(`race = "ORC" OR experience < 100`)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4}, matching(pred, roster()))

	clause, args := pred.SQL(DialectPostgres)
	assert.Equal(t, "(race = ? OR experience < ?)", clause)
	assert.Equal(t, []any{"ORC", int64(100)}, args)
}

func TestOr_Empty(t *testing.T) {
	clause, _ := Or().SQL(DialectSQLite)
	assert.Equal(t, "1 = 0", clause)
	assert.Empty(t, matching(Or(), roster()))
}
