package models

import (
	"encoding/json"
	"fmt"
)

// Race is persisted as its canonical name.
type Race string

const (
	RaceHuman  Race = "HUMAN"
	RaceDwarf  Race = "DWARF"
	RaceElf    Race = "ELF"
	RaceGiant  Race = "GIANT"
	RaceOrc    Race = "ORC"
	RaceTroll  Race = "TROLL"
	RaceHobbit Race = "HOBBIT"
)

var Races = []Race{RaceHuman, RaceDwarf, RaceElf, RaceGiant, RaceOrc, RaceTroll, RaceHobbit}

func (r Race) Valid() bool {
	for _, known := range Races {
		if r == known {
			return true
		}
	}
	return false
}

func ParseRace(s string) (Race, error) {
	r := Race(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown race %q", s)
	}
	return r, nil
}

func (r *Race) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("race must be a string: %w", err)
	}
	parsed, err := ParseRace(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
