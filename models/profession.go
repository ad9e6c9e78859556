package models

import (
	"encoding/json"
	"fmt"
)

// Profession is persisted as its canonical name.
type Profession string

const (
	ProfessionWarrior  Profession = "WARRIOR"
	ProfessionRogue    Profession = "ROGUE"
	ProfessionSorcerer Profession = "SORCERER"
	ProfessionCleric   Profession = "CLERIC"
	ProfessionPaladin  Profession = "PALADIN"
	ProfessionNazgul   Profession = "NAZGUL"
	ProfessionWarlock  Profession = "WARLOCK"
	ProfessionDruid    Profession = "DRUID"
)

var Professions = []Profession{
	ProfessionWarrior,
	ProfessionRogue,
	ProfessionSorcerer,
	ProfessionCleric,
	ProfessionPaladin,
	ProfessionNazgul,
	ProfessionWarlock,
	ProfessionDruid,
}

func (p Profession) Valid() bool {
	for _, known := range Professions {
		if p == known {
			return true
		}
	}
	return false
}

func ParseProfession(s string) (Profession, error) {
	p := Profession(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown profession %q", s)
	}
	return p, nil
}

func (p *Profession) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("profession must be a string: %w", err)
	}
	parsed, err := ParseProfession(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
