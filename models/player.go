package models

import (
	"encoding/json"
	"time"
)

type Player struct {
	ID             int64      `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name           string     `json:"name" gorm:"column:name;type:varchar(12);not null"`
	Title          string     `json:"title" gorm:"column:title;type:varchar(30);not null"`
	Race           Race       `json:"race" gorm:"column:race;type:varchar(16);not null"`
	Profession     Profession `json:"profession" gorm:"column:profession;type:varchar(16);not null"`
	Experience     int        `json:"experience" gorm:"column:experience;not null"`
	Level          int        `json:"level" gorm:"column:level;not null;index"`
	UntilNextLevel int        `json:"untilNextLevel" gorm:"column:until_next_level;not null"`
	Birthday       time.Time  `json:"-" gorm:"column:birthday;not null"`
	Banned         bool       `json:"banned" gorm:"column:banned;not null;default:false"`
}

func (Player) TableName() string {
	return "player"
}

// playerJSON swaps Birthday for its epoch millisecond wire form.
type playerJSON struct {
	playerAlias
	Birthday int64 `json:"birthday"`
}

type playerAlias Player

func (p Player) MarshalJSON() ([]byte, error) {
	return json.Marshal(playerJSON{
		playerAlias: playerAlias(p),
		Birthday:    p.Birthday.UnixMilli(),
	})
}

func (p *Player) UnmarshalJSON(data []byte) error {
	var aux playerJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = Player(aux.playerAlias)
	p.Birthday = FromMillis(aux.Birthday)
	return nil
}

// PlayerPayload is the client body for create and update. A nil field was
// not provided (or was null) and never overwrites a stored value.
type PlayerPayload struct {
	ID         *int64      `json:"id,omitempty"`
	Name       *string     `json:"name,omitempty" validate:"required,min=1,max=12"`
	Title      *string     `json:"title,omitempty" validate:"required,max=30"`
	Race       *Race       `json:"race,omitempty"`
	Profession *Profession `json:"profession,omitempty"`
	Experience *int        `json:"experience,omitempty" validate:"required,min=0,max=10000000"`
	Birthday   *int64      `json:"birthday,omitempty" validate:"required,birthyear"`
	Banned     *bool       `json:"banned,omitempty"`
}

// PayloadOf returns a fully populated payload describing p.
func PayloadOf(p *Player) *PlayerPayload {
	id := p.ID
	name := p.Name
	title := p.Title
	race := p.Race
	profession := p.Profession
	experience := p.Experience
	birthday := p.Birthday.UnixMilli()
	banned := p.Banned
	return &PlayerPayload{
		ID:         &id,
		Name:       &name,
		Title:      &title,
		Race:       &race,
		Profession: &profession,
		Experience: &experience,
		Birthday:   &birthday,
		Banned:     &banned,
	}
}

// Merge overwrites every field that is set in patch. ID is never merged.
func (pp *PlayerPayload) Merge(patch *PlayerPayload) {
	if patch == nil {
		return
	}
	if patch.Name != nil {
		pp.Name = patch.Name
	}
	if patch.Title != nil {
		pp.Title = patch.Title
	}
	if patch.Race != nil {
		pp.Race = patch.Race
	}
	if patch.Profession != nil {
		pp.Profession = patch.Profession
	}
	if patch.Experience != nil {
		pp.Experience = patch.Experience
	}
	if patch.Birthday != nil {
		pp.Birthday = patch.Birthday
	}
	if patch.Banned != nil {
		pp.Banned = patch.Banned
	}
}

// ApplyTo copies the payload's set fields onto p, leaving ID and the derived
// fields alone.
func (pp *PlayerPayload) ApplyTo(p *Player) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Race != nil {
		p.Race = *pp.Race
	}
	if pp.Profession != nil {
		p.Profession = *pp.Profession
	}
	if pp.Experience != nil {
		p.Experience = *pp.Experience
	}
	if pp.Birthday != nil {
		p.Birthday = FromMillis(*pp.Birthday)
	}
	if pp.Banned != nil {
		p.Banned = *pp.Banned
	}
}

// FromMillis converts epoch milliseconds to a UTC time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
