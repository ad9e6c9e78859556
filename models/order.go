package models

import (
	"fmt"
	"strings"
)

// PlayerOrder is the closed set of sortable fields.
type PlayerOrder string

const (
	OrderID         PlayerOrder = "ID"
	OrderName       PlayerOrder = "NAME"
	OrderExperience PlayerOrder = "EXPERIENCE"
	OrderBirthday   PlayerOrder = "BIRTHDAY"
	OrderLevel      PlayerOrder = "LEVEL"
)

var orderColumns = map[PlayerOrder]string{
	OrderID:         "id",
	OrderName:       "name",
	OrderExperience: "experience",
	OrderBirthday:   "birthday",
	OrderLevel:      "level",
}

// ParsePlayerOrder accepts the order name in any letter case.
func ParsePlayerOrder(s string) (PlayerOrder, error) {
	o := PlayerOrder(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := orderColumns[o]; !ok {
		return "", fmt.Errorf("unknown order %q", s)
	}
	return o, nil
}

// Column returns the table column the order sorts by.
func (o PlayerOrder) Column() string {
	if col, ok := orderColumns[o]; ok {
		return col
	}
	return orderColumns[OrderID]
}

// Less reports whether a sorts before b under this order, breaking ties by id.
func (o PlayerOrder) Less(a, b *Player) bool {
	switch o {
	case OrderName:
		if a.Name != b.Name {
			return a.Name < b.Name
		}
	case OrderExperience:
		if a.Experience != b.Experience {
			return a.Experience < b.Experience
		}
	case OrderBirthday:
		if !a.Birthday.Equal(b.Birthday) {
			return a.Birthday.Before(b.Birthday)
		}
	case OrderLevel:
		if a.Level != b.Level {
			return a.Level < b.Level
		}
	}
	return a.ID < b.ID
}
