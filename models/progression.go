package models

import "math"

// LevelFor returns the level reached with the given experience.
func LevelFor(experience int) int {
	return int(math.Floor((math.Sqrt(2500+200*float64(experience)) - 50) / 100))
}

// UntilNextLevel returns the experience still missing to leave level.
func UntilNextLevel(level, experience int) int {
	return 50*(level+1)*(level+2) - experience
}

// DeriveProgression overwrites Level and UntilNextLevel from Experience.
// Experience must already be validated (non-negative).
func DeriveProgression(p *Player) {
	p.Level = LevelFor(p.Experience)
	p.UntilNextLevel = UntilNextLevel(p.Level, p.Experience)
}
