package gamedata

// BuildCharacters returns the full character roster. Gender is accepted
// for forward compatibility with gender-variant rosters; the current
// cast is fixed.
func BuildCharacters(playerGender string) map[string]Character {
	chars := make(map[string]Character, len(characters))
	for id, c := range characters {
		chars[id] = c
	}
	return chars
}

// GetCharacter looks up a reference character by id.
func GetCharacter(id string) (Character, bool) {
	c, ok := characters[id]
	return c, ok
}

// AvailableCharacters filters the roster to characters whose JoinMonth
// has been reached.
func AvailableCharacters(month int, chars map[string]Character) map[string]Character {
	out := make(map[string]Character)
	for id, c := range chars {
		if c.JoinMonth <= month {
			out[id] = c
		}
	}
	return out
}

// CurrentChapter returns the chapter whose month range contains month.
// Falls back to the first chapter; unreachable while the chapter table
// stays contiguous over 1..MaxMonths.
func CurrentChapter(month int) Chapter {
	for _, ch := range Chapters {
		if month >= ch.MonthStart && month <= ch.MonthEnd {
			return ch
		}
	}
	return Chapters[0]
}

// MonthEvents returns forced events scheduled for month that have not
// fired yet.
func MonthEvents(month int, triggered []string) []ForcedEvent {
	seen := make(map[string]bool, len(triggered))
	for _, id := range triggered {
		seen[id] = true
	}
	var out []ForcedEvent
	for _, e := range ForcedEvents {
		if e.TriggerMonth == month && !seen[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

// StatLevel buckets a 0-100 value into a named relationship tier.
func StatLevel(value int) (int, string) {
	switch {
	case value >= 80:
		return 4, "深度信赖"
	case value >= 60:
		return 3, "伙伴关系"
	case value >= 30:
		return 2, "逐渐了解"
	default:
		return 1, "初步接触"
	}
}
