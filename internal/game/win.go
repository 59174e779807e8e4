package game

// CheckWinner applies the win rules to the living players, in order:
// Mafia at numeric parity or better with Town, then no Mafia left, then no
// Town left. Neutral players never count.
func CheckWinner(alive []*Player) Winner {
	mafia, town := 0, 0
	for _, p := range alive {
		switch p.role.Alignment() {
		case AlignmentMafia:
			mafia++
		case AlignmentTown:
			town++
		}
	}
	switch {
	case mafia > 0 && town > 0 && mafia >= town:
		return WinnerMafia
	case mafia == 0:
		return WinnerTown
	case town == 0:
		return WinnerMafia
	}
	return WinnerNone
}
