package board

// PieceMoves pairs a piece with the destinations it can currently reach.
type PieceMoves struct {
	PieceID      ID
	Destinations []Square
}

// LegalMovesForPlayer enumerates, for every piece owned by player that is
// neither captured, moving, nor on cooldown, the destinations its per-piece
// generator yields. Brute-forced over every board square: board sizes here
// are at most 12x12, so this is cheap and needs no move-generation cache.
func LegalMovesForPlayer(b *Board, actives []*ActiveMove, cooldowns []*Cooldown, player Player) []PieceMoves {
	moving := map[ID]bool{}
	for _, am := range actives {
		moving[am.PieceID] = true
		if am.ExtraMove != nil {
			// A castling rook has no ActiveMove of its own -- it travels
			// with the king's -- but it is just as unavailable to a new
			// order until the king's move finalises.
			moving[am.ExtraMove.PieceID] = true
		}
	}
	resting := map[ID]bool{}
	for _, cd := range cooldowns {
		resting[cd.PieceID] = true
	}

	n := b.Type.Size()
	var out []PieceMoves
	for _, pc := range b.Pieces {
		if pc.Captured || pc.Player != player || moving[pc.ID] || resting[pc.ID] {
			continue
		}

		var dests []Square
		for row := 0; row < n; row++ {
			for col := 0; col < n; col++ {
				if !b.IsValid(row, col) {
					continue
				}
				to := Square{Row: row, Col: col}
				if to.Equals(pc.Square()) {
					continue
				}
				if _, _, err := CandidatePath(b, actives, pc, to); err == nil {
					dests = append(dests, to)
				}
			}
		}
		if len(dests) > 0 {
			out = append(out, PieceMoves{PieceID: pc.ID, Destinations: dests})
		}
	}
	return out
}
