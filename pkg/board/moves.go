package board

import "fmt"

// ErrInvalidMove is returned by CandidatePath for any rule violation: off
// board, wrong pattern for the piece, blocked, or conflicting with another
// in-flight piece. All such violations collapse to a single submitter-visible
// "invalid_move" rejection; the wrapped error is for logs only.
type ErrInvalidMove struct {
	Reason string
}

func (e *ErrInvalidMove) Error() string {
	return fmt.Sprintf("invalid move: %v", e.Reason)
}

func invalid(format string, args ...any) error {
	return &ErrInvalidMove{Reason: fmt.Sprintf(format, args...)}
}

// CandidatePath derives the path a piece would take to reach (toRow, toCol),
// applying the per-piece motion rules and blockage semantics of spec.md
// §4.2. On success, the returned path's first element is the piece's current
// square and the last is the destination; len(path) >= 2.
func CandidatePath(b *Board, actives []*ActiveMove, piece *Instance, to Square) ([]Square, *ActiveMove, error) {
	if !b.IsValid(to.Row, to.Col) {
		return nil, nil, invalid("destination %v off board", to)
	}
	from := piece.Square()
	if from.Equals(to) {
		return nil, nil, invalid("destination equals origin")
	}

	var path []Square
	var extra *ActiveMove
	var err error

	switch piece.Type {
	case Pawn:
		path, err = pawnPath(b, piece, to)
	case Knight:
		path, err = knightPath(piece, to)
	case Bishop:
		path, err = rayPath(b, piece, to, BishopDirections)
	case Rook:
		path, err = rayPath(b, piece, to, RookDirections)
	case Queen:
		path, err = rayPath(b, piece, to, QueenDirections)
	case King:
		path, extra, err = kingPath(b, actives, piece, to)
	default:
		err = invalid("unknown piece type %v", piece.Type)
	}
	if err != nil {
		return nil, nil, err
	}

	if err := checkFutureBlockage(b, actives, piece, path); err != nil {
		return nil, nil, err
	}
	return path, extra, nil
}

// pawnPath: one or two squares straight ahead (two only from the initial
// square, with both the intermediate and destination empty), or one square
// diagonally forward when the target square holds an enemy piece. A
// straight-moving pawn never captures: that is enforced by the collision
// resolver (§4.3), not here.
func pawnPath(b *Board, piece *Instance, to Square) ([]Square, error) {
	from := piece.Square()
	dir := forwardDir(b.Type, piece.Player)

	dr, dc := to.Row-from.Row, to.Col-from.Col

	switch {
	case dc == 0 && dr == dir.DRow:
		// single step forward; destination must be empty.
		if _, occupied := b.At(to.Row, to.Col); occupied {
			return nil, invalid("pawn push blocked")
		}
		return []Square{from, to}, nil

	case dc == 0 && dr == 2*dir.DRow:
		if piece.HasMoved {
			return nil, invalid("pawn double-step after moving")
		}
		mid := from.Add(dir.DRow, dir.DCol)
		if _, occupied := b.At(mid.Row, mid.Col); occupied {
			return nil, invalid("pawn double-step blocked at %v", mid)
		}
		if _, occupied := b.At(to.Row, to.Col); occupied {
			return nil, invalid("pawn double-step blocked at %v", to)
		}
		return []Square{from, mid, to}, nil

	case abs(dc) == 1 && dr == dir.DRow:
		target, occupied := b.At(to.Row, to.Col)
		if !occupied || target.Player == piece.Player {
			return nil, invalid("pawn diagonal requires an enemy piece")
		}
		return []Square{from, to}, nil

	default:
		return nil, invalid("not a legal pawn move")
	}
}

// knightPath: an L-shape to a single destination. Intermediate squares do
// not exist (length-2 path); knights jump.
func knightPath(piece *Instance, to Square) ([]Square, error) {
	from := piece.Square()
	dr, dc := to.Row-from.Row, to.Col-from.Col
	for _, s := range KnightSteps {
		if s.DRow == dr && s.DCol == dc {
			return []Square{from, to}, nil
		}
	}
	return nil, invalid("not a knight move")
}

// rayPath: a straight or diagonal ray ending at the destination. Every
// square on the ray other than the destination must be empty; the
// destination may hold an enemy piece (capture resolved by collision).
func rayPath(b *Board, piece *Instance, to Square, dirs []Direction) ([]Square, error) {
	from := piece.Square()
	dir, ok := unitStep(from, to)
	if !ok {
		return nil, invalid("not aligned on rank, file or diagonal")
	}
	if !containsDir(dirs, dir) {
		return nil, invalid("not a legal direction for piece")
	}

	path := []Square{from}
	cur := from
	for {
		cur = cur.Add(dir.DRow, dir.DCol)
		path = append(path, cur)

		if cur.Equals(to) {
			if target, occupied := b.At(cur.Row, cur.Col); occupied && target.Player == piece.Player {
				return nil, invalid("destination occupied by own piece")
			}
			return path, nil
		}
		if _, occupied := b.At(cur.Row, cur.Col); occupied {
			return nil, invalid("ray blocked at %v", cur)
		}
	}
}

// kingPath: one square in any direction, or a two-square castling move
// toward a rook that has not moved, per spec.md §4.2.
func kingPath(b *Board, actives []*ActiveMove, piece *Instance, to Square) ([]Square, *ActiveMove, error) {
	from := piece.Square()
	dr, dc := to.Row-from.Row, to.Col-from.Col

	if abs(dr) <= 1 && abs(dc) <= 1 {
		if target, occupied := b.At(to.Row, to.Col); occupied && target.Player == piece.Player {
			return nil, nil, invalid("destination occupied by own piece")
		}
		return []Square{from, to}, nil, nil
	}

	if dr == 0 && abs(dc) == 2 {
		return castlingPath(b, actives, piece, to, dc)
	}
	return nil, nil, invalid("not a legal king move")
}

func castlingPath(b *Board, actives []*ActiveMove, king *Instance, to Square, dc int) ([]Square, *ActiveMove, error) {
	if king.HasMoved {
		return nil, nil, invalid("king has moved")
	}

	rookCol := to.Col + sign(dc) // rook sits one further square in the same direction
	rook, ok := b.At(king.Row, rookCol)
	if !ok || rook.Type != Rook || rook.Player != king.Player || rook.HasMoved {
		return nil, nil, invalid("no eligible rook for castling")
	}

	mid := king.Square().Add(0, sign(dc))
	for _, sq := range []Square{mid, to} {
		if _, occupied := b.At(sq.Row, sq.Col); occupied {
			return nil, nil, invalid("castling path blocked at %v", sq)
		}
		if activeMoveOccupies(b, actives, king.Player, king.ID, sq) {
			return nil, nil, invalid("castling path contested at %v", sq)
		}
	}

	kingPath := []Square{king.Square(), mid, to}
	rookTo := mid
	rookMove := &ActiveMove{PieceID: rook.ID, Path: []Square{rook.Square(), rookTo}}
	return kingPath, rookMove, nil
}

// activeMoveOccupies reports whether any OTHER active move of the same
// player passes through sq, used to keep the king from castling through a
// square a teammate's own piece is currently mid-flight through.
func activeMoveOccupies(b *Board, actives []*ActiveMove, player Player, exclude ID, sq Square) bool {
	for _, am := range actives {
		if am.PieceID == exclude {
			continue
		}
		other := b.ByID(am.PieceID)
		if other == nil || other.Player != player {
			continue
		}
		for _, s := range am.Path {
			if s.Equals(sq) {
				return true
			}
		}
	}
	return false
}

// checkFutureBlockage implements the conservative rule of spec.md §4.2: a
// candidate path is rejected if any OTHER active move belonging to the same
// player has a path that shares any square with the candidate path. This is
// deliberately the blunt, rejection-biased reading called out as an Open
// Question in spec.md §9 -- no allowance is made for the other piece
// vacating the square before the mover would arrive.
func checkFutureBlockage(b *Board, actives []*ActiveMove, piece *Instance, path []Square) error {
	for _, am := range actives {
		if am.PieceID == piece.ID {
			continue
		}
		other := b.ByID(am.PieceID)
		if other == nil || other.Player != piece.Player {
			continue // only a teammate's own future path can block
		}
		for _, s := range am.Path {
			for _, c := range path {
				if s.Equals(c) {
					return invalid("contested by in-flight piece %v at %v", am.PieceID, c)
				}
			}
		}
	}
	return nil
}

func containsDir(dirs []Direction, d Direction) bool {
	for _, x := range dirs {
		if x == d {
			return true
		}
	}
	return false
}

// forwardDir returns the forward unit direction for a pawn of the given
// player on the given board type -- the inward normal of that player's
// starting edge.
func forwardDir(t Type, player Player) Direction {
	if t == Standard {
		if player == Player1 {
			return North
		}
		return South
	}
	switch player {
	case Player1:
		return North
	case Player2:
		return South
	case Player3:
		return East
	case Player4:
		return West
	}
	return North
}
