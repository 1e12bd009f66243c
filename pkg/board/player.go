package board

import "fmt"

// Player identifies a participant slot. Standard boards use {1,2}; four-player
// boards use {1,2,3,4}. The zero value is used as the "no winner" sentinel for
// draws, never as an actual seat.
type Player uint8

const (
	NoPlayer Player = 0
	Player1  Player = 1
	Player2  Player = 2
	Player3  Player = 3
	Player4  Player = 4
)

func (p Player) String() string {
	if p == NoPlayer {
		return "draw"
	}
	return fmt.Sprintf("p%d", uint8(p))
}

// PlayersFor returns the ordered seat list for a board type.
func PlayersFor(t Type) []Player {
	if t == FourPlayer {
		return []Player{Player1, Player2, Player3, Player4}
	}
	return []Player{Player1, Player2}
}
