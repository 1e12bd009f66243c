package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/seekerror/logw"

	"github.com/kungfuchess/engine/pkg/ai"
	"github.com/kungfuchess/engine/pkg/board"
	"github.com/kungfuchess/engine/pkg/game"
	"github.com/kungfuchess/engine/pkg/session"
)

var (
	boardType = flag.String("board", "standard", "board geometry: standard or four_player")
	tickRate  = flag.Int("rate", 10, "ticks/second")
	period    = flag.Uint64("period", 3, "ticks between AI move attempts")
	seed      = flag.Int64("seed", time.Now().UnixNano(), "AI random seed")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: kungfu-sim [options]

kungfu-sim runs a headless Kung Fu Chess game between AI players and
logs every snapshot the game publishes, one per tick.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	bt := parseBoardType(ctx, *boardType)

	opts := []session.Option{
		session.WithBoardType(bt),
		session.WithTickRate(*tickRate),
		session.WithIdleTimeout(time.Minute),
	}
	for i, p := range board.PlayersFor(bt) {
		opts = append(opts, session.WithAIProvider(p, ai.NewRandom(*period, *seed+int64(i))))
	}

	r := session.New(ctx, "sim", opts...)
	snapshots, unsub := r.Subscribe()
	defer unsub()

	for {
		select {
		case snap := <-snapshots:
			logw.Infof(ctx, "%v", snap)
			if snap.Status == game.Finished {
				return
			}
		case <-r.Closed():
			return
		}
	}
}

func parseBoardType(ctx context.Context, s string) board.Type {
	switch s {
	case "standard":
		return board.Standard
	case "four_player":
		return board.FourPlayer
	default:
		logw.Exitf(ctx, "unknown board type %v", s)
		return board.Standard
	}
}
