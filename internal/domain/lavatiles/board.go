package lavatiles

import "errors"

type Phase string

const (
	PhaseConfirm  Phase = "confirm"
	PhasePlaying  Phase = "playing"
	PhaseResolved Phase = "resolved"
	PhaseExpired  Phase = "expired"
)

var (
	ErrCellOutOfRange   = errors.New("cell out of range")
	ErrCellRevealed     = errors.New("cell already revealed")
	ErrNothingRevealed  = errors.New("no safe cells revealed")
	ErrInvalidBoardSize = errors.New("invalid board size")
)

// houseEdgePercent is taken off the fair multiplier at cash-out.
const houseEdgePercent = 5

type Cell struct {
	Lava     bool `json:"lava"`
	Revealed bool `json:"revealed"`
}

// Board is the ordered cell sequence for one game. The layout is fixed at
// creation; only Revealed flags mutate afterwards.
type Board struct {
	Cells []Cell `json:"cells"`
	Lava  int    `json:"lava"`
}

type rand interface {
	RandInt(min, max int) int
}

// NewBoard lays out size cells with lavaCount lava tiles placed by rng.
func NewBoard(size, lavaCount int, rng rand) (Board, error) {
	if size < 2 || lavaCount < 1 || lavaCount >= size {
		return Board{}, ErrInvalidBoardSize
	}
	cells := make([]Cell, size)
	placed := 0
	for placed < lavaCount {
		i := rng.RandInt(0, size-1)
		if cells[i].Lava {
			continue
		}
		cells[i].Lava = true
		placed++
	}
	return Board{Cells: cells, Lava: lavaCount}, nil
}

// Reveal flips one cell and reports whether it was lava.
func (b *Board) Reveal(i int) (bool, error) {
	if i < 0 || i >= len(b.Cells) {
		return false, ErrCellOutOfRange
	}
	if b.Cells[i].Revealed {
		return false, ErrCellRevealed
	}
	b.Cells[i].Revealed = true
	return b.Cells[i].Lava, nil
}

func (b Board) SafeRevealed() int {
	n := 0
	for _, c := range b.Cells {
		if c.Revealed && !c.Lava {
			n++
		}
	}
	return n
}

func (b Board) SafeRemaining() int {
	return len(b.Cells) - b.Lava - b.SafeRevealed()
}

// Multiplier is the fixed-point (hundredths) payout factor after the
// current reveals: the fair odds product with the house edge applied.
// One safe reveal on a 9/3 board is fair 9/6 = 1.50x, paid 1.42x.
func (b Board) Multiplier() (int, error) {
	revealed := b.SafeRevealed()
	if revealed == 0 {
		return 0, ErrNothingRevealed
	}
	size := len(b.Cells)
	safe := size - b.Lava
	mult := int64(100)
	for i := 0; i < revealed; i++ {
		mult = mult * int64(size-i) / int64(safe-i)
	}
	mult = mult * int64(100-houseEdgePercent) / 100
	if mult < 100 {
		mult = 100
	}
	return int(mult), nil
}
