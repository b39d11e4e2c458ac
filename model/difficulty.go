package model

import (
	"errors"
	"fmt"
	"strings"
)

type Difficulty int

const (
	Easy Difficulty = iota + 1
	Medium
	Hard
)

var ErrUnknownDifficulty = errors.New("unknown difficulty")

func (d Difficulty) Name() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("n/a:%d", int(d))
	}
}

func (d Difficulty) String() string {
	return d.Name()
}

// Size is the grid width and height of the tier.
func (d Difficulty) Size() (int, int, error) {
	switch d {
	case Easy:
		return 10, 10, nil
	case Medium:
		return 15, 15, nil
	case Hard:
		return 20, 20, nil
	default:
		return 0, 0, fmt.Errorf("%w: %d", ErrUnknownDifficulty, int(d))
	}
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "small":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard", "large":
		return Hard, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
}
