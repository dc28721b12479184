package yield

//go:generate go tool stringer -type=visitState -trimprefix=visit -output=visitstate_string.go
//go:generate go tool stringer -type=Strategy -linecomment -output=strategy_string.go

import (
	"fmt"
	"strings"
)

// visitState is the DFS colour of a bundle within one resolution run.
type visitState int

const (
	visitWhite visitState = iota // not reached yet
	visitGray                    // on the work stack
	visitBlack                   // resolved and memoized
)

// Strategy selects how a Resolver computes yields.
type Strategy int

const (
	StrategyGreedy  Strategy = iota // greedy
	StrategyExplode                 // explode
)

// Strategies lists every supported strategy name.
func Strategies() []string {
	return []string{StrategyGreedy.String(), StrategyExplode.String()}
}

// ParseStrategy returns the strategy with the given name. An empty name
// selects StrategyGreedy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyGreedy.String():
		return StrategyGreedy, nil
	case StrategyExplode.String():
		return StrategyExplode, nil
	default:
		return StrategyGreedy, fmt.Errorf("unknown strategy %q (want one of %s)", name, strings.Join(Strategies(), ", "))
	}
}

// MarshalText renders the strategy by name in JSON and YAML output.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
