package model

// Engine strategy constants
const (
	StrategyMinimax = "minimax"
	StrategyCasual  = "casual"
	StrategyRandom  = "random"
)

// DefaultStrategy is used when a game is created without one
const DefaultStrategy = StrategyMinimax

// StrategyDisplayName returns a human-readable label for a strategy
func StrategyDisplayName(strategy string) string {
	switch strategy {
	case StrategyMinimax:
		return "Minimax"
	case StrategyCasual:
		return "Casual"
	case StrategyRandom:
		return "Random"
	default:
		return strategy
	}
}

// ValidStrategies returns all valid strategy names
func ValidStrategies() []string {
	return []string{StrategyMinimax, StrategyCasual, StrategyRandom}
}

// IsValidStrategy reports whether name is a known strategy
func IsValidStrategy(name string) bool {
	for _, s := range ValidStrategies() {
		if s == name {
			return true
		}
	}
	return false
}
