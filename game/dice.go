package game

import "golang.org/x/exp/rand"

// RollDice 掷两枚骰子，均匀独立
func RollDice(rng *rand.Rand) DiceResult {
	die1 := rng.Intn(6) + 1
	die2 := rng.Intn(6) + 1
	return DiceResult{
		Die1:     die1,
		Die2:     die2,
		Total:    die1 + die2,
		IsDouble: die1 == die2,
	}
}
