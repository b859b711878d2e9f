package game_test

import (
	"testing"

	"golang.org/x/exp/rand"

	"go-richman/game"
)

func TestRollDiceRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sawDouble := false
	for i := 0; i < 1000; i++ {
		d := game.RollDice(rng)
		if d.Die1 < 1 || d.Die1 > 6 || d.Die2 < 1 || d.Die2 > 6 {
			t.Fatalf("骰子点数越界: %+v", d)
		}
		if d.Total != d.Die1+d.Die2 {
			t.Fatalf("总点数不一致: %+v", d)
		}
		if d.IsDouble != (d.Die1 == d.Die2) {
			t.Fatalf("双数标记不一致: %+v", d)
		}
		if d.IsDouble {
			sawDouble = true
		}
	}
	if !sawDouble {
		t.Error("1000 次掷骰未出现双数")
	}
}

func TestRollDiceDeterministicWithSeed(t *testing.T) {
	a := rand.New(rand.NewSource(7))
	b := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		if game.RollDice(a) != game.RollDice(b) {
			t.Fatal("相同种子应得到相同序列")
		}
	}
}
