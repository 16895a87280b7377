package points

import "testing"

func TestScoreToPoints_Anchors(t *testing.T) {
	// пол, граница веток и потолок кривой
	if got := ScoreToPoints(20); got != 100 {
		t.Fatalf("ScoreToPoints(20): ожидали 100, получили %d", got)
	}
	if got := ScoreToPoints(80); got != 400 {
		t.Fatalf("ScoreToPoints(80): ожидали 400, получили %d", got)
	}
	if got := ScoreToPoints(140); got != 500 {
		t.Fatalf("ScoreToPoints(140): ожидали 500, получили %d", got)
	}
}

func TestScoreToPoints_Midpoints(t *testing.T) {
	// середины веток: 100 + 300·(2·0.25)^1.5 ≈ 206, 400 + 400·0.25² = 425
	if got := ScoreToPoints(50); got != 206 {
		t.Fatalf("ScoreToPoints(50): ожидали 206, получили %d", got)
	}
	if got := ScoreToPoints(110); got != 425 {
		t.Fatalf("ScoreToPoints(110): ожидали 425, получили %d", got)
	}
}

func TestScoreToPoints_Clamps(t *testing.T) {
	if ScoreToPoints(10) != ScoreToPoints(20) {
		t.Fatal("оценка ниже 20 должна зажиматься к 20")
	}
	if ScoreToPoints(200) != ScoreToPoints(140) {
		t.Fatal("оценка выше 140 должна зажиматься к 140")
	}
	if ScoreToPoints(140) > 500 {
		t.Fatal("итог не может превышать 500")
	}
}

func TestScoreToPoints_Monotone(t *testing.T) {
	prev := ScoreToPoints(20)
	for m := 21; m <= 140; m++ {
		cur := ScoreToPoints(float64(m))
		if cur < prev {
			t.Fatalf("кривая убыла на marks=%d: %d < %d", m, cur, prev)
		}
		prev = cur
	}
}

func TestScoreToPoints_BranchContinuity(t *testing.T) {
	// чуть левее и чуть правее границы n=0.5 значения не должны расходиться
	left := ScoreToPoints(79.999)
	right := ScoreToPoints(80.001)
	if right-left > 1 {
		t.Fatalf("разрыв на границе веток: %d vs %d", left, right)
	}
}
