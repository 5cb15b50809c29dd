package mana

import (
	"testing"
)

func TestPool_Add(t *testing.T) {
	var pool Pool

	pool.Add(White, 2)
	if pool.Amount(White) != 2 {
		t.Errorf("Expected 2 white mana, got %d", pool.Amount(White))
	}

	pool.Add(Blue, 1)
	if pool.Amount(Blue) != 1 {
		t.Errorf("Expected 1 blue mana, got %d", pool.Amount(Blue))
	}

	pool.Add(Any, 3)
	if pool.Total() != 3 {
		t.Errorf("Any must never enter a pool, total %d", pool.Total())
	}
}

func TestPool_PayColored(t *testing.T) {
	var pool Pool
	pool.Add(Green, 2)
	pool.Add(White, 1)

	cost := MustParse("{G}{G}")
	if !pool.CanPay(cost) {
		t.Fatal("expected to afford {G}{G}")
	}
	if !pool.Pay(cost) {
		t.Fatal("expected to pay {G}{G}")
	}
	if pool.Amount(Green) != 0 || pool.Amount(White) != 1 {
		t.Errorf("unexpected pool after payment: %+v", pool)
	}
}

func TestPool_PayGenericDrainsAnyColor(t *testing.T) {
	var pool Pool
	pool.Add(Red, 1)
	pool.Add(Colorless, 1)

	if !pool.Pay(MustParse("{2}")) {
		t.Fatal("expected to pay {2} from R + C")
	}
	if pool.Total() != 0 {
		t.Errorf("expected empty pool, got %+v", pool)
	}
}

func TestPool_PayRejectsShortfall(t *testing.T) {
	var pool Pool
	pool.Add(White, 1)
	pool.Add(Blue, 2)

	cost := MustParse("{W}{W}")
	if pool.CanPay(cost) {
		t.Error("blue mana must not satisfy a white requirement")
	}
	if pool.Pay(cost) {
		t.Error("Pay must fail on shortfall")
	}
	if pool.Amount(White) != 1 || pool.Amount(Blue) != 2 {
		t.Errorf("failed payment must not change the pool: %+v", pool)
	}
}

func TestPool_Empty(t *testing.T) {
	var pool Pool
	pool.Add(Black, 4)
	pool.Empty()
	if pool.Total() != 0 {
		t.Errorf("expected empty pool, got %d", pool.Total())
	}
}
