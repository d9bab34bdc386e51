package collection_test

import (
	"reflect"
	"testing"

	"github.com/hostelease/hostelease/pkg/collection"
)

type line struct {
	ProductID uint
	Price     float64
	Quantity  int
}

func TestMap(t *testing.T) {
	ids := collection.Map([]line{{ProductID: 3}, {ProductID: 5}}, func(l line) uint { return l.ProductID })
	if !reflect.DeepEqual(ids, []uint{3, 5}) {
		t.Errorf("Map = %v", ids)
	}
}

func TestFilter(t *testing.T) {
	got := collection.Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
	if !reflect.DeepEqual(got, []int{2, 4}) {
		t.Errorf("Filter = %v", got)
	}
	if got := collection.Filter([]int{1, 3}, func(n int) bool { return n > 10 }); got != nil {
		t.Errorf("expected nil for no matches, got %v", got)
	}
}

func TestFirstAndContains(t *testing.T) {
	lines := []line{{ProductID: 1}, {ProductID: 2}}

	first, ok := collection.First(lines, func(l line) bool { return l.ProductID == 2 })
	if !ok || first.ProductID != 2 {
		t.Errorf("First = %+v, %v", first, ok)
	}
	if _, ok := collection.First(lines, func(l line) bool { return l.ProductID == 9 }); ok {
		t.Error("expected no match")
	}

	if !collection.Contains(lines, func(l line) bool { return l.ProductID == 1 }) {
		t.Error("Contains should find product 1")
	}
}

func TestGroupBy(t *testing.T) {
	groups := collection.GroupBy([]string{"apple", "avocado", "banana"}, func(s string) string { return s[:1] })
	if len(groups["a"]) != 2 || len(groups["b"]) != 1 {
		t.Errorf("GroupBy = %v", groups)
	}
}

func TestKeyBy(t *testing.T) {
	byID := collection.KeyBy([]line{{ProductID: 1, Price: 10}, {ProductID: 2, Price: 20}},
		func(l line) uint { return l.ProductID })
	if byID[2].Price != 20 {
		t.Errorf("KeyBy[2] = %+v", byID[2])
	}

	// Last key wins on duplicates.
	byID = collection.KeyBy([]line{{ProductID: 1, Price: 10}, {ProductID: 1, Price: 99}},
		func(l line) uint { return l.ProductID })
	if byID[1].Price != 99 {
		t.Errorf("expected last duplicate to win, got %+v", byID[1])
	}
}

func TestUnique(t *testing.T) {
	got := collection.Unique([]uint{3, 1, 3, 2, 1})
	if !reflect.DeepEqual(got, []uint{3, 1, 2}) {
		t.Errorf("Unique = %v, want order-preserving [3 1 2]", got)
	}
}

func TestReduceAndSum(t *testing.T) {
	lines := []line{
		{Price: 45, Quantity: 2},
		{Price: 20, Quantity: 1},
	}

	total := collection.Sum(lines, func(l line) float64 { return l.Price * float64(l.Quantity) })
	if total != 110 {
		t.Errorf("Sum = %v, want 110", total)
	}

	count := collection.Reduce(lines, 0, func(acc int, l line) int { return acc + l.Quantity })
	if count != 3 {
		t.Errorf("Reduce = %d, want 3", count)
	}
}
