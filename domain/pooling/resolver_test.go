package pooling

import (
	"errors"
	"math/rand"
	"testing"

	"poolscreen/domain/core"
)

func poolFrom(values, scores []float64) Pool {
	pool := make(Pool, len(values))
	for i := range values {
		pool[i] = Subject{Index: i, Value: values[i], Score: scores[i]}
	}
	return pool
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		tag     string
		want    Method
		wantErr bool
	}{
		{tag: "minipool", want: MethodMiniPool},
		{tag: "MPA", want: MethodMPA},
		{tag: " mMPA ", want: MethodMMPA},
		{tag: "MiniPool", want: MethodMiniPool},
		{tag: "pooled", wantErr: true},
		{tag: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseMethod(tt.tag)
		if tt.wantErr {
			if !errors.Is(err, core.ErrInvalidMethod) {
				t.Errorf("ParseMethod(%q) error = %v, want ErrInvalidMethod", tt.tag, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMethod(%q) unexpected error: %v", tt.tag, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMethod(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestResolve_Errors(t *testing.T) {
	if _, err := Resolve(Pool{}, MethodMPA, 1000); !errors.Is(err, core.ErrEmptyPool) {
		t.Errorf("empty pool error = %v, want ErrEmptyPool", err)
	}
	pool := poolFrom([]float64{10}, []float64{0})
	if _, err := Resolve(pool, Method("bisect"), 1000); !errors.Is(err, core.ErrInvalidMethod) {
		t.Errorf("unknown method error = %v, want ErrInvalidMethod", err)
	}
}

func TestResolveMiniPool(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   int
	}{
		{name: "all negative pool cleared with one assay", values: []float64{10, 20, 30, 40, 50}, want: 1},
		{name: "one positive triggers full retest", values: []float64{10, 10, 10, 5000, 10}, want: 6},
		{name: "all positive triggers full retest", values: []float64{2000, 3000, 4000}, want: 4},
		{name: "single subject negative", values: []float64{999}, want: 1},
		{name: "single subject positive", values: []float64{1000}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := poolFrom(tt.values, make([]float64, len(tt.values)))
			got, err := Resolve(pool, MethodMiniPool, DefaultThreshold)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("minipool count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolveMPA(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   int
	}{
		{name: "negative pool", values: []float64{10, 20, 30, 40, 50}, want: 1},
		// Positive at position 3: three negatives retested before the
		// positive, then the residual clears the last member.
		{name: "positive at index 3", values: []float64{10, 10, 10, 5000, 10}, want: 5},
		// Positive first: one retest leaves a residual below threshold.
		{name: "positive first", values: []float64{5000, 10, 10, 10, 10}, want: 2},
		{name: "all positive retests everyone", values: []float64{2000, 3000, 4000}, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := poolFrom(tt.values, make([]float64, len(tt.values)))
			got, err := Resolve(pool, MethodMPA, DefaultThreshold)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("mpa count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolveMMPA_ScoreOrdering(t *testing.T) {
	// Same pool as "positive at index 3" above, but the risk score ranks
	// the positive first, so a single retest resolves the pool.
	values := []float64{10, 10, 10, 5000, 10}
	scores := []float64{0.1, 0.2, 0.3, 0.9, 0.2}

	got, err := Resolve(poolFrom(values, scores), MethodMMPA, DefaultThreshold)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != 2 {
		t.Errorf("mmpa count = %d, want 2", got)
	}

	mpa, err := Resolve(poolFrom(values, scores), MethodMPA, DefaultThreshold)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got >= mpa {
		t.Errorf("mmpa count %d should beat mpa count %d when scores are informative", got, mpa)
	}
}

func TestResolveMMPA_TiedScoresReduceToMPA(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		size := 1 + rnd.Intn(8)
		values := make([]float64, size)
		scores := make([]float64, size)
		for i := range values {
			values[i] = rnd.Float64() * 3000
			scores[i] = 0.5 // no information
		}
		pool := poolFrom(values, scores)

		mpa, err := Resolve(pool, MethodMPA, DefaultThreshold)
		if err != nil {
			t.Fatalf("Resolve mpa: %v", err)
		}
		mmpa, err := Resolve(pool, MethodMMPA, DefaultThreshold)
		if err != nil {
			t.Fatalf("Resolve mmpa: %v", err)
		}
		if mpa != mmpa {
			t.Fatalf("trial %d: tied scores must reduce mmpa to mpa, got mmpa=%d mpa=%d values=%v",
				trial, mmpa, mpa, values)
		}
	}
}

func TestResolve_BoundsAndDominance(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	for trial := 0; trial < 500; trial++ {
		size := 1 + rnd.Intn(10)
		values := make([]float64, size)
		scores := make([]float64, size)
		for i := range values {
			if rnd.Float64() < 0.3 {
				values[i] = 1000 + rnd.Float64()*9000
			} else {
				values[i] = rnd.Float64() * 900
			}
			scores[i] = rnd.Float64()
		}
		pool := poolFrom(values, scores)

		mini, _ := Resolve(pool, MethodMiniPool, DefaultThreshold)
		mpa, _ := Resolve(pool, MethodMPA, DefaultThreshold)
		mmpa, _ := Resolve(pool, MethodMMPA, DefaultThreshold)

		if mini != 1 && mini != size+1 {
			t.Fatalf("trial %d: minipool count %d not in {1, %d}", trial, mini, size+1)
		}
		for name, count := range map[string]int{"mpa": mpa, "mmpa": mmpa} {
			if count < 1 || count > size+1 {
				t.Fatalf("trial %d: %s count %d outside [1, %d]", trial, name, count, size+1)
			}
			if count > mini {
				t.Fatalf("trial %d: %s count %d exceeds minipool count %d", trial, name, count, mini)
			}
		}
	}
}

func TestResolve_DeterministicAcrossCalls(t *testing.T) {
	values := []float64{120, 4500, 80, 900, 1500}
	scores := []float64{0.3, 0.3, 0.9, 0.1, 0.3}
	pool := poolFrom(values, scores)

	for _, method := range []Method{MethodMiniPool, MethodMPA, MethodMMPA} {
		first, err := Resolve(pool, method, DefaultThreshold)
		if err != nil {
			t.Fatalf("Resolve %s: %v", method, err)
		}
		for i := 0; i < 10; i++ {
			again, err := Resolve(pool, method, DefaultThreshold)
			if err != nil {
				t.Fatalf("Resolve %s: %v", method, err)
			}
			if again != first {
				t.Fatalf("%s not deterministic: %d then %d", method, first, again)
			}
		}
	}
}

func TestResolve_DoesNotMutatePool(t *testing.T) {
	values := []float64{120, 4500, 80, 900, 1500}
	scores := []float64{0.3, 0.8, 0.9, 0.1, 0.2}
	pool := poolFrom(values, scores)

	if _, err := Resolve(pool, MethodMMPA, DefaultThreshold); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for i, s := range pool {
		if s.Index != i || s.Value != values[i] || s.Score != scores[i] {
			t.Fatalf("pool mutated at %d: %+v", i, s)
		}
	}
}
