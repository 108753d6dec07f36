package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestAccumulator_AddTruncatesAndClamps(t *testing.T) {
	acc := NewAccumulator(2, 1)

	acc.Add(0, 0, core.NewVec3(0.25, 1.0, 2.0))
	acc.Add(1, 0, core.NewVec3(-1.0, math.NaN(), 0.999))

	expected := []uint32{63, 255, 510, 0, 0, 254}
	for i, v := range expected {
		if acc.Sums[i] != v {
			t.Errorf("Sums[%d]: expected %d, got %d", i, v, acc.Sums[i])
		}
	}
}

func TestAccumulator_Resolve(t *testing.T) {
	tests := []struct {
		name       string
		sum        uint32
		iterations int
		expected   byte
	}{
		{"black", 0, 1, 0},
		{"quarter", 63, 1, 126},
		{"half", 127, 1, 179},
		{"full", 255, 1, 255},
		{"over range clamps", 5000, 1, 255},
		{"integer average", 130, 2, 128},   // 130/2 = 65
		{"average truncates", 127, 2, 126}, // 127/2 = 63
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := NewAccumulator(1, 1)
			acc.Sums[0], acc.Sums[1], acc.Sums[2] = tt.sum, tt.sum, tt.sum
			acc.Iterations = tt.iterations

			buf := make([]byte, 4)
			acc.Resolve(buf)

			want := byte(math.Sqrt(float64(tt.sum/uint32(tt.iterations))/255.0) * 255.0)
			if tt.sum/uint32(tt.iterations) > 255 {
				want = 255
			}
			if want != tt.expected {
				t.Fatalf("Test table inconsistent: %d vs %d", want, tt.expected)
			}
			if buf[0] != tt.expected || buf[1] != tt.expected || buf[2] != tt.expected {
				t.Errorf("Expected %d, got %v", tt.expected, buf[:3])
			}
			if buf[3] != 255 {
				t.Errorf("Expected alpha 255, got %d", buf[3])
			}
		})
	}
}

func TestAccumulator_ResolvePanicsWithoutPasses(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic when resolving zero iterations")
		}
	}()
	NewAccumulator(2, 2).Resolve(make([]byte, 16))
}

func TestAccumulator_ResolvePanicsOnWrongBuffer(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for wrong buffer size")
		}
	}()
	acc := NewAccumulator(2, 2)
	acc.Iterations = 1
	acc.Resolve(make([]byte, 12))
}

func TestAccumulator_MergeAndReset(t *testing.T) {
	a := NewAccumulator(1, 2)
	b := NewAccumulator(1, 2)
	a.Add(0, 1, core.NewVec3(0.1, 0.2, 0.3))
	a.Iterations = 2
	b.Add(0, 1, core.NewVec3(0.4, 0.5, 0.7))
	b.Iterations = 3

	a.Merge(b)
	if a.Iterations != 5 {
		t.Errorf("Expected 5 iterations, got %d", a.Iterations)
	}
	// 25+102, 51+127, 76+178
	expected := []uint32{0, 0, 0, 127, 178, 254}
	for i, v := range expected {
		if a.Sums[i] != v {
			t.Errorf("Sums[%d]: expected %d, got %d", i, v, a.Sums[i])
		}
	}

	a.Reset()
	if a.Iterations != 0 {
		t.Errorf("Expected 0 iterations after reset, got %d", a.Iterations)
	}
	for i, v := range a.Sums {
		if v != 0 {
			t.Errorf("Sums[%d] not cleared: %d", i, v)
		}
	}
}

func TestAccumulator_MergeSizeMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic merging accumulators of different sizes")
		}
	}()
	NewAccumulator(2, 2).Merge(NewAccumulator(2, 3))
}
