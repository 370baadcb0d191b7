package polyline

import (
	"errors"
	"math"
	"testing"
)

func TestDecode_ValidPolyline(t *testing.T) {
	tests := []struct {
		name     string
		encoded  string
		expected []Coordinate
	}{
		{
			name:    "single point",
			encoded: "_p~iF~ps|U",
			expected: []Coordinate{
				{Lat: 38.5, Lon: -120.2},
			},
		},
		{
			name:    "two points",
			encoded: "_p~iF~ps|U_ulLnnqC",
			expected: []Coordinate{
				{Lat: 38.5, Lon: -120.2},
				{Lat: 40.7, Lon: -120.95},
			},
		},
		{
			name:    "three points - Google example",
			encoded: "_p~iF~ps|U_ulLnnqC_mqNvxq`@",
			expected: []Coordinate{
				{Lat: 38.5, Lon: -120.2},
				{Lat: 40.7, Lon: -120.95},
				{Lat: 43.252, Lon: -126.453},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Decode(tt.encoded)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %d coordinates, got %d", len(tt.expected), len(result))
			}

			for i, coord := range result {
				if !coordsEqual(coord, tt.expected[i], 0.001) {
					t.Errorf("coordinate %d: expected %+v, got %+v", i, tt.expected[i], coord)
				}
			}
		})
	}
}

func TestDecode_EmptyString(t *testing.T) {
	result, err := Decode("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil for empty string, got %v", result)
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{name: "truncated mid-value", encoded: "_p~iF~ps|U_"},
		{name: "dangling continuation chunk", encoded: "_p~iF~"},
		{name: "byte below range", encoded: "_p~iF\x1f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.encoded)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		coords []Coordinate
	}{
		{
			name: "single point",
			coords: []Coordinate{
				{Lat: 38.5, Lon: -120.2},
			},
		},
		{
			name: "three points",
			coords: []Coordinate{
				{Lat: 38.5, Lon: -120.2},
				{Lat: 40.7, Lon: -120.95},
				{Lat: 43.252, Lon: -126.453},
			},
		},
		{
			name: "Taipei Main Station to Songshan",
			coords: []Coordinate{
				{Lat: 25.0478, Lon: 121.5170},
				{Lat: 25.0497, Lon: 121.5746},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := Encode(tt.coords)
			if encoded == "" {
				t.Fatal("expected non-empty encoded string")
			}

			decoded, err := Decode(encoded)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(decoded) != len(tt.coords) {
				t.Fatalf("round-trip: expected %d coordinates, got %d", len(tt.coords), len(decoded))
			}

			for i, coord := range decoded {
				if !coordsEqual(coord, tt.coords[i], 0.00001) {
					t.Errorf("round-trip coordinate %d: expected %+v, got %+v", i, tt.coords[i], coord)
				}
			}
		})
	}
}

func TestEncode_EmptyCoordinates(t *testing.T) {
	if result := Encode(nil); result != "" {
		t.Errorf("expected empty string for nil coordinates, got %q", result)
	}
}

func TestCheckpoints_Selection(t *testing.T) {
	// Straight path with ten points; indices 0..9
	coords := make([]Coordinate, 10)
	for i := range coords {
		coords[i] = Coordinate{Lat: 25.0 + float64(i)*0.01, Lon: 121.5}
	}

	t.Run("three checkpoints include endpoints", func(t *testing.T) {
		selected := Checkpoints(coords, 3)
		if len(selected) != 3 {
			t.Fatalf("expected 3 checkpoints, got %d", len(selected))
		}
		if selected[0] != coords[0] {
			t.Errorf("first checkpoint should be the first point, got %+v", selected[0])
		}
		if selected[2] != coords[9] {
			t.Errorf("last checkpoint should be the last point, got %+v", selected[2])
		}
		// round(1 * 9 / 2) = round(4.5) = 5
		if selected[1] != coords[5] {
			t.Errorf("middle checkpoint should be index 5, got %+v", selected[1])
		}
	})

	t.Run("exactly n points selects all", func(t *testing.T) {
		three := coords[:3]
		selected := Checkpoints(three, 3)
		if len(selected) != 3 {
			t.Fatalf("expected 3 checkpoints, got %d", len(selected))
		}
		for i := range three {
			if selected[i] != three[i] {
				t.Errorf("checkpoint %d: expected %+v, got %+v", i, three[i], selected[i])
			}
		}
	})

	t.Run("fewer than n points returns nil", func(t *testing.T) {
		if selected := Checkpoints(coords[:2], 3); selected != nil {
			t.Errorf("expected nil for short path, got %v", selected)
		}
	})

	t.Run("empty path returns nil", func(t *testing.T) {
		if selected := Checkpoints(nil, 3); selected != nil {
			t.Errorf("expected nil for empty path, got %v", selected)
		}
	})
}

// coordsEqual checks if two coordinates are equal within a tolerance.
func coordsEqual(a, b Coordinate, tolerance float64) bool {
	return math.Abs(a.Lat-b.Lat) <= tolerance && math.Abs(a.Lon-b.Lon) <= tolerance
}

func BenchmarkDecode(b *testing.B) {
	encoded := "_p~iF~ps|U_ulLnnqC_mqNvxq`@"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Decode(encoded)
	}
}
