package entities

import "sort"

// StationRegistry is the immutable set of valid station codes.
type StationRegistry struct {
	codes  map[int]struct{}
	sorted []int
}

func NewStationRegistry(codes []int) *StationRegistry {
	r := &StationRegistry{
		codes:  make(map[int]struct{}, len(codes)),
		sorted: make([]int, 0, len(codes)),
	}
	for _, code := range codes {
		if _, exists := r.codes[code]; exists {
			continue
		}
		r.codes[code] = struct{}{}
		r.sorted = append(r.sorted, code)
	}
	sort.Ints(r.sorted)
	return r
}

func (r *StationRegistry) Contains(code int) bool {
	_, ok := r.codes[code]
	return ok
}

// Codes returns a sorted copy of the registered codes.
func (r *StationRegistry) Codes() []int {
	result := make([]int, len(r.sorted))
	copy(result, r.sorted)
	return result
}

func (r *StationRegistry) Len() int {
	return len(r.sorted)
}
