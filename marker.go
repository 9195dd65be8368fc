package sceneport

import (
	"fmt"
	"math/rand"
)

// Marker is an annotated datapoint: a named anatomical landmark with an
// ontology term and a location.
type Marker struct {
	id          int
	name        string
	term        string
	coordinates []float64
}

func (mk *Marker) Identifier() int {
	return mk.id
}

// Label is the stable feature key markers are exported under.
func (mk *Marker) Label() string {
	return fmt.Sprintf("marker_%d", mk.id)
}

func (mk *Marker) Name() string {
	return mk.name
}

func (mk *Marker) Term() string {
	return mk.term
}

func (mk *Marker) Coordinates() []float64 {
	return mk.coordinates
}

// fillMarkerDefaults names unnamed markers by discovery order and hands
// term-less markers a placeholder from the reserved UBERON:99 block.
func fillMarkerDefaults(markers []*Marker) {
	for i, mk := range markers {
		if mk.id == 0 {
			mk.id = i + 1
		}

		if mk.name == "" {
			mk.name = fmt.Sprintf("Unnamed marker %d", i+1)
		}

		if mk.term == "" {
			mk.term = fmt.Sprintf("UBERON:99%05d", rand.Intn(99999)+1)
		}
	}
}
