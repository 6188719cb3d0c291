package matching

import (
	"testing"

	"pet-lost-found/internal/domain/pets"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }

func TestMatcher_SpeciesIsAGate(t *testing.T) {
	m := NewMatcher(DefaultWeights(), DefaultThreshold)

	lost := pets.Pet{Species: "dog", Breed: "lab", FurColor: "black", EyeColor: "brown", Age: fptr(3)}
	found := pets.Pet{Species: "cat", Breed: "lab", FurColor: "black", EyeColor: "brown", Age: fptr(3)}

	assert.Equal(t, 0, m.Score(lost, found))
	assert.Equal(t, 0, m.Score(pets.Pet{Breed: "lab"}, pets.Pet{Breed: "lab"}))
}

func TestMatcher_AllAttributes(t *testing.T) {
	m := NewMatcher(DefaultWeights(), DefaultThreshold)

	lost := pets.Pet{Species: "dog", Breed: "Labrador", FurColor: "black and white", EyeColor: "Brown", Age: fptr(3)}
	found := pets.Pet{Species: "dog", Breed: "labrador ", FurColor: "white", EyeColor: "brown", Age: fptr(3.8)}

	assert.Equal(t, 5, m.Score(lost, found))
	assert.Equal(t, m.Score(lost, found), m.Score(found, lost))
}

func TestMatcher_ThresholdBoundary(t *testing.T) {
	m := NewMatcher(DefaultWeights(), DefaultThreshold)

	// species + breed + eye = 3: entra justo en el umbral
	atThreshold := m.Score(
		pets.Pet{Species: "dog", Breed: "beagle", EyeColor: "green"},
		pets.Pet{Species: "dog", Breed: "beagle", EyeColor: "green"},
	)
	assert.Equal(t, DefaultThreshold, atThreshold)
	assert.True(t, m.Accepts(atThreshold))

	below := m.Score(
		pets.Pet{Species: "dog", Breed: "beagle", EyeColor: "green"},
		pets.Pet{Species: "dog", Breed: "beagle", EyeColor: "blue"},
	)
	assert.Equal(t, DefaultThreshold-1, below)
	assert.False(t, m.Accepts(below))
}

func TestMatcher_AgeTolerance(t *testing.T) {
	m := NewMatcher(DefaultWeights(), DefaultThreshold)

	base := pets.Pet{Species: "cat"}
	assert.Equal(t, 2, m.Score(withAge(base, 2), withAge(base, 3)))
	assert.Equal(t, 1, m.Score(withAge(base, 2), withAge(base, 3.5)))
	assert.Equal(t, 1, m.Score(base, withAge(base, 2)))
}

func TestMatcher_EmptyAttributesNeverMatch(t *testing.T) {
	m := NewMatcher(DefaultWeights(), DefaultThreshold)
	assert.Equal(t, 1, m.Score(pets.Pet{Species: "dog"}, pets.Pet{Species: "dog"}))
}

func TestMatcher_CustomWeights(t *testing.T) {
	w := DefaultWeights()
	w.Breed = 3
	m := NewMatcher(w, 4)

	score := m.Score(pets.Pet{Species: "dog", Breed: "pug"}, pets.Pet{Species: "dog", Breed: "pug"})
	assert.Equal(t, 4, score)
	assert.True(t, m.Accepts(score))
	assert.Equal(t, 4, m.Threshold())
}

func TestNewMatcher_NonPositiveThresholdFallsBack(t *testing.T) {
	assert.Equal(t, DefaultThreshold, NewMatcher(DefaultWeights(), 0).Threshold())
}

func withAge(p pets.Pet, age float64) pets.Pet {
	p.Age = fptr(age)
	return p
}
