package matching

import (
	"math"
	"strings"
	"unicode"

	"pet-lost-found/internal/domain/pets"
)

// DefaultThreshold separa "match plausible" de ruido: especie + dos atributos.
const DefaultThreshold = 3

// Weights son los puntos que aporta cada atributo coincidente.
// Species funciona como compuerta: sin especie igual el score es 0.
type Weights struct {
	Species  int
	Breed    int
	FurColor int
	EyeColor int
	Age      int

	// AgeToleranceYears: diferencia máxima de edad que todavía suma.
	AgeToleranceYears float64
}

func DefaultWeights() Weights {
	return Weights{
		Species:           1,
		Breed:             1,
		FurColor:          1,
		EyeColor:          1,
		Age:               1,
		AgeToleranceYears: 1,
	}
}

// Matcher puntúa pares perdido/encontrado y aplica el umbral.
type Matcher struct {
	weights   Weights
	threshold int
}

func NewMatcher(w Weights, threshold int) Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return Matcher{weights: w, threshold: threshold}
}

func (m Matcher) Threshold() int { return m.threshold }

// Accepts: score >= threshold (el borde entra).
func (m Matcher) Accepts(score int) bool {
	return score >= m.threshold
}

// Score compara atributos no geométricos. Es simétrico y nunca negativo.
func (m Matcher) Score(lost, found pets.Pet) int {
	if lost.Species == "" || found.Species == "" || !sameText(string(lost.Species), string(found.Species)) {
		return 0
	}

	score := m.weights.Species
	if nonEmpty(lost.Breed, found.Breed) && sameText(lost.Breed, found.Breed) {
		score += m.weights.Breed
	}
	if sharesColor(lost.FurColor, found.FurColor) {
		score += m.weights.FurColor
	}
	if nonEmpty(lost.EyeColor, found.EyeColor) && sameText(lost.EyeColor, found.EyeColor) {
		score += m.weights.EyeColor
	}
	if lost.Age != nil && found.Age != nil && math.Abs(*lost.Age-*found.Age) <= m.weights.AgeToleranceYears {
		score += m.weights.Age
	}

	if score < 0 {
		return 0
	}
	return score
}

func nonEmpty(a, b string) bool {
	return strings.TrimSpace(a) != "" && strings.TrimSpace(b) != ""
}

func sameText(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// sharesColor: "black and white" vs "white" coincide por token.
func sharesColor(a, b string) bool {
	ta := colorTokens(a)
	if len(ta) == 0 {
		return false
	}
	for t := range colorTokens(b) {
		if _, ok := ta[t]; ok {
			return true
		}
	}
	return false
}

var colorStopwords = map[string]struct{}{
	"and": {}, "with": {}, "y": {}, "con": {},
}

func colorTokens(s string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, stop := colorStopwords[f]; stop {
			continue
		}
		out[f] = struct{}{}
	}
	return out
}
