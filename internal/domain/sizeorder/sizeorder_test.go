package sizeorder_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coopvalle/dotaciones-api/internal/domain/sizeorder"
)

// sortLabels ordena una copia de las etiquetas con el orden de tallas.
func sortLabels(labels []string) []string {
	out := make([]string, len(labels))
	copy(out, labels)
	sort.Slice(out, func(i, j int) bool { return sizeorder.Less(out[i], out[j]) })
	return out
}

func TestCompare_EscalaPrenda(t *testing.T) {
	assert.Equal(t, []string{"XS", "M", "L"}, sortLabels([]string{"M", "XS", "L"}))
	assert.Equal(t, []string{"XS", "S", "M", "L", "XL", "XXL"},
		sortLabels([]string{"XXL", "L", "XS", "XL", "M", "S"}))
}

func TestCompare_Numericas(t *testing.T) {
	assert.Equal(t, []string{"36", "38", "40"}, sortLabels([]string{"40", "38", "36"}))
	// Numérico, no lexicográfico: "10" antes que "9" sería incorrecto.
	assert.Equal(t, []string{"9", "10", "42"}, sortLabels([]string{"42", "10", "9"}))
}

func TestCompare_SinTallaPrimero(t *testing.T) {
	assert.Equal(t, []string{"", "M"}, sortLabels([]string{"M", ""}))
	assert.Equal(t, 0, sizeorder.Compare("", ""))
}

func TestCompare_MixtaNumericaAntesQueAlfa(t *testing.T) {
	assert.Equal(t, []string{"40", "M"}, sortLabels([]string{"M", "40"}))
	assert.Equal(t, -1, sizeorder.Compare("38", "XL"))
	assert.Equal(t, 1, sizeorder.Compare("XL", "38"))
}

func TestCompare_FallbackLexicografico(t *testing.T) {
	// Etiquetas fuera de la escala y no numéricas: orden lexicográfico crudo.
	assert.Equal(t, []string{"TALLA-A", "TALLA-B"}, sortLabels([]string{"TALLA-B", "TALLA-A"}))
}

func TestCompare_OrdenTotal(t *testing.T) {
	// Antisimetría y consistencia sobre un conjunto mixto de etiquetas del dominio.
	labels := []string{"", "XS", "S", "M", "L", "XL", "XXL", "36", "38", "40", "UNICA"}
	for _, a := range labels {
		for _, b := range labels {
			assert.Equal(t, -sizeorder.Compare(b, a), sizeorder.Compare(a, b),
				"Compare(%q,%q) debe ser antisimétrico", a, b)
		}
	}
}

func TestCompareItems_NombrePrimeroTallaDespues(t *testing.T) {
	assert.Negative(t, sizeorder.CompareItems("Botas", "40", "Camisa", "XS"))
	assert.Negative(t, sizeorder.CompareItems("Camisa", "XS", "Camisa", "M"))
	assert.Zero(t, sizeorder.CompareItems("Camisa", "M", "Camisa", "M"))
}
