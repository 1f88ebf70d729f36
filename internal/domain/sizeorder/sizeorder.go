// Package sizeorder define el orden total de tallas usado para listar dotaciones.
//
// Regla (desempate después del orden alfabético por nombre de elemento):
//  1. Sin talla ordena antes que cualquier talla (ambas sin talla = iguales).
//  2. Dos tallas de la escala [XS S M L XL XXL] ordenan por su índice en la escala.
//  3. Dos tallas numéricas (calzado, pantalón) ordenan numéricamente ascendente.
//  4. Numérica contra no numérica: la numérica primero.
//  5. En cualquier otro caso, comparación lexicográfica de las etiquetas crudas.
package sizeorder

import (
	"strconv"
	"strings"
)

// escala de tallas de prenda, de menor a mayor.
var apparelScale = []string{"XS", "S", "M", "L", "XL", "XXL"}

// Compare devuelve -1, 0 o 1 según el orden total de tallas.
// La cadena vacía representa "sin talla".
func Compare(a, b string) int {
	if a == "" || b == "" {
		switch {
		case a == "" && b == "":
			return 0
		case a == "":
			return -1
		default:
			return 1
		}
	}

	ai, aApparel := apparelIndex(a)
	bi, bApparel := apparelIndex(b)
	if aApparel && bApparel {
		return cmpInt(ai, bi)
	}

	an, aNum := parseNumeric(a)
	bn, bNum := parseNumeric(b)
	switch {
	case aNum && bNum:
		return cmpInt(an, bn)
	case aNum:
		return -1
	case bNum:
		return 1
	}

	return strings.Compare(a, b)
}

// Less es el predicado de orden (Compare < 0) para usar con sort.Slice.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// CompareItems ordena por nombre de elemento y desempata por talla.
func CompareItems(nameA, sizeA, nameB, sizeB string) int {
	if c := strings.Compare(nameA, nameB); c != 0 {
		return c
	}
	return Compare(sizeA, sizeB)
}

func apparelIndex(s string) (int, bool) {
	u := strings.ToUpper(strings.TrimSpace(s))
	for i, t := range apparelScale {
		if u == t {
			return i, true
		}
	}
	return 0, false
}

func parseNumeric(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
