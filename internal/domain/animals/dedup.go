package animals

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// un Caser no se comparte entre goroutines
func fold(s string) string {
	return cases.Fold().String(s)
}

// BreedKey arma la composición de razas: valores string no vacíos del
// documento, case-folded y ordenados. No depende del orden de las claves
// ni de qué raza figura como primaria.
func BreedKey(breeds Document) string {
	parts := make([]string, 0, len(breeds))
	for _, v := range breeds {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = fold(strings.Join(strings.Fields(s), " "))
		if s != "" {
			parts = append(parts, s)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "+")
}

// DedupKey agrupa registros equivalentes: (nombre, tipo, composición de razas).
func DedupKey(name, typ string, breeds Document) string {
	n := fold(strings.Join(strings.Fields(name), " "))
	t := fold(strings.TrimSpace(typ))
	return n + "\x1f" + t + "\x1f" + BreedKey(breeds)
}

// Duplicates devuelve los ids a borrar: por grupo se queda el id más bajo.
func Duplicates(rows []DedupRow) []int64 {
	keep := make(map[string]int64, len(rows))
	for _, r := range rows {
		k := DedupKey(r.Name, r.Type, r.Breeds)
		if cur, ok := keep[k]; !ok || r.ID < cur {
			keep[k] = r.ID
		}
	}

	out := make([]int64, 0)
	for _, r := range rows {
		if keep[DedupKey(r.Name, r.Type, r.Breeds)] != r.ID {
			out = append(out, r.ID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
