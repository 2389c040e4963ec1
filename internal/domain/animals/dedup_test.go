package animals

import (
	"reflect"
	"testing"
)

func TestBreedKey_OrderAndCaseIndependent(t *testing.T) {
	a := BreedKey(Document{"primary": "Lab", "secondary": "Mix", "mixed": true})
	b := BreedKey(Document{"secondary": "mix", "primary": " lab ", "unknown": false, "tertiary": nil})
	if a != b {
		t.Fatalf("expected equal breed keys, got %q vs %q", a, b)
	}
	if a != "lab+mix" {
		t.Fatalf("unexpected breed key %q", a)
	}
}

func TestDuplicates_ScenarioD(t *testing.T) {
	rows := []DedupRow{
		{ID: 42, Name: "Rex", Type: "Dog", Breeds: Document{"secondary": "mix", "primary": "lab"}},
		{ID: 10, Name: "Rex", Type: "Dog", Breeds: Document{"primary": "Lab", "secondary": "Mix"}},
		{ID: 7, Name: "Rex", Type: "Cat", Breeds: Document{"primary": "Lab", "secondary": "Mix"}},
		{ID: 99, Name: "rex", Type: "dog", Breeds: Document{"primary": "LAB", "secondary": "MIX"}},
	}

	got := Duplicates(rows)
	want := []int64{42, 99}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v to be deleted, got %v", want, got)
	}
}

func TestDuplicates_DifferentBreedsKept(t *testing.T) {
	rows := []DedupRow{
		{ID: 1, Name: "Luna", Type: "Cat", Breeds: Document{"primary": "Siamese"}},
		{ID: 2, Name: "Luna", Type: "Cat", Breeds: Document{"primary": "Persian"}},
	}
	if got := Duplicates(rows); len(got) != 0 {
		t.Fatalf("expected no duplicates, got %v", got)
	}
}
