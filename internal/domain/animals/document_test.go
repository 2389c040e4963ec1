package animals

import "testing"

func TestDocument_StringPath(t *testing.T) {
	d := Document{"address": map[string]any{"city": " Austin ", "state": "TX"}, "email": "a@b.c"}

	if got := d.String("address", "city"); got != "Austin" {
		t.Fatalf("expected Austin, got %q", got)
	}
	if got := d.String("email"); got != "a@b.c" {
		t.Fatalf("expected email, got %q", got)
	}
	if got := d.String("address", "zip"); got != "" {
		t.Fatalf("expected empty for missing key, got %q", got)
	}
	if got := d.String("email", "x"); got != "" {
		t.Fatalf("expected empty when walking into a string, got %q", got)
	}
}

func TestDocument_ValueScan(t *testing.T) {
	in := Document{"primary": "Lab"}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var out Document
	if err := out.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if out.String("primary") != "Lab" {
		t.Fatalf("unexpected scanned doc %#v", out)
	}

	var empty Documents
	if err := empty.Scan(nil); err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil documents on NULL, got %#v err=%v", empty, err)
	}
}
