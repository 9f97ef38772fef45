package variables

import (
	"testing"
)

func testSnapshot() *Snapshot {
	return NewSnapshot("recurso_plano_saude", []Variable{
		{Slug: "pareceres_natureza_cirurgia", Type: TypeString, Value: "eletiva"},
		{Slug: "valor_causa", Type: TypeNumber, Value: "1.234,56"},
		{Slug: "liminar_deferida", Type: TypeBoolean, Value: "true"},
	})
}

func TestSnapshot_Lookup(t *testing.T) {
	snap := testSnapshot()

	v, ok := snap.Lookup("pareceres_natureza_cirurgia")
	if !ok {
		t.Fatal("Lookup() ok = false, want true")
	}
	if v.Value != "eletiva" {
		t.Errorf("Lookup() value = %v, want eletiva", v.Value)
	}

	if _, ok := snap.Lookup("missing_slug"); ok {
		t.Error("Lookup(missing) ok = true, want false")
	}
	if snap.Has("missing_slug") {
		t.Error("Has(missing) = true, want false")
	}
}

func TestSnapshot_SlugsSorted(t *testing.T) {
	snap := testSnapshot()
	slugs := snap.Slugs()

	want := []string{"liminar_deferida", "pareceres_natureza_cirurgia", "valor_causa"}
	if len(slugs) != len(want) {
		t.Fatalf("Slugs() = %v, want %v", slugs, want)
	}
	for i := range want {
		if slugs[i] != want[i] {
			t.Errorf("Slugs()[%d] = %q, want %q", i, slugs[i], want[i])
		}
	}
}

func TestSnapshot_Subset(t *testing.T) {
	snap := testSnapshot()

	subset := snap.Subset([]string{"valor_causa", "missing", "valor_causa", "liminar_deferida"})
	if len(subset) != 2 {
		t.Fatalf("Subset() = %v, want 2 entries", subset)
	}
	// Sorted by slug, duplicates and absentees dropped.
	if subset[0].Slug != "liminar_deferida" || subset[1].Slug != "valor_causa" {
		t.Errorf("Subset() slugs = [%s %s], want [liminar_deferida valor_causa]", subset[0].Slug, subset[1].Slug)
	}
}

func TestSnapshot_Fingerprint_OrderIndependent(t *testing.T) {
	a := NewSnapshot("tipo_a", []Variable{
		{Slug: "x", Type: TypeString, Value: "1"},
		{Slug: "y", Type: TypeNumber, Value: 2},
	})
	b := NewSnapshot("tipo_a", []Variable{
		{Slug: "y", Type: TypeNumber, Value: 2},
		{Slug: "x", Type: TypeString, Value: "1"},
	})

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("Fingerprint() differs for identical content in different order")
	}

	c := NewSnapshot("tipo_a", []Variable{
		{Slug: "x", Type: TypeString, Value: "1"},
		{Slug: "y", Type: TypeNumber, Value: 3},
	})
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("Fingerprint() identical for different content")
	}
}

func TestHashString(t *testing.T) {
	if HashString("") != "" {
		t.Error("HashString(empty) should be empty")
	}
	h := HashString("abc")
	if len(h) != 64 {
		t.Errorf("HashString() length = %d, want 64 hex chars", len(h))
	}
	if h != HashString("abc") {
		t.Error("HashString() not deterministic")
	}
}
