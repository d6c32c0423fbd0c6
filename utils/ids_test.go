package utils

import "testing"

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if id == "" {
			t.Fatal("GenerateID returned an empty string")
		}
		if seen[id] {
			t.Fatalf("GenerateID repeated %q", id)
		}
		seen[id] = true
	}
}

func TestHashString(t *testing.T) {
	// sha256 of "abc"
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := HashString("abc"); got != want {
		t.Errorf("HashString(abc) = %q, want %q", got, want)
	}

	if HashString("a") == HashString("b") {
		t.Error("distinct inputs hashed identically")
	}
}
