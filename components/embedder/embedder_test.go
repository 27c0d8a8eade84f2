package embedder

import (
	"testing"
)

func TestEmbeddingUUIDDeterministic(t *testing.T) {
	e := Embedding{
		Object: "Fever is a common symptom of infection.",
		Meta: map[string]string{
			"source":   "file",
			"filename": "symptoms.txt",
			"modtime":  "1735689600",
			"bucket":   "corpus",
			"key":      "guides/symptoms.txt",
		},
	}
	want := e.UUID()
	for i := 0; i < 200; i++ {
		if got := e.UUID(); got != want {
			t.Fatalf("UUID not stable across calls at iteration %d: got %s want %s", i, got, want)
		}
	}
}

func TestEmbeddingUUIDDistinguishesContent(t *testing.T) {
	a := Embedding{Object: "passage one", Meta: map[string]string{"source": "file"}}
	b := Embedding{Object: "passage two", Meta: map[string]string{"source": "file"}}
	c := Embedding{Object: "passage one", Meta: map[string]string{"source": "s3"}}
	if a.UUID() == b.UUID() {
		t.Error("different content should produce different IDs")
	}
	if a.UUID() == c.UUID() {
		t.Error("different metadata should produce different IDs")
	}
}
