package questionbank

import (
	"strings"
	"testing"
)

func TestLoadParsesEmbeddedBank(t *testing.T) {
	bank, err := Load()
	if err != nil {
		t.Fatalf("failed to load bank: %v", err)
	}

	for _, role := range []string{"frontend", "backend", "fullstack"} {
		for _, difficulty := range []string{"easy", "medium", "hard"} {
			bucket := bank.Bucket(role, difficulty)
			if len(bucket) == 0 {
				t.Fatalf("empty bucket for %s/%s", role, difficulty)
			}
			for _, question := range bucket {
				if strings.TrimSpace(question) == "" {
					t.Fatalf("blank question in %s/%s", role, difficulty)
				}
			}
		}
	}
}

func TestBucketDefaultsUnknownKeys(t *testing.T) {
	bank := MustLoad()

	got := bank.Bucket("designer", "impossible")
	want := bank.Bucket(DefaultRole, DefaultDifficulty)
	if len(got) != len(want) || got[0] != want[0] {
		t.Fatalf("expected default bucket, got %v", got)
	}
}

func TestPickNeverEmpty(t *testing.T) {
	bank := MustLoad()

	for i := 0; i < 50; i++ {
		question := bank.Pick("frontend", "easy", nil)
		if question == "" {
			t.Fatal("picked empty question")
		}
	}
}

func TestPickFiltersAskedQuestions(t *testing.T) {
	bank := MustLoad()
	bucket := bank.Bucket("frontend", "easy")
	asked := bucket[0]

	// The previous question embeds the bank entry's leading 20 characters,
	// so the entry must not be selected while alternatives remain.
	previous := []string{"Earlier we discussed: " + strings.ToLower(asked)}
	for i := 0; i < 50; i++ {
		if got := bank.Pick("frontend", "easy", previous); got == asked {
			t.Fatalf("picked already-asked question %q", got)
		}
	}
}

func TestPickIgnoresFilterWhenAllAsked(t *testing.T) {
	bank := MustLoad()
	previous := append([]string(nil), bank.Bucket("backend", "hard")...)

	question := bank.Pick("backend", "hard", previous)
	if question == "" {
		t.Fatal("expected a question even when every entry was asked")
	}
}
