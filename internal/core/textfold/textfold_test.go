package textfold

import "testing"

func TestFold_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{"empty", "", ""},
		{"lowercases", "Aero RUNNER", "aero runner"},
		{"fullwidth to ascii", "Ｒｕｎｎｅｒ　Ｘ", "runner x"},
		{"strips zero width", "run​ner", "runner"},
		{"strips combining marks", "décor", "decor"},
		{"collapses whitespace", "  trail \t shoes \n size 10  ", "trail shoes size 10"},
		{"invalid utf8 dropped", "run\xffner", "runner"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Fold(tc.in); got != tc.out {
				t.Fatalf("Fold(%q) = %q, want %q", tc.in, got, tc.out)
			}
		})
	}
}

func TestFold_Idempotent(t *testing.T) {
	t.Parallel()

	in := "Ｔｒａｉｌ  Ｓｈｏｅ​ 4K"
	once := Fold(in)
	if twice := Fold(once); twice != once {
		t.Fatalf("not idempotent: %q vs %q", once, twice)
	}
}
