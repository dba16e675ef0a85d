package sqlutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNullStrings(t *testing.T) {
	if ToSqlString("").Valid {
		t.Fatal("empty string should be NULL")
	}
	v := ToSqlString("team-7")
	if !v.Valid || FromSqlString(v, "x") != "team-7" {
		t.Fatalf("round trip gave %+v", v)
	}
	if got := FromSqlString(ToSqlString(""), "anon"); got != "anon" {
		t.Fatalf("default = %q", got)
	}
}

func TestNullRawMessage(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		valid bool
	}{
		{"nil", nil, false},
		{"empty slice", []int{}, false},
		{"nil slice", []int(nil), false},
		{"values", []int{1, 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToNullRawMessage(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got.Valid != tt.valid {
				t.Fatalf("valid = %v, want %v (%s)", got.Valid, tt.valid, got.RawMessage)
			}
		})
	}

	raw, _ := ToNullRawMessage([]string{"a", "b"})
	var out []string
	if err := FromNullRawMessage(raw, &out); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, out); diff != "" {
		t.Fatalf("decoded (-want +got):\n%s", diff)
	}
}
