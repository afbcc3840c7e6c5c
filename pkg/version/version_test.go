package version

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       Version
		wantErr    error
		wantErrAny bool
	}{
		{
			name:  "full version",
			input: "1.23.4",
			want:  Version{Major: 1, Minor: 23, Patch: 4, Precision: 3},
		},
		{
			name:  "v prefix",
			input: "v1.29.3",
			want:  Version{Major: 1, Minor: 29, Patch: 3, Precision: 3},
		},
		{
			name:  "major minor only",
			input: "1.23",
			want:  Version{Major: 1, Minor: 23, Precision: 2},
		},
		{
			name:  "major only",
			input: "2",
			want:  Version{Major: 2, Precision: 1},
		},
		{
			name:  "eks build suffix",
			input: "v1.28.5-eks-5e0fdde",
			want:  Version{Major: 1, Minor: 28, Patch: 5, Precision: 3, Extras: "-eks-5e0fdde"},
		},
		{
			name:  "gke suffix with dots",
			input: "1.28.0-gke.1337000",
			want:  Version{Major: 1, Minor: 28, Patch: 0, Precision: 3, Extras: "-gke.1337000"},
		},
		{
			name:  "k3s plus metadata",
			input: "v1.29.3+k3s1",
			want:  Version{Major: 1, Minor: 29, Patch: 3, Precision: 3, Extras: "+k3s1"},
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: ErrEmptyVersion,
		},
		{
			name:    "too many components",
			input:   "1.2.3.4",
			wantErr: ErrTooManyComponents,
		},
		{
			name:    "non numeric",
			input:   "a.b.c",
			wantErr: ErrNonNumeric,
		},
		{
			name:    "empty component",
			input:   "1..3",
			wantErr: ErrNonNumeric,
		},
		{
			name:    "trailing dot",
			input:   "1.2.",
			wantErr: ErrNonNumeric,
		},
		{
			name:       "bare v",
			input:      "v",
			wantErrAny: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if tt.wantErrAny {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %+v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"equal full", "1.23.4", "1.23.4", 0},
		{"patch newer", "1.23.5", "1.23.4", 1},
		{"patch older", "1.23.3", "1.23.4", -1},
		{"minor wins over patch", "1.24.0", "1.23.9", 1},
		{"major wins", "2.0.0", "1.99.99", 1},
		{"floor precision stops at minor", "1.23", "1.23.9", 0},
		{"floor newer than old server", "1.23", "1.22.17", 1},
		{"suffix ignored", "1.28.5-eks-5e0fdde", "1.28.5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := MustParse(tt.a)
			b := MustParse(tt.b)
			if got := a.Compare(b); got != tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFloorCheck(t *testing.T) {
	// The preflight warning fires when the floor is newer than the server.
	floor := MustParse("1.23")

	tests := []struct {
		server   string
		wantWarn bool
	}{
		{"v1.22.11", true},
		{"v1.23.0", false},
		{"v1.23.17-eks-5e0fdde", false},
		{"v1.29.3+k3s1", false},
		{"v1.9.11", true},
	}

	for _, tt := range tests {
		t.Run(tt.server, func(t *testing.T) {
			server := MustParse(tt.server)
			if got := floor.IsNewer(server); got != tt.wantWarn {
				t.Errorf("floor.IsNewer(%s) = %v, want %v", tt.server, got, tt.wantWarn)
			}
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		v    Version
		want string
	}{
		{New(1, 23, 4), "1.23.4"},
		{Version{Major: 1, Minor: 23, Precision: 2}, "1.23"},
		{Version{Major: 2, Precision: 1}, "2"},
		{MustParse("v1.28.0-gke.1337000"), "1.28.0"},
	}

	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse should panic on invalid input")
		}
	}()
	MustParse("not-a-version")
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		v    Version
		want bool
	}{
		{"parsed version", MustParse("1.23.4"), true},
		{"zero precision", Version{Major: 1}, false},
		{"excess precision", Version{Major: 1, Precision: 4}, false},
		{"negative component", Version{Major: -1, Precision: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}
