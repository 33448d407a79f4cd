package httpapi

import "testing"

func TestValidUUIDv4(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"canonical", "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d", true},
		{"uppercase", "A1B2C3D4-E5F6-4A7B-8C9D-0E1F2A3B4C5D", true},
		{"variant 9", "a1b2c3d4-e5f6-4a7b-9c9d-0e1f2a3b4c5d", true},
		{"variant a", "a1b2c3d4-e5f6-4a7b-ac9d-0e1f2a3b4c5d", true},
		{"variant b", "a1b2c3d4-e5f6-4a7b-bc9d-0e1f2a3b4c5d", true},
		{"empty", "", false},
		{"short", "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5", false},
		{"long", "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5dd", false},
		{"version 1", "a1b2c3d4-e5f6-1a7b-8c9d-0e1f2a3b4c5d", false},
		{"version 5", "a1b2c3d4-e5f6-5a7b-8c9d-0e1f2a3b4c5d", false},
		{"variant 0", "a1b2c3d4-e5f6-4a7b-0c9d-0e1f2a3b4c5d", false},
		{"variant c", "a1b2c3d4-e5f6-4a7b-cc9d-0e1f2a3b4c5d", false},
		{"non-hex", "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5g", false},
		{"no hyphens", "a1b2c3d4e5f64a7b8c9d0e1f2a3b4c5d", false},
		{"braced", "{a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d}", false},
		{"urn", "urn:uuid:a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d", false},
		{"shifted hyphen", "a1b2c3d-4e5f6-4a7b-8c9d-0e1f2a3b4c5d", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := validUUIDv4(tc.in); got != tc.want {
				t.Fatalf("validUUIDv4(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"user@example.com", true},
		{"a.b+c@sub.example.co", true},
		{"", false},
		{"plainaddress", false},
		{"@example.com", false},
		{"user@", false},
		{"user@nodot", false},
		{"user name@example.com", false},
		{"user@@example.com", false},
	}
	for _, tc := range cases {
		if got := validEmail(tc.in); got != tc.want {
			t.Fatalf("validEmail(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
