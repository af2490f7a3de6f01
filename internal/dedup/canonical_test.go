package dedup

import "testing"

func TestCanonicalURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "strips tracking params and lowercases host",
			in:   "https://EX.com/a/?utm_source=x&id=5",
			want: "https://ex.com/a?id=5",
		},
		{
			name: "forces http to https",
			in:   "http://example.com/post",
			want: "https://example.com/post",
		},
		{
			name: "keeps non-http scheme",
			in:   "ftp://example.com/file",
			want: "ftp://example.com/file",
		},
		{
			name: "root path slash preserved",
			in:   "https://example.com/",
			want: "https://example.com/",
		},
		{
			name: "single trailing slash stripped",
			in:   "https://example.com/blog/",
			want: "https://example.com/blog",
		},
		{
			name: "fragment dropped",
			in:   "https://example.com/a#section-2",
			want: "https://example.com/a",
		},
		{
			name: "all tracking params removed leaves bare URL",
			in:   "https://example.com/a?utm_source=t&utm_medium=m&fbclid=123",
			want: "https://example.com/a",
		},
		{
			name: "multi-valued non-tracking keys preserved",
			in:   "https://example.com/a?tag=go&tag=rust&gclid=z",
			want: "https://example.com/a?tag=go&tag=rust",
		},
		{
			name: "surviving query keys sorted",
			in:   "https://example.com/a?b=1&a=2",
			want: "https://example.com/a?a=2&b=1",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CanonicalURL(tc.in)
			if got != tc.want {
				t.Errorf("CanonicalURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCanonicalURLIdempotent(t *testing.T) {
	urls := []string{
		"https://EX.com/a/?utm_source=x&id=5",
		"http://example.com/blog/",
		"https://example.com/a?b=2&a=1#frag",
		"https://example.com/",
		"not a url at all",
		"",
	}
	for _, u := range urls {
		once := CanonicalURL(u)
		twice := CanonicalURL(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", u, once, twice)
		}
	}
}

func TestCanonicalURLNeverFails(t *testing.T) {
	// Degenerate inputs come back unchanged rather than erroring.
	bad := []string{"http://[::1:bad", "://nope", "%zz"}
	for _, u := range bad {
		got := CanonicalURL(u)
		if got == "" && u != "" {
			t.Errorf("CanonicalURL(%q) returned empty string", u)
		}
	}
	if got := CanonicalURL("http://[::1:bad"); got != "http://[::1:bad" {
		t.Errorf("unparsable input changed: got %q", got)
	}
}
