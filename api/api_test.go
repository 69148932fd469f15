package api_test

import (
	"strings"
	"testing"

	"github.com/bilikit/bilikit/api"
)

func TestDefaultTableLookup(t *testing.T) {
	table := api.Default()

	endpoint, ok := table.Lookup("dynamic.send.instant")
	if !ok {
		t.Fatal("dynamic.send.instant missing from embedded table")
	}
	if endpoint.Method != "POST" {
		t.Fatalf("method - want: POST, got: %s", endpoint.Method)
	}
	if !strings.HasPrefix(endpoint.URL, "https://") {
		t.Fatalf("url - want https scheme, got: %s", endpoint.URL)
	}
}

func TestLookupMiss(t *testing.T) {
	table := api.Default()

	for _, key := range []string{"dynamic.send.bogus", "nope.info.detail", "dynamic.send", ""} {
		if _, ok := table.Lookup(key); ok {
			t.Fatalf("key %q resolved unexpectedly", key)
		}
	}
}

func TestParse(t *testing.T) {
	table, err := api.Parse([]byte(`
vote:
  info:
    info: {url: "http://example.test/vote", method: GET}
`))
	if err != nil {
		t.Fatal(err)
	}

	endpoint, ok := table.Lookup("vote.info.info")
	if !ok {
		t.Fatal("vote.info.info missing")
	}
	if endpoint.URL != "http://example.test/vote" || endpoint.Method != "GET" {
		t.Fatalf("endpoint - got: %+v", endpoint)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := api.Parse([]byte(`[not, a, table]`)); err == nil {
		t.Fatal("want error for non-mapping document")
	}
}
