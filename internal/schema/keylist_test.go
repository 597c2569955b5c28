package schema

import (
	"reflect"
	"testing"
)

func TestParseKeyListJSONArray(t *testing.T) {
	keys := ParseKeyList(`["customer_id", "order_id"]`)

	expected := []string{"customer_id", "order_id"}
	if !reflect.DeepEqual(keys, expected) {
		t.Errorf("Expected %v, got %v", expected, keys)
	}
}

func TestParseKeyListCommaSeparated(t *testing.T) {
	keys := ParseKeyList("a, b ,c")

	expected := []string{"a", "b", "c"}
	if !reflect.DeepEqual(keys, expected) {
		t.Errorf("Expected %v, got %v", expected, keys)
	}
}

func TestParseKeyListEmpty(t *testing.T) {
	if keys := ParseKeyList(""); len(keys) != 0 {
		t.Errorf("Expected empty list for empty input, got %v", keys)
	}
}

func TestParseKeyListDropsEmptyElements(t *testing.T) {
	keys := ParseKeyList(`["a", " ", "", "b"]`)

	expected := []string{"a", "b"}
	if !reflect.DeepEqual(keys, expected) {
		t.Errorf("Expected %v, got %v", expected, keys)
	}
}

func TestParseKeyListMalformedJSONFallsBack(t *testing.T) {
	keys := ParseKeyList("not json but [ish")

	expected := []string{"not json but [ish"}
	if !reflect.DeepEqual(keys, expected) {
		t.Errorf("Expected comma-split fallback %v, got %v", expected, keys)
	}
}

func TestParseKeyListBrokenArrayFallsBack(t *testing.T) {
	// Looks like a JSON array but is not one; the comma split still recovers
	// the usable pieces.
	keys := ParseKeyList(`[a, b`)

	expected := []string{"[a", "b"}
	if !reflect.DeepEqual(keys, expected) {
		t.Errorf("Expected %v, got %v", expected, keys)
	}
}

func TestParseKeyListNonStringElementsFallBack(t *testing.T) {
	keys := ParseKeyList(`[1, 2]`)

	expected := []string{"[1", "2]"}
	if !reflect.DeepEqual(keys, expected) {
		t.Errorf("Expected %v, got %v", expected, keys)
	}
}

func TestKeyListRoundTrip(t *testing.T) {
	lists := [][]string{
		{"id"},
		{"customer_id", "valid_from", "valid_to"},
		{},
	}

	for _, original := range lists {
		parsed := ParseKeyList(FormatKeyList(original))
		if !reflect.DeepEqual(parsed, append([]string{}, original...)) {
			t.Errorf("Round trip of %v produced %v", original, parsed)
		}
	}
}

func TestFormatKeyListNil(t *testing.T) {
	if out := FormatKeyList(nil); out != "[]" {
		t.Errorf("Expected empty JSON array, got %q", out)
	}
}
