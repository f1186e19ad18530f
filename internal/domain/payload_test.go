package domain

import (
	"reflect"
	"testing"
)

func TestPayload_Get(t *testing.T) {
	payload := Payload{
		"code": "ORDER-1",
		"status": map[string]any{
			"type": "APPROVED",
		},
		"items": []any{
			map[string]any{"id": "SKU-1"},
			"garbage",
			map[string]any{"id": "SKU-2"},
		},
		"phones": []any{"111", 222},
	}

	t.Run("walks nested paths", func(t *testing.T) {
		if got := payload.String("status/type"); got != "APPROVED" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("missing segments return the zero value", func(t *testing.T) {
		if got := payload.String("status/missing/deeper"); got != "" {
			t.Errorf("got %q", got)
		}
		if got := payload.String("code/not-a-map"); got != "" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("slice skips non-mapping entries", func(t *testing.T) {
		items := payload.Slice("items")
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if items[1].String("id") != "SKU-2" {
			t.Errorf("got %q", items[1].String("id"))
		}
	})

	t.Run("strings coerces mixed entries", func(t *testing.T) {
		got := payload.Strings("phones")
		if !reflect.DeepEqual(got, []string{"111", "222"}) {
			t.Errorf("got %v", got)
		}
	})
}

func TestPayload_Decimal(t *testing.T) {
	payload := Payload{
		"as_number": 15.5,
		"as_string": "80.90",
		"garbage":   "not-a-number",
	}

	cases := []struct {
		path string
		want string
	}{
		{"as_number", "15.5"},
		{"as_string", "80.9"},
		{"garbage", "0"},
		{"absent", "0"},
	}

	for _, tc := range cases {
		if got := payload.Decimal(tc.path); got.String() != tc.want {
			t.Errorf("Decimal(%q) = %s, want %s", tc.path, got, tc.want)
		}
	}
}
