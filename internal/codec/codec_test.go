package codec

import (
	"errors"
	"reflect"
	"testing"
)

func TestJSON_Roundtrip(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any // value after the JSON generic mapping
	}{
		{
			name: "string",
			in:   "42",
			want: "42",
		},
		{
			name: "string containing topic delimiter",
			in:   "a/b/c",
			want: "a/b/c",
		},
		{
			name: "number",
			in:   42,
			want: float64(42),
		},
		{
			name: "bool",
			in:   true,
			want: true,
		},
		{
			name: "nil",
			in:   nil,
			want: nil,
		},
		{
			name: "composite",
			in:   map[string]any{"on": true, "level": float64(80), "name": "living"},
			want: map[string]any{"on": true, "level": float64(80), "name": "living"},
		},
		{
			name: "slice",
			in:   []any{"a", float64(1), false},
			want: []any{"a", float64(1), false},
		},
	}

	c := JSON{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := c.Encode(tt.in)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			got, err := c.Decode(data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode(Encode(%v)) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestJSON_EncodeUnsupported(t *testing.T) {
	_, err := JSON{}.Encode(make(chan int))
	if !errors.Is(err, ErrEncode) {
		t.Errorf("Encode() error = %v, want ErrEncode", err)
	}
}

func TestJSON_DecodeMalformed(t *testing.T) {
	_, err := JSON{}.Decode([]byte("{not json"))
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Decode() error = %v, want ErrDecode", err)
	}
}
