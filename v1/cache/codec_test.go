package cache

import (
	"reflect"
	"testing"
)

func TestCodecs(t *testing.T) {
	type response struct {
		Title string
		Rank  int
		Tags  []string
	}
	in := response{Title: "Dune", Rank: 1, Tags: []string{"sci-fi"}}

	for name, codec := range map[string]Codec{
		"json": JSONCodec{},
		"gob":  GobCodec{},
	} {
		t.Run(name, func(t *testing.T) {
			data, err := codec.Marshal(in)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var out response
			if err := codec.Unmarshal(data, &out); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !reflect.DeepEqual(in, out) {
				t.Fatalf("expected %+v, got %+v", in, out)
			}
		})
	}
}
