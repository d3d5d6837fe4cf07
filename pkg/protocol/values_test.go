package protocol

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChildIDs(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []NodeID
	}{
		{name: "Nil", in: nil, want: nil},
		{name: "SingleFloat", in: 4.0, want: []NodeID{4}},
		{name: "SingleInt", in: 9, want: []NodeID{9}},
		{name: "SingleNodeID", in: NodeID(2), want: []NodeID{2}},
		{name: "JSONList", in: []any{1.0, 2.0, 3.0}, want: []NodeID{1, 2, 3}},
		{name: "NodeIDList", in: []NodeID{5, 6}, want: []NodeID{5, 6}},
		{name: "SkipsFractional", in: []any{1.0, 2.5, 3.0}, want: []NodeID{1, 3}},
		{name: "SkipsStrings", in: []any{"nope", 7.0}, want: []NodeID{7}},
		{name: "String", in: "nope", want: nil},
		{name: "Bool", in: true, want: nil},
		{name: "EmptyList", in: []any{}, want: []NodeID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChildIDs(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ChildIDs(%v) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{name: "Float64", in: 12.5, want: 12.5, wantOK: true},
		{name: "Int", in: 3, want: 3, wantOK: true},
		{name: "Int64", in: int64(8), want: 8, wantOK: true},
		{name: "NodeID", in: NodeID(4), want: 4, wantOK: true},
		{name: "String", in: "12", wantOK: false},
		{name: "Nil", in: nil, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Number(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Number(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
