package model

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestItemInputValidate(t *testing.T) {
	neg := -1.0
	inf := math.Inf(1)
	nan := math.NaN()
	tests := []struct {
		name    string
		in      ItemInput
		wantErr error
	}{
		{"empty category", ItemInput{}, ErrCategoryRequired},
		{"blank category", ItemInput{Category: "   "}, ErrCategoryRequired},
		{"ok", ItemInput{Category: "Tops"}, nil},
		{"negative price", ItemInput{Category: "Tops", Price: &neg}, errors.New("price")},
		{"infinite price", ItemInput{Category: "Tops", Price: &inf}, errors.New("price")},
		{"NaN price", ItemInput{Category: "Tops", Price: &nan}, errors.New("price")},
	}

	for _, tt := range tests {
		err := tt.in.Validate()
		switch {
		case tt.wantErr == nil && err != nil:
			t.Errorf("%s: unexpected error %v", tt.name, err)
		case tt.wantErr == ErrCategoryRequired && !errors.Is(err, ErrCategoryRequired):
			t.Errorf("%s: expected ErrCategoryRequired, got %v", tt.name, err)
		case tt.wantErr != nil && err == nil:
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestItemInputNormalize(t *testing.T) {
	in := ItemInput{
		Category: "  Tops ",
		Brand:    " Acme ",
		Tags:     []string{" summer ", "", "  ", "linen"},
		Notes:    "\tsoft\n",
	}
	in.Normalize()

	if in.Category != "Tops" || in.Brand != "Acme" || in.Notes != "soft" {
		t.Errorf("fields not trimmed: %+v", in)
	}
	if !reflect.DeepEqual(in.Tags, []string{"summer", "linen"}) {
		t.Errorf("unexpected tags %v", in.Tags)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"a", []string{"a"}},
		{" casual, , work ,", []string{"casual", "work"}},
	}

	for _, tt := range tests {
		got := ParseTags(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseTags(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice("")
	if err != nil || p != nil {
		t.Errorf("empty price: got %v, %v", p, err)
	}

	p, err = ParsePrice(" 19.99 ")
	if err != nil || p == nil || *p != 19.99 {
		t.Errorf("ParsePrice(19.99) = %v, %v", p, err)
	}

	for _, s := range []string{"cheap", "Inf", "+Inf", "-Inf", "NaN", "1e400"} {
		if _, err := ParsePrice(s); err == nil {
			t.Errorf("ParsePrice(%q): expected error", s)
		}
	}
}

func TestDisplayImageURL(t *testing.T) {
	item := Item{OriginalImageURL: "/o"}
	if item.DisplayImageURL() != "/o" {
		t.Errorf("expected original url")
	}
	item.ProcessedImageURL = "/p"
	if item.DisplayImageURL() != "/p" {
		t.Errorf("expected processed url")
	}
}
