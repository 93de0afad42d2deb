package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("failed to parse markup: %v", err)
	}
	return doc
}

func TestFlattenText(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "plain text",
			markup: `<p id="x">Energy</p>`,
			want:   "Energy",
		},
		{
			name:   "nested elements joined with space",
			markup: `<p id="x"><b>Fat,</b><i>Total</i></p>`,
			want:   "Fat, Total",
		},
		{
			name:   "surrounding whitespace trimmed",
			markup: "<p id=\"x\">\n  500kJ  \n</p>",
			want:   "500kJ",
		},
		{
			name:   "empty element",
			markup: `<p id="x"></p>`,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, tt.markup)
			if got := FlattenText(doc.Find("#x")); got != tt.want {
				t.Errorf("FlattenText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFlattenText_EmptySelection(t *testing.T) {
	doc := mustDoc(t, `<p>text</p>`)
	if got := FlattenText(doc.Find("#missing")); got != "" {
		t.Errorf("FlattenText() = %q, want empty", got)
	}
}

func TestOwnText(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
		wantOK bool
	}{
		{
			name:   "text only",
			markup: `<h2 id="x">12  Chicken Risotto</h2>`,
			want:   "12  Chicken Risotto",
			wantOK: true,
		},
		{
			name:   "stops at first child element",
			markup: `<h2 id="x">Beef Lasagne<span>GF</span> tail</h2>`,
			want:   "Beef Lasagne",
			wantOK: true,
		},
		{
			name:   "stops at comment",
			markup: `<h2 id="x">12 <!--x--> Foo</h2>`,
			want:   "12 ",
			wantOK: true,
		},
		{
			name:   "leading element means no own text",
			markup: `<h2 id="x"><span>Beef</span></h2>`,
			wantOK: false,
		},
		{
			name:   "missing element",
			markup: `<p>nothing</p>`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, tt.markup)
			got, ok := OwnText(doc.Find("#x"))
			if ok != tt.wantOK {
				t.Fatalf("OwnText() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("OwnText() = %q, want %q", got, tt.want)
			}
		})
	}
}
