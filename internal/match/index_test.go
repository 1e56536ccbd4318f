package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bilag-dev/bilag/internal/model"
)

func TestIndexByAmount_CentPrecisionKeys(t *testing.T) {
	docs := []model.Document{
		doc("a.pdf", nil, []string{"199.5"}),
		doc("b.pdf", nil, []string{"199.50", "42.00"}),
	}

	idx := indexByAmount(docs)

	// "199.5" and "199.50" are the same amount at cent precision.
	assert.ElementsMatch(t, []string{"a.pdf", "b.pdf"}, idx["199.50"])
	assert.Equal(t, []string{"b.pdf"}, idx["42.00"])
}

func TestIndexByAmount_RepeatedAmountCountsOnce(t *testing.T) {
	docs := []model.Document{
		doc("a.pdf", nil, []string{"100.00", "100.00", "100.004"}),
	}

	idx := indexByAmount(docs)
	assert.Equal(t, []string{"a.pdf"}, idx["100.00"])
}

func TestAliasMatches(t *testing.T) {
	aliases := []model.Alias{
		{Prefix: "NETFLIX"},
		{Prefix: "PBS", Postfix: "EL"},
	}

	tests := []struct {
		name  string
		doc   model.Document
		want  bool
		line  string
	}{
		{"prefix only", doc("a", nil, nil, "NETFLIX INTL"), true, "NETFLIX INTL"},
		{"prefix and postfix", doc("b", nil, nil, "PBS AARHUS EL"), true, "PBS AARHUS EL"},
		{"postfix missing", doc("c", nil, nil, "PBS AARHUS VAND"), false, ""},
		{"no match", doc("d", nil, nil, "SPOTIFY AB"), false, ""},
		{"second line matches", doc("e", nil, nil, "SOMETHING", "NETFLIX.COM"), true, "NETFLIX.COM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, ok := aliasMatches(tt.doc, aliases)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.line, line)
		})
	}
}
