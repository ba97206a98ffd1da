package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heritagelab/ichcrawl/internal/extract"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "传统技艺", "传统技艺"},
		{"surrounding whitespace", "  传统技艺\t", "传统技艺"},
		{"internal runs collapse", "申报地区   或单位", "申报地区 或单位"},
		{"full-width space", "广东省\u3000潮州市", "广东省 潮州市"},
		{"non-breaking space", "第一批\u00a0国家级", "第一批 国家级"},
		{"newlines and tabs", "项目\n序号\t:\t1", "项目 序号 : 1"},
		{"empty", "", ""},
		{"only whitespace", " \u3000\u00a0\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extract.Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"广东省\u3000潮州市", "  a  b  ", "传统技艺"}
	for _, in := range inputs {
		once := extract.Normalize(in)
		assert.Equal(t, once, extract.Normalize(once))
	}
}
