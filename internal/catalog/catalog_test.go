package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/foodiq/internal/domain"
)

func TestDefaultHasEveryKey(t *testing.T) {
	c := Default()

	for _, key := range ProductKeys {
		entry := c.Analysis(key)
		assert.True(t, entry.Verdict.Valid(), "key %s", key)
		assert.NotEmpty(t, entry.BottomLine, "key %s", key)
		assert.NotEmpty(t, entry.WhatMatters, "key %s", key)
	}
	for _, key := range FollowUpKeys {
		assert.NotEmpty(t, c.FollowUp(key).FollowUpAnswer, "key %s", key)
	}
}

func TestDefaultEntries(t *testing.T) {
	c := Default()

	protein := c.Analysis(ProductProteinBar)
	assert.Equal(t, domain.VerdictCaution, protein.Verdict)
	assert.Contains(t, protein.Intent, "regular consumption")
	assert.Len(t, protein.WhatMatters, 4)
	assert.Len(t, protein.Uncertainty, 2)

	def := c.Analysis(ProductDefault)
	assert.Equal(t, domain.VerdictMixed, def.Verdict)

	fb := c.Fallback()
	assert.Equal(t, domain.VerdictMixed, fb.Verdict)
	assert.Equal(t, "Understanding what's in this product", fb.Intent)
	assert.Len(t, fb.Uncertainty, 1)

	assert.True(t, strings.HasPrefix(c.FollowUp(FollowUpDaily).FollowUpAnswer, "For daily consumption"))
}

func TestUnknownKeysUseDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, c.Analysis(ProductDefault), c.Analysis(ProductKey("granola")))
	assert.Equal(t, c.FollowUp(FollowUpDefault), c.FollowUp(FollowUpKey("price")))
}

func TestAnalysisReturnsCopy(t *testing.T) {
	c := Default()

	first := c.Analysis(ProductDietCola)
	first.WhatMatters[0] = "mutated"
	first.Verdict = domain.VerdictAvoid

	second := c.Analysis(ProductDietCola)
	assert.NotEqual(t, "mutated", second.WhatMatters[0])
	assert.Equal(t, domain.VerdictCaution, second.Verdict)
}

const minimalCatalog = `
analyses:
  proteinBar: {verdict: caution, bottomLine: "a"}
  dietCola: {verdict: caution, bottomLine: "b"}
  instantNoodles: {verdict: avoid, bottomLine: "c"}
  kidsCereal: {verdict: caution, bottomLine: "d"}
  default: {verdict: safe, bottomLine: "e"}
followUps:
  daily: "1"
  kids: "2"
  alternatives: "3"
  safety: "4"
  default: "5"
fallback: {verdict: mixed, bottomLine: "f"}
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(minimalCatalog))
	require.NoError(t, err)

	entry := c.Analysis(ProductInstantNoodles)
	assert.Equal(t, domain.VerdictAvoid, entry.Verdict)
	assert.NotNil(t, entry.WhatMatters)
	assert.NotNil(t, entry.WhyItMatters)
	assert.NotNil(t, entry.Uncertainty)
	assert.Equal(t, "4", c.FollowUp(FollowUpSafety).FollowUpAnswer)
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "empty",
			doc:     "",
			wantErr: "empty",
		},
		{
			name:    "missing analysis",
			doc:     strings.Replace(minimalCatalog, `  kidsCereal: {verdict: caution, bottomLine: "d"}`+"\n", "", 1),
			wantErr: `missing analysis "kidsCereal"`,
		},
		{
			name:    "missing follow-up",
			doc:     strings.Replace(minimalCatalog, `  safety: "4"`+"\n", "", 1),
			wantErr: `missing follow-up "safety"`,
		},
		{
			name:    "bad verdict",
			doc:     strings.Replace(minimalCatalog, "verdict: avoid", "verdict: terrible", 1),
			wantErr: "invalid verdict",
		},
		{
			name:    "empty bottom line",
			doc:     strings.Replace(minimalCatalog, `bottomLine: "f"`, `bottomLine: ""`, 1),
			wantErr: "bottomLine is required",
		},
		{
			name:    "unknown field",
			doc:     minimalCatalog + "extra: true\n",
			wantErr: "failed to decode catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalCatalog), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1", c.FollowUp(FollowUpDaily).FollowUpAnswer)

	c, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Fallback(), c.Fallback())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
