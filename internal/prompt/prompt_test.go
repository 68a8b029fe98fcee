package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vbonduro/foodiq/internal/domain"
)

func TestAnalysis(t *testing.T) {
	p := Analysis("sugar, Red 40")

	assert.True(t, strings.HasPrefix(p, System))
	assert.Contains(t, p, `"sugar, Red 40"`)
	for _, field := range []string{`"verdict"`, `"intent"`, `"whatMatters"`, `"whyItMatters"`, `"uncertainty"`, `"bottomLine"`} {
		assert.Contains(t, p, field)
	}
	assert.Contains(t, p, `"safe" | "caution" | "mixed" | "avoid"`)
	assert.NotContains(t, p, "%!")
}

func TestFollowUp(t *testing.T) {
	prior := &domain.AnalysisResult{
		Verdict:     domain.VerdictCaution,
		WhatMatters: []string{"Sucralose", "Glucose syrup"},
		BottomLine:  "Fine occasionally.",
	}

	p := FollowUp("milk protein, sucralose", prior, "Can I eat it daily?")

	assert.True(t, strings.HasPrefix(p, System))
	assert.Contains(t, p, `"milk protein, sucralose"`)
	assert.Contains(t, p, "- Verdict: caution")
	assert.Contains(t, p, "- What mattered: Sucralose, Glucose syrup")
	assert.Contains(t, p, "- Bottom line: Fine occasionally.")
	assert.Contains(t, p, `"Can I eat it daily?"`)
	assert.Contains(t, p, "2-4 sentences")
	assert.Contains(t, p, `"followUpAnswer"`)
	assert.NotContains(t, p, `"verdict"`)
	assert.NotContains(t, p, "%!")
}

func TestFollowUpWithoutContext(t *testing.T) {
	p := FollowUp("water", nil, "safe?")

	assert.Contains(t, p, "- Verdict: mixed")
	assert.Contains(t, p, "- What mattered: various ingredients")
	assert.Contains(t, p, "- Bottom line: No previous analysis")
}

func TestExtraction(t *testing.T) {
	assert.Contains(t, Extraction, NoIngredientsFound)
	assert.Contains(t, Extraction, ImageUnclear)
}
