package summarizer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

const gameScript = `// Breakout game loop
import { Paddle } from './paddle.js';

class Game {
    constructor(canvas) {
        this.ctx = canvas.getContext('2d');
        this.score = 0;
    }
}

function update() {
    requestAnimationFrame(update);
}

document.addEventListener('keydown', handleInput);
`

func TestSummarizeCode_GameScript(t *testing.T) {
	service := NewService(arbor.NewLogger())

	summary := service.SummarizeCode("src/game.js", gameScript)

	assert.Contains(t, summary.FunctionalityDescription, "JavaScript module")
	assert.Contains(t, summary.FunctionalityDescription, "canvas rendering")
	assert.Contains(t, summary.FunctionalityDescription, "game logic")
	assert.Contains(t, summary.FunctionalityDescription, "1 class")

	assert.Contains(t, summary.CodeSnippet, "class Game")
	assert.LessOrEqual(t, len(summary.CodeSnippet), 150)

	assert.Contains(t, summary.KeyFunctions, "update")
	assert.Contains(t, summary.Imports, "./paddle.js")
}

func TestSummarizeCode_Deterministic(t *testing.T) {
	service := NewService(arbor.NewLogger())

	first := service.SummarizeCode("src/game.js", gameScript)
	second := service.SummarizeCode("src/game.js", gameScript)

	assert.Equal(t, first.FunctionalityDescription, second.FunctionalityDescription)
	assert.Equal(t, first.CodeSnippet, second.CodeSnippet)
	assert.Equal(t, first.KeyFunctions, second.KeyFunctions)
	assert.Equal(t, first.Imports, second.Imports)
}

func TestSummarizeCode_UnknownLanguageFallsBackToRawHead(t *testing.T) {
	service := NewService(arbor.NewLogger())

	summary := service.SummarizeCode("data.bin", "opaque line one\nopaque line two")
	assert.Contains(t, summary.FunctionalityDescription, "Source file")
	assert.NotEmpty(t, summary.CodeSnippet)
	assert.LessOrEqual(t, len(summary.CodeSnippet), 150)
}

func TestSummarizeCode_EmptyContent(t *testing.T) {
	service := NewService(arbor.NewLogger())

	summary := service.SummarizeCode("src/empty.go", "")
	assert.Empty(t, summary.CodeSnippet)
	assert.Empty(t, summary.KeyFunctions)
}

const breakoutReadme = `# Breakout Clone

A classic brick-breaking arcade game for the browser.

## Features

- Paddle and ball physics
- Score tracking per level
- Power-up drops

## Why

This project helps beginners learn canvas game programming.
`

func TestSummarizePurpose_BreakoutClone(t *testing.T) {
	service := NewService(arbor.NewLogger())

	purpose := service.SummarizePurpose(breakoutReadme)

	assert.Equal(t, "Game", purpose.BusinessDomain)
	require.Len(t, purpose.KeyFeatures, 3)
	assert.Equal(t, "Paddle and ball physics", purpose.KeyFeatures[0])
	assert.NotEmpty(t, purpose.Description)
	assert.Contains(t, purpose.UserValue, "helps beginners")
}

func TestSummarizePurpose_FeatureCapAtEight(t *testing.T) {
	readme := "# Tool\n\n## Features\n\n"
	for i := 0; i < 12; i++ {
		readme += "- a feature\n"
	}

	service := NewService(arbor.NewLogger())
	purpose := service.SummarizePurpose(readme)
	assert.Len(t, purpose.KeyFeatures, 8)
}

func TestSummarizePurpose_FallbackDomain(t *testing.T) {
	service := NewService(arbor.NewLogger())
	purpose := service.SummarizePurpose("# thing\n\nIt does stuff.\n")
	assert.Equal(t, "Software", purpose.BusinessDomain)
}

func TestSummarizePurpose_CleansAndTruncates(t *testing.T) {
	long := "# **Project**\n\n"
	for i := 0; i < 60; i++ {
		long += "word "
	}

	service := NewService(arbor.NewLogger())
	purpose := service.SummarizePurpose(long)
	assert.NotContains(t, purpose.Description, "*")
	assert.LessOrEqual(t, len([]rune(purpose.Description)), 200)
}

func TestSummarizeConfig(t *testing.T) {
	service := NewService(arbor.NewLogger())

	desc := service.SummarizeConfig("config.toml", "level = \"info\"\nport = 8080\n")
	assert.Contains(t, desc, "TOML configuration")
	assert.Contains(t, desc, "2 lines")
	assert.Contains(t, desc, "~2 settings")
}

func TestLanguageFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.go", "Go"},
		{"src/app.ts", "TypeScript"},
		{"lib/game.js", "JavaScript"},
		{"scripts/run.py", "Python"},
		{"weird.zzz", "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LanguageFromPath(tt.path), tt.path)
	}
}

func TestSummarizePurpose_PrefersAboutOverOverview(t *testing.T) {
	service := NewService(arbor.NewLogger())
	readme := "# Widget\n\n## About\n\nThe about paragraph.\n\n## Overview\n\nThe overview paragraph.\n"

	for i := 0; i < 20; i++ {
		purpose := service.SummarizePurpose(readme)
		assert.Equal(t, "The about paragraph.", purpose.Description)
	}
}

func TestSummarizePurpose_FeatureHeadingsResolveInDocumentOrder(t *testing.T) {
	service := NewService(arbor.NewLogger())
	readme := "# Widget\n\n## Features\n\n- Fast startup\n- Small binary\n\n## Feature roadmap\n\n- Plugin system\n"

	for i := 0; i < 20; i++ {
		purpose := service.SummarizePurpose(readme)
		require.Len(t, purpose.KeyFeatures, 2)
		assert.Equal(t, "Fast startup", purpose.KeyFeatures[0])
		assert.Equal(t, "Small binary", purpose.KeyFeatures[1])
	}
}

func TestSummarizeCode_SnippetTruncatesOnRuneBoundary(t *testing.T) {
	service := NewService(arbor.NewLogger())
	// One ASCII byte followed by two-byte runes puts the length cap
	// mid-rune in byte terms; the snippet must stay valid UTF-8.
	content := "a" + strings.Repeat("é", 200)

	summary := service.SummarizeCode("notes.txt", content)
	assert.True(t, utf8.ValidString(summary.CodeSnippet))
	assert.LessOrEqual(t, len([]rune(summary.CodeSnippet)), maxSnippetLength)
}
