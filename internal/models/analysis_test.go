package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopDependencies_DirectFirst(t *testing.T) {
	analysis := &RepositoryAnalysisContext{
		Dependencies: []DependencyInfo{
			{Name: "zeta", IsDirect: false},
			{Name: "beta", IsDirect: true},
			{Name: "alpha", IsDirect: false},
			{Name: "gamma", IsDirect: true},
		},
	}

	top := analysis.TopDependencies(3)
	require.Len(t, top, 3)
	assert.Equal(t, "beta", top[0].Name)
	assert.Equal(t, "gamma", top[1].Name)
	assert.Equal(t, "alpha", top[2].Name)
}

func TestTopDependencies_DoesNotMutateOriginal(t *testing.T) {
	analysis := &RepositoryAnalysisContext{
		Dependencies: []DependencyInfo{
			{Name: "zeta", IsDirect: false},
			{Name: "beta", IsDirect: true},
		},
	}

	_ = analysis.TopDependencies(0)
	assert.Equal(t, "zeta", analysis.Dependencies[0].Name)
}
