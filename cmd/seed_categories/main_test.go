package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCompany = "00000000-0000-0000-0000-000000000002"

func TestBuild_CeldasCombinadasHeredanDeLaFilaAnterior(t *testing.T) {
	records := [][]string{
		{"대분류", "중분류", "소분류"},
		{"철강재", "철근", "SD400"},
		{"", "", "SD500"},
		{"", "형강", "H형강"},
		{"골재", "모래", ""},
	}
	cats, err := build(testCompany, records)
	require.NoError(t, err)

	var names []string
	for _, c := range cats {
		names = append(names, c.level+":"+c.name)
	}
	assert.Equal(t, []string{
		"major:철강재", "middle:철근", "minor:SD400", "minor:SD500",
		"middle:형강", "minor:H형강", "major:골재", "middle:모래",
	}, names)

	// padre antes que hijo y orden entre hermanos
	assert.Equal(t, cats[0].id, cats[1].parentID)
	assert.Equal(t, cats[1].id, cats[3].parentID)
	assert.Equal(t, 2, cats[3].order)
	assert.Equal(t, 2, cats[4].order, "형강 es el segundo 중분류 de 철강재")
	assert.Equal(t, 2, cats[6].order, "골재 es el segundo 대분류")
}

func TestBuild_IdsDeterministas(t *testing.T) {
	records := [][]string{{"철강재", "철근", "SD400"}}
	a, err := build(testCompany, records)
	require.NoError(t, err)
	b, err := build(testCompany, records)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := build("00000000-0000-0000-0000-000000000009", records)
	require.NoError(t, err)
	assert.NotEqual(t, a[0].id, other[0].id, "cada empresa tiene sus propios ids")
}

func TestBuild_SinMayorEsError(t *testing.T) {
	_, err := build(testCompany, [][]string{{"", "철근", "SD400"}})
	assert.Error(t, err)
}

func TestBuild_MenorSinMedioEsError(t *testing.T) {
	_, err := build(testCompany, [][]string{{"골재", "", "모래"}})
	assert.Error(t, err)
}

func TestEscapeSQL(t *testing.T) {
	assert.Equal(t, "O''Neil", escapeSQL("O'Neil"))
}
