package csv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `id,Brand,Model,Processor,GPU,RAM,Storage,Display,Battery Life,Average Price (SAR),Purpose,totalScore
1,Acer,Nitro 5,i5-12500H,RTX 3050,16GB,512GB SSD,15.6 FHD 144Hz,6,"3,000",Gaming,80
2,Asus,ROG Strix,i7-13650HX,RTX 4060,16GB,1TB SSD,16 QHD 240Hz,5,4500,"Gaming, Design",90
3,Apple,MacBook Air,M2,Integrated,8GB,256GB SSD,13.6 Retina,18,n/a,Studying,85
4,Lenovo,IdeaPad,i5,Iris Xe,8GB,512GB SSD,15.6 FHD,8,2200,Studying,
`

func TestParseDropsRowsWithBadNumbers(t *testing.T) {
	t.Parallel()

	catalog, err := Parse(strings.NewReader(sampleCSV), nil)
	require.NoError(t, err)

	entries := catalog.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, 2, catalog.Skipped())

	assert.Equal(t, "1", entries[0].ID)
	assert.Equal(t, "Nitro 5", entries[0].Model)
	assert.InDelta(t, 3000, entries[0].Price, 1e-9)
	assert.InDelta(t, 80, entries[0].Score, 1e-9)
	assert.Equal(t, "6", entries[0].BatteryLife)
	assert.Equal(t, "Gaming, Design", entries[1].PurposeTags)
}

func TestParseRequiresColumns(t *testing.T) {
	t.Parallel()

	_, err := Parse(strings.NewReader("id,Model,Purpose\n1,X,Gaming\n"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "average price (sar)")
}

func TestParseAcceptsHeaderAliases(t *testing.T) {
	t.Parallel()

	catalog, err := Parse(strings.NewReader("\ufeffID,Model,Price,Purpose,Score\n7,Zenbook,3999.5,Programming and AI,88\n"), nil)
	require.NoError(t, err)
	require.Len(t, catalog.Entries(), 1)
	assert.InDelta(t, 3999.5, catalog.Entries()[0].Price, 1e-9)
}

func TestParseDropsNonFiniteNumbers(t *testing.T) {
	t.Parallel()

	input := "id,Model,Price,Purpose,Score\n" +
		"1,A,NaN,Gaming,80\n" +
		"2,B,3000,Gaming,NaN\n" +
		"3,C,+Inf,Gaming,80\n" +
		"4,D,3000,Gaming,-inf\n" +
		"5,E,3000,Gaming,Infinity\n" +
		"6,F,3000,Gaming,85\n"

	catalog, err := Parse(strings.NewReader(input), nil)
	require.NoError(t, err)
	require.Len(t, catalog.Entries(), 1)
	assert.Equal(t, "6", catalog.Entries()[0].ID)
	assert.Equal(t, 5, catalog.Skipped())
}

func TestParseEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := Parse(strings.NewReader(""), nil)
	require.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	catalog, err := Load(path, nil)
	require.NoError(t, err)
	assert.Len(t, catalog.Entries(), 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"), nil)
	require.Error(t, err)
}
