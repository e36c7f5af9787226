package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCanonicalNames(t *testing.T) {
	for _, name := range Names() {
		d, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, d.Name)
	}
}

func TestLookupAliases(t *testing.T) {
	tests := []struct {
		alias string
		want  string
	}{
		{"farmers", "farmer"},
		{"home-gardens", "home-garden"},
		{"csa-agriculture", "csa"},
		{"wells", "agro-well"},
		{"poultry-farming", "poultry"},
		{"  Farmer  ", "farmer"},
		{"EQUIPMENT", "equipment"},
	}
	for _, tc := range tests {
		d, err := Lookup(tc.alias)
		require.NoError(t, err, tc.alias)
		assert.Equal(t, tc.want, d.Name)
	}
}

func TestLookupUnknownKind(t *testing.T) {
	_, err := Lookup("tractors")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown entity kind")
}

func TestPageSizes(t *testing.T) {
	assert.Equal(t, 6, Farmer.PageSize)
	for _, d := range []Descriptor{Equipment, HomeGarden, CSAAgriculture, AgroWell, PoultryFarming} {
		assert.Equal(t, 10, d.PageSize, d.Name)
	}
}

func TestPluralKeys(t *testing.T) {
	want := map[string]string{
		"farmer":      "farmers",
		"equipment":   "equipment",
		"home-garden": "homeGardens",
		"csa":         "csaAgricultureData",
		"agro-well":   "agroWells",
		"poultry":     "poultryFarmingData",
	}
	for name, key := range want {
		d, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, key, d.PluralKey, name)
	}
}

func TestFarmerLinkedKindsCarryScopeField(t *testing.T) {
	assert.Empty(t, Farmer.ScopeField)
	for _, d := range []Descriptor{Equipment, HomeGarden, CSAAgriculture, AgroWell, PoultryFarming} {
		assert.Equal(t, "farmerId", d.ScopeField, d.Name)

		f, ok := d.FilterField("farmerId")
		require.True(t, ok, d.Name)
		assert.Equal(t, FieldString, f.Type)
	}
}

func TestFilterFieldCaseInsensitive(t *testing.T) {
	f, ok := Equipment.FilterField("ISREPLICATED")
	require.True(t, ok)
	assert.Equal(t, "isReplicated", f.Name)
	assert.Equal(t, FieldBool01, f.Type)

	_, ok = Equipment.FilterField("horsepower")
	assert.False(t, ok)
}

func TestDescriptorsDeclareColumns(t *testing.T) {
	for _, name := range Names() {
		d, err := Lookup(name)
		require.NoError(t, err)
		assert.NotEmpty(t, d.Columns, name)
		assert.NotEmpty(t, d.IDField, name)
		assert.NotEmpty(t, d.Path, name)
	}
}
