package encoder

import (
	"testing"

	"carprice/internal/artifact"
	"carprice/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelEncoder_Encode(t *testing.T) {
	enc, err := NewLabelEncoder(FieldFuel, testutil.Fuels)
	require.NoError(t, err)

	t.Run("known labels map to their index", func(t *testing.T) {
		for i, label := range testutil.Fuels {
			code, err := enc.Encode(label)
			require.NoError(t, err)
			assert.Equal(t, i, code)
		}
	})

	t.Run("unknown label is an error, not a default", func(t *testing.T) {
		code, err := enc.Encode("Electric")
		require.Error(t, err)
		assert.Zero(t, code)

		var uce *UnknownCategoryError
		require.ErrorAs(t, err, &uce)
		assert.Equal(t, FieldFuel, uce.Field)
		assert.Equal(t, "Electric", uce.Label)
		assert.Contains(t, err.Error(), `unknown fuel "Electric"`)
	})

	t.Run("lookup is case sensitive but suggests", func(t *testing.T) {
		_, err := enc.Encode("petrol")
		var uce *UnknownCategoryError
		require.ErrorAs(t, err, &uce)
		assert.Equal(t, "Petrol", uce.Suggestion)
		assert.Contains(t, err.Error(), `did you mean "Petrol"?`)
	})
}

func TestLabelEncoder_Construction(t *testing.T) {
	t.Run("duplicate class", func(t *testing.T) {
		_, err := NewLabelEncoder(FieldBrand, []string{"Audi", "BMW", "Audi"})
		assert.Error(t, err)
	})

	t.Run("duplicate code in mapping", func(t *testing.T) {
		_, err := NewLabelEncoderFromMapping(FieldOwner, map[string]int{"First Owner": 0, "Second Owner": 0})
		assert.Error(t, err)
	})

	t.Run("mapping keeps explicit codes", func(t *testing.T) {
		enc, err := NewLabelEncoderFromMapping(FieldTransmission, map[string]int{"Manual": 7, "Automatic": 3})
		require.NoError(t, err)
		code, err := enc.Encode("Manual")
		require.NoError(t, err)
		assert.Equal(t, 7, code)
		assert.Equal(t, []string{"Automatic", "Manual"}, enc.Classes())
		assert.Equal(t, 2, enc.Len())
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("classes list", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "fuel.yaml", "field: fuel\nclasses: [CNG, Diesel]\n")
		enc, err := Load(FieldFuel, path)
		require.NoError(t, err)
		code, err := enc.Encode("Diesel")
		require.NoError(t, err)
		assert.Equal(t, 1, code)
	})

	t.Run("json mapping", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "owner.json", `{"field": "owner", "mapping": {"First Owner": 0, "Second Owner": 2}}`)
		enc, err := Load(FieldOwner, path)
		require.NoError(t, err)
		code, err := enc.Encode("Second Owner")
		require.NoError(t, err)
		assert.Equal(t, 2, code)
	})

	tests := []struct {
		name string
		body string
	}{
		{name: "wrong field", body: "field: brand\nclasses: [Audi]\n"},
		{name: "empty vocabulary", body: "field: fuel\n"},
		{name: "both forms", body: "field: fuel\nclasses: [CNG]\nmapping: {CNG: 0}\n"},
		{name: "duplicate class", body: "field: fuel\nclasses: [CNG, CNG]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, dir, "bad.yaml", tt.body)
			_, err := Load(FieldFuel, path)
			require.Error(t, err)
			assert.True(t, artifact.IsLoadError(err))
		})
	}
}

func TestSet(t *testing.T) {
	paths := testutil.WriteArtifacts(t, t.TempDir())
	set, err := LoadSet(paths)
	require.NoError(t, err)

	expected := map[Field]struct {
		label string
		code  int
	}{
		FieldBrand:        {"Maruti", 5},
		FieldModel:        {"Swift", 5},
		FieldFuel:         {"Petrol", 3},
		FieldSellerType:   {"Individual", 1},
		FieldTransmission: {"Manual", 1},
		FieldOwner:        {"First Owner", 0},
	}
	for field, want := range expected {
		code, err := set.Encode(field, want.label)
		require.NoError(t, err, field)
		assert.Equal(t, want.code, code, field)
	}

	_, err = set.Encode(FieldBrand, "Unknown")
	var uce *UnknownCategoryError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, FieldBrand, uce.Field)

	_, err = set.Encode(Field("colour"), "Red")
	assert.Error(t, err)

	assert.Equal(t, testutil.Owners, set.Vocabulary(FieldOwner))
}

type stubEncoder map[string]int

func (s stubEncoder) Encode(label string) (int, error) {
	code, ok := s[label]
	if !ok {
		return 0, &UnknownCategoryError{Label: label}
	}
	return code, nil
}

func TestNewSet(t *testing.T) {
	full := map[Field]Encoder{}
	for _, f := range Fields {
		full[f] = stubEncoder{"x": 1}
	}
	set, err := NewSet(full)
	require.NoError(t, err)
	assert.Nil(t, set.Vocabulary(FieldBrand))

	delete(full, FieldOwner)
	_, err = NewSet(full)
	assert.Error(t, err)
}

func TestLoadSet_MissingArtifact(t *testing.T) {
	dir := t.TempDir()
	paths := testutil.WriteArtifacts(t, dir)
	paths.Owner = dir + "/missing.yaml"
	_, err := LoadSet(paths)
	require.Error(t, err)
	assert.True(t, artifact.IsLoadError(err))
}
