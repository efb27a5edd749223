package gen

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("Custom header")(c)

		require.NoError(t, err)
		assert.Equal(t, "Custom header", c.Header)
	})

	t.Run("empty header takes the default", func(t *testing.T) {
		c, err := NewConfig(WithHeader(""))

		require.NoError(t, err)
		assert.Equal(t, DefaultHeader, c.Header)
	})
}

func TestOptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"suffix", WithSuffix("DB-Object")},
		{"runtime package", WithRuntimePackage("")},
		{"target", WithTarget("")},
		{"workers", WithWorkers(0)},
		{"feature name", WithFeatureNames("sql/unknown")},
		{"cache file", WithCacheFile("")},
		{"migrator", WithMigrator(nil)},
		{"writer", WithWriter(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opt(&Config{})
			require.Error(t, err)
			assert.True(t, IsConfigError(err))
		})
	}
}

func TestNewConfig(t *testing.T) {
	c, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultHeader, c.Header)
	assert.Equal(t, DefaultSuffix, c.Suffix)
	assert.Equal(t, DefaultRuntimePackage, c.RuntimePackage)
	assert.Equal(t, runtime.GOMAXPROCS(0), c.Workers)
	assert.Equal(t, DefaultCacheFile, c.CacheFile)
	assert.Equal(t, []string{"accessors"}, c.EnabledFeatures())

	c, err = NewConfig(
		WithTarget("out"),
		WithWorkers(2),
		WithFeatureNames("sql/migrations"),
		WithoutFeatures(FeatureAccessors),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Workers)
	assert.Equal(t, "out/"+DefaultCacheFile, c.CacheFile)
	assert.True(t, c.FeatureEnabled(FeatureMigrations))
	assert.False(t, c.FeatureEnabled(FeatureAccessors))
	assert.False(t, c.FeatureEnabled(FeatureCache))

	c, err = NewConfig(WithCacheFile("x/cache"))
	require.NoError(t, err)
	assert.True(t, c.FeatureEnabled(FeatureCache))
	assert.Equal(t, "x/cache", c.CacheFile)

	_, err = NewConfig(WithWorkers(-1))
	require.Error(t, err)
	assert.Panics(t, func() { MustNewConfig(WithTarget("")) })
}

func TestApplyAll(t *testing.T) {
	c := &Config{}
	err := c.ApplyAll(WithTarget(""), WithWorkers(3), WithSuffix("1x"))
	require.Error(t, err)
	assert.Equal(t, 3, c.Workers, "valid options are applied")
	assert.Contains(t, err.Error(), "Target")
	assert.Contains(t, err.Error(), "Suffix")

	require.NoError(t, c.Apply(WithSuffix("Row")))
	assert.Equal(t, "Row", c.Suffix)
}

func TestFeatures(t *testing.T) {
	f, ok := FeatureByName("sql/migrations")
	require.True(t, ok)
	assert.Equal(t, FeatureMigrations.Name, f.Name)
	_, ok = FeatureByName("privacy")
	assert.False(t, ok)
	assert.Equal(t, "experimental", FeatureMigrations.Stage.String())
	assert.Equal(t, "stable", FeatureAccessors.Stage.String())
	for _, f := range AllFeatures {
		assert.NotEmpty(t, f.Description, f.Name)
	}
}
