package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissing(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tga.yml")
	require.NoError(t, ioutil.WriteFile(file, []byte(`
database: /var/lib/tga/catalog.db
rle: false
thumbnail:
  width: 32
log_level: debug
`), 0644))

	c, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Database: "/var/lib/tga/catalog.db",
		RLE:      false,
		Workers:  10,
		Thumbnail: Thumbnail{
			Width:  32,
			Height: 64,
		},
		LogLevel: "debug",
	}, c)
}

func TestLoadInvalid(t *testing.T) {
	tables := map[string]string{
		"unknown key": "colour: red\n",
		"bad type":    "workers: many\n",
		"no workers":  "workers: 0\n",
		"thumbnail":   "thumbnail:\n  height: -1\n",
	}

	for name, content := range tables {
		t.Run(name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "tga.yml")
			require.NoError(t, ioutil.WriteFile(file, []byte(content), 0644))
			_, err := Load(file)
			assert.Error(t, err)
		})
	}
}

func TestSave(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tga.yml")

	c := Default()
	c.Workers = 3
	require.NoError(t, c.Save(file))

	got, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}
