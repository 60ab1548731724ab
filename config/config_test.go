package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "objrel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	// act
	opts, err := Load("")

	// assert
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions, opts)
}

func TestLoadMissingFile(t *testing.T) {
	// act
	opts, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	// assert
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions, opts)
}

func TestLoadFile(t *testing.T) {
	// arrange
	path := writeFile(t, `
backend: http
http_url: http://localhost:8080
application_id: app
client_key: key
ids: uuid
debug: true
`)

	// act
	opts, err := Load(path)

	// assert
	require.NoError(t, err)
	assert.Equal(t, BackendHTTP, opts.Backend)
	assert.Equal(t, "http://localhost:8080", opts.HTTPURL)
	assert.Equal(t, "app", opts.ApplicationID)
	assert.Equal(t, "key", opts.ClientKey)
	assert.Equal(t, "uuid", opts.IDs)
	assert.True(t, opts.Debug)
	assert.Equal(t, "trie", opts.Storage)
}

func TestEnvOverridesFile(t *testing.T) {
	// arrange
	path := writeFile(t, "backend: memory\ncodec: json\n")
	t.Setenv("OBJREL_CODEC", "msgpack")
	t.Setenv("OBJREL_PRETTY", "true")

	// act
	opts, err := Load(path)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "msgpack", opts.Codec)
	assert.True(t, opts.Pretty)
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]struct {
		file string
		env  map[string]string
	}{
		"backend":    {file: "backend: mongo\n"},
		"codec":      {file: "codec: xml\n"},
		"storage":    {file: "storage: btree\n"},
		"ids":        {file: "ids: random\n"},
		"http url":   {file: "backend: http\n"},
		"sqlite":     {file: "backend: sqlite\nsqlite_path: ''\n"},
		"env bool":   {env: map[string]string{"OBJREL_DEBUG": "maybe"}},
		"env values": {env: map[string]string{"OBJREL_BACKEND": "cloud"}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			// arrange
			path := writeFile(t, tc.file)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			// act
			_, err := Load(path)

			// assert
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	// act
	_, err := Load(writeFile(t, "backend: [memory\n"))

	// assert
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}
