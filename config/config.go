// Configuration for the demo and for anything wiring a Client from
// settings: which backend to use and how to reach it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendHTTP   = "http"
)

type Options struct {
	Backend string `yaml:"backend"`
	// empty picks the backend's default: seq in memory, uuid for sqlite
	IDs string `yaml:"ids"`

	// memory backend
	Storage string `yaml:"storage"`
	Codec   string `yaml:"codec"`

	SQLitePath string `yaml:"sqlite_path"`

	HTTPURL       string `yaml:"http_url"`
	ApplicationID string `yaml:"application_id"`
	ClientKey     string `yaml:"client_key"`

	Debug  bool `yaml:"debug"`
	Pretty bool `yaml:"pretty"`
}

var DefaultOptions = Options{
	Backend: BackendMemory,

	Storage: "trie",
	Codec:   "bson",

	SQLitePath: "objrel.db",
}

var ErrInvalid = errors.New("invalid config")

// Load starts from DefaultOptions and applies, in order, the yaml file at
// path, a .env file in the working directory and OBJREL_* variables. Both
// files are optional.
func Load(path string) (Options, error) {
	opts := DefaultOptions

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return opts, fmt.Errorf("reading %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &opts); err != nil {
				return opts, fmt.Errorf("parsing %s: %w", path, err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return opts, fmt.Errorf("loading .env: %w", err)
	}
	if err := opts.applyEnv(); err != nil {
		return opts, err
	}

	return opts, opts.Validate()
}

func (o *Options) applyEnv() error {
	strs := map[string]*string{
		"OBJREL_BACKEND":        &o.Backend,
		"OBJREL_STORAGE":        &o.Storage,
		"OBJREL_CODEC":          &o.Codec,
		"OBJREL_IDS":            &o.IDs,
		"OBJREL_SQLITE_PATH":    &o.SQLitePath,
		"OBJREL_HTTP_URL":       &o.HTTPURL,
		"OBJREL_APPLICATION_ID": &o.ApplicationID,
		"OBJREL_CLIENT_KEY":     &o.ClientKey,
	}
	for env, dst := range strs {
		if v, ok := os.LookupEnv(env); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"OBJREL_DEBUG":  &o.Debug,
		"OBJREL_PRETTY": &o.Pretty,
	}
	for env, dst := range bools {
		v, ok := os.LookupEnv(env)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", env, v, ErrInvalid)
		}
		*dst = b
	}
	return nil
}

func (o Options) Validate() error {
	switch o.Backend {
	case BackendMemory:
		if err := oneOf("storage", o.Storage, "trie", "skipmap"); err != nil {
			return err
		}
		if err := oneOf("codec", o.Codec, "bson", "json", "msgpack"); err != nil {
			return err
		}
	case BackendSQLite:
		if o.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is empty: %w", ErrInvalid)
		}
	case BackendHTTP:
		if o.HTTPURL == "" {
			return fmt.Errorf("http_url is empty: %w", ErrInvalid)
		}
	default:
		return fmt.Errorf("unknown backend %q: %w", o.Backend, ErrInvalid)
	}

	return oneOf("ids", o.IDs, "", "seq", "atomic", "uuid")
}

func oneOf(name, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q: %w", name, v, ErrInvalid)
}
