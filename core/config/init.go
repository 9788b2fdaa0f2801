// Package config loads the layered runtime configuration: built-in
// defaults, then an optional JSON, YAML or TOML file, then environment
// variables named after the keys (storage.driver -> STORAGE_DRIVER).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"github.com/imdario/mergo"
	"github.com/olebedev/config"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("config")

const defaults = `{
	"log": {"level": "INFO"},
	"storage": {
		"driver": "bunt",
		"path": "./gomarket.db",
		"key": "@GoMarket:products",
		"redis": {"addr": "localhost:6379", "db": 0}
	},
	"persist": {"retries": 3, "backoff": "100ms", "timeout": "5s"},
	"sentry": {"dsn": ""}
}`

// Defaults returns the built-in configuration.
func Defaults() *config.Config {
	cfg, err := config.ParseJson(defaults)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load builds the configuration from file, which may be empty or missing.
func Load(file string) (*config.Config, error) {
	cfg := Defaults()
	if file != "" {
		fromFile, err := parseFile(file)
		switch {
		case os.IsNotExist(errors.Cause(err)):
			log.Debugf("config file %s not found, using defaults", file)
		case err != nil:
			return nil, err
		default:
			if err := merge(cfg, fromFile); err != nil {
				return nil, errors.Wrapf(err, "config: merge %s", file)
			}
		}
	}
	return cfg.Env(), nil
}

// merge layers src over dst, key by key.
func merge(dst, src *config.Config) error {
	base, ok := dst.Root.(map[string]interface{})
	if !ok {
		return errors.New("config: base is not a map")
	}
	over, ok := src.Root.(map[string]interface{})
	if !ok {
		return errors.New("config: file root is not a map")
	}
	return mergo.Merge(&base, over, mergo.WithOverride)
}

func parseFile(file string) (*config.Config, error) {
	if _, err := os.Stat(file); err != nil {
		return nil, err
	}

	var (
		cfg *config.Config
		err error
	)
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yml", ".yaml":
		cfg, err = config.ParseYamlFile(file)
	case ".toml":
		cfg, err = parseTomlFile(file)
	default:
		cfg, err = config.ParseJsonFile(file)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "config: parse %s", file)
	}
	return cfg, nil
}

func parseTomlFile(file string) (*config.Config, error) {
	var root map[string]interface{}
	if _, err := toml.DecodeFile(file, &root); err != nil {
		return nil, err
	}
	return &config.Config{Root: normalize(root)}, nil
}

// normalize converts decoded TOML into the shapes olebedev/config walks:
// map[string]interface{}, []interface{} and int for integers.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case []map[string]interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	case []interface{}:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	case int64:
		return int(t)
	default:
		return v
	}
}

// Watch calls reload with the freshly loaded configuration every time file
// is written or replaced, until stop is closed. The parent directory is
// watched so saves that rename a temp file over file are seen too.
func Watch(file string, stop <-chan struct{}, reload func(*config.Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "config: watcher")
	}
	target := filepath.Clean(file)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return errors.Wrapf(err, "config: watch %s", file)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-stop:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := Load(file)
				if err != nil {
					log.Warningf("reload %s: %v", event.Name, err)
					continue
				}
				log.Infof("reloaded %s", event.Name)
				reload(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warningf("watch %s: %v", file, err)
			}
		}
	}()
	return nil
}
