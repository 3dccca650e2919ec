package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host   string `koanf:"host"`
	Cache  Cache  `koanf:"cache"`
	Remote Remote `koanf:"remote"`
	Sync   Sync   `koanf:"sync"`
}

type Cache struct {
	// Path of the embedded SQLite file backing the local cache.
	Path string `koanf:"path"`
}

type Remote struct {
	// UserID is the opaque identifier supplied by the identity provider.
	// When empty the application runs in local-cache-only mode.
	UserID    string `koanf:"userid"`
	ProjectID string `koanf:"projectid"`
	Token     string `koanf:"token"`
}

type Sync struct {
	// GraceWindow suppresses remote push notifications right after the
	// initial load so the remote's echo of that load cannot clobber
	// fresh local edits.
	GraceWindow  time.Duration `koanf:"gracewindow"`
	PollInterval time.Duration `koanf:"pollinterval"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host: ":8282",
		Cache: Cache{
			Path: "./smartspend.db",
		},
		Sync: Sync{
			GraceWindow:  2 * time.Second,
			PollInterval: 15 * time.Second,
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "SMARTSPEND_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "SMARTSPEND_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
