package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "FINANCEPRO_"

type Application struct {
	Host         string       `koanf:"host"`
	Server       Server       `koanf:"server"`
	Database     Database     `koanf:"db"`
	Cache        Cache        `koanf:"cache"`
	Subscription Subscription `koanf:"subscription"`
	Scheduler    Scheduler    `koanf:"scheduler"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Cache struct {
	Capacity      int           `koanf:"capacity"`
	DefaultTTL    time.Duration `koanf:"defaultttl"`
	SweepInterval time.Duration `koanf:"sweepinterval"`
}

type Subscription struct {
	TrialDays int `koanf:"trialdays"`
	// Enforce rejects mutations of expired accounts on the server. Off by default,
	// the gate is otherwise advisory and evaluated by clients.
	Enforce bool `koanf:"enforce"`
}

type Scheduler struct {
	Enabled       bool   `koanf:"enabled"`
	RecurringSpec string `koanf:"recurringspec"`
}

func Defaults() Application {
	return Application{
		Host: "http://localhost:3000",
		Server: Server{
			Addr: ":8181",
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "financepro",
			Pass:   "",
			Name:   "financepro",
			Schema: "financepro",
		},
		Cache: Cache{
			Capacity:      100,
			DefaultTTL:    5 * time.Minute,
			SweepInterval: time.Minute,
		},
		Subscription: Subscription{
			TrialDays: 30,
			Enforce:   false,
		},
		Scheduler: Scheduler{
			Enabled:       true,
			RecurringSpec: "@hourly",
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
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
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
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
