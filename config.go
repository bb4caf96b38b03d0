package core

import (
	"fmt"
	"strconv"

	"git.sr.ht/~emersion/go-scfg"

	"github.com/Simple-Irc-Client/core/irc"
)

type Config struct {
	Nick string
	User string
	Real string

	QuitMessage string
	Casemapping string // "ascii" or "rfc1459"
	Typings     bool
}

func Defaults() Config {
	return Config{
		QuitMessage: "Leaving",
		Casemapping: "ascii",
		Typings:     true,
	}
}

// Casemap returns the configured nick-folding function.
func (cfg *Config) Casemap() irc.Casemapping {
	if cfg.Casemapping == "rfc1459" {
		return irc.CasemapRFC1459
	}
	return irc.CasemapASCII
}

func LoadConfigFile(filename string) (cfg Config, err error) {
	cfg = Defaults()

	directives, err := scfg.Load(filename)
	if err != nil {
		return cfg, fmt.Errorf("error parsing scfg: %s", err)
	}

	for _, d := range directives {
		switch d.Name {
		case "nickname":
			if err := d.ParseParams(&cfg.Nick); err != nil {
				return cfg, err
			}
		case "username":
			if err := d.ParseParams(&cfg.User); err != nil {
				return cfg, err
			}
		case "realname":
			if err := d.ParseParams(&cfg.Real); err != nil {
				return cfg, err
			}
		case "quit-message":
			if err := d.ParseParams(&cfg.QuitMessage); err != nil {
				return cfg, err
			}
		case "casemapping":
			if err := d.ParseParams(&cfg.Casemapping); err != nil {
				return cfg, err
			}
			if cfg.Casemapping != "ascii" && cfg.Casemapping != "rfc1459" {
				return cfg, fmt.Errorf("unknown casemapping %q", cfg.Casemapping)
			}
		case "typings":
			var typings string
			if err := d.ParseParams(&typings); err != nil {
				return cfg, err
			}
			if cfg.Typings, err = strconv.ParseBool(typings); err != nil {
				return cfg, err
			}
		default:
			return cfg, fmt.Errorf("unknown directive %q", d.Name)
		}
	}

	if cfg.Nick == "" {
		return cfg, fmt.Errorf("nickname is required")
	}
	if cfg.User == "" {
		cfg.User = cfg.Nick
	}
	if cfg.Real == "" {
		cfg.Real = cfg.Nick
	}

	return cfg, nil
}
