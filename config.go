package main

import (
	"github.com/sirupsen/logrus"
)

type LogLevel struct {
	l *logrus.Level
}

func (l *LogLevel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	unmarshal(&s)
	lev, err := logrus.ParseLevel(s)
	l.l = &lev
	return err
}

func (l *LogLevel) LogrusLevel() logrus.Level {
	if l.l == nil {
		return logrus.InfoLevel
	}
	return *l.l
}

type Configuration struct {
	Database struct {
		Dialect    string
		Connection string
		Debug      bool
	}

	Web struct {
		Bind string
	}

	Sessions struct {
		// Key material for the session cookie codec, base64. When
		// empty, keys are generated at startup and sessions don't
		// survive a restart.
		AuthenticationKey string `yaml:"authentication_key"`
		EncryptionKey     string `yaml:"encryption_key"`

		// Directory backing the server-side session store.
		Directory string
	}

	ModerationLog struct {
		Path string
	} `yaml:"moderation_log"`

	Logging struct {
		Level LogLevel
	}
}

type ConfigurationService interface {
	LoadConfiguration() (*Configuration, error)
}
