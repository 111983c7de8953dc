// Package gormrus routes gorm's logging through a logrus FieldLogger.
package gormrus

import (
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"
)

var sqlRegexp = regexp.MustCompile(`(\$\d+)|\?`)

type gormLogger struct {
	name   string
	logger logrus.FieldLogger
}

func (l *gormLogger) Print(values ...interface{}) {
	entry := l.logger.WithField("name", l.name)
	if len(values) > 1 {
		level := values[0]
		entry = entry.WithField("source", values[1])
		if level == "sql" {
			var formattedValues []interface{}
			if vals, ok := values[4].([]interface{}); ok {
				for _, value := range vals {
					formattedValues = append(formattedValues, fmt.Sprintf("'%v'", value))
				}
			}
			entry.WithField("took", values[2]).
				Debug(fmt.Sprintf(sqlRegexp.ReplaceAllString(values[3].(string), "%v"), formattedValues...))
		} else {
			entry.Error(values[2:]...)
		}
	} else {
		entry.Error(values...)
	}
}

// New creates a logger named "db" over the standard logrus logger.
func New() *gormLogger {
	return NewWithNameAndLogger("db", logrus.StandardLogger())
}

func NewWithLogger(logger logrus.FieldLogger) *gormLogger {
	return NewWithNameAndLogger("db", logger)
}

func NewWithNameAndLogger(name string, logger logrus.FieldLogger) *gormLogger {
	return &gormLogger{name: name, logger: logger}
}
