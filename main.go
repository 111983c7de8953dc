package main

import (
	"database/sql"
	"encoding/base64"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	flags "github.com/jessevdk/go-flags"
	"github.com/justinas/alice"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"

	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"

	"github.com/quotedb/qdb/lib/modlog"
	"github.com/quotedb/qdb/model"
)

var opts struct {
	ConfigFiles []string `short:"c" long:"config" description:"configuration file; repeat to layer overrides" default:"qdb.yml"`
}

// sessionKey decodes configured key material, or generates an
// ephemeral key when none is configured (sessions then die with the
// process).
func sessionKey(encoded string, length int, log logrus.FieldLogger) []byte {
	if encoded == "" {
		log.Warning("no session key configured; sessions will not survive a restart")
		return securecookie.GenerateRandomKey(length)
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		log.Fatalf("undecodable session key: %v", err)
	}
	return key
}

func main() {
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	logger := logrus.New()

	config, err := NewFileConfigurationService(opts.ConfigFiles).LoadConfiguration()
	if err != nil {
		logger.Fatalf("failed to load configuration: %v", err)
	}
	logger.SetLevel(config.Logging.Level.LogrusLevel())

	dialect := config.Database.Dialect
	if dialect == "" {
		dialect = "postgres"
	}
	sqlDb, err := sql.Open(dialect, config.Database.Connection)
	if err != nil {
		logger.Fatalf("failed to open database: %v", err)
	}

	broker, err := model.NewDatabaseBroker(dialect, sqlDb,
		model.FieldLoggingOption(logger),
		model.DebugOption(config.Database.Debug))
	if err != nil {
		logger.Fatalf("failed to initialize model: %v", err)
	}
	cached := NewCachingBroker(broker)

	modLogger := modlog.Logger(modlog.Nop())
	if path := config.ModerationLog.Path; path != "" {
		modLogger, err = modlog.NewFileLogger(path, logger)
		if err != nil {
			logger.Fatalf("failed to open moderation log: %v", err)
		}
	} else {
		logger.Warning("no moderation log configured; moderation actions will not be recorded")
	}

	serverStore := sessions.NewFilesystemStore(
		config.Sessions.Directory,
		sessionKey(config.Sessions.AuthenticationKey, 64, logger),
		sessionKey(config.Sessions.EncryptionKey, 32, logger),
	)
	serverStore.Options.Path = "/"
	serverStore.Options.HttpOnly = true
	sessionBroker := NewSessionBroker(map[SessionScope]sessions.Store{
		SessionScopeServer: serverStore,
	}, logger)

	authService := &AuthService{Broker: cached, Log: logger}

	router := mux.NewRouter()
	controllers := []Controller{
		&AuthController{Auth: authService, Broker: cached, Sessions: sessionBroker, Log: logger},
		&QuoteController{Broker: cached, Sessions: sessionBroker, ModLog: modLogger, Log: logger, Policy: bluemonday.StrictPolicy()},
		&UserController{Auth: authService, Broker: cached, Sessions: sessionBroker, ModLog: modLogger, Log: logger},
	}
	for _, c := range controllers {
		c.InitRoutes(router)
	}

	chain := alice.New(sessionBroker.Handler).Then(router)
	outer := handlers.CombinedLoggingHandler(logger.WriterLevel(logrus.InfoLevel), chain)

	bind := config.Web.Bind
	if bind == "" {
		bind = ":8080"
	}
	logger.Infof("listening on %s", bind)
	logger.Fatal(http.ListenAndServe(bind, outer))
}
