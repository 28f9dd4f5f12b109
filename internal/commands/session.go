package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"evalgo.org/zabbixctl/internal/reconcile"
	"evalgo.org/zabbixctl/pkg/log"
	"evalgo.org/zabbixctl/pkg/zabbix"
)

// newLogger builds the invocation logger, tagged with a run id so that the
// log lines of one invocation can be told apart.
func newLogger() (*zap.SugaredLogger, error) {
	logger, err := log.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	return logger.With("run", uuid.New().String()), nil
}

// newClient builds the API client from the loaded configuration.
func newClient(logger *zap.SugaredLogger) (*zabbix.Client, error) {
	opts := []zabbix.Option{
		zabbix.WithTimeout(cfg.Server.Timeout),
		zabbix.WithLogger(logger),
	}
	if cfg.Auth.Legacy {
		opts = append(opts, zabbix.WithLegacyAuth())
	}
	return zabbix.New(cfg.Server.URL, opts...)
}

// connect builds the logger and client and authenticates the session.
func connect(ctx context.Context) (*zabbix.Client, *zap.SugaredLogger, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, nil, err
	}

	client, err := newClient(logger)
	if err != nil {
		return nil, nil, err
	}

	if err := client.Login(ctx, cfg.Auth.User, cfg.Auth.Password); err != nil {
		return nil, nil, fmt.Errorf("login failed: %w", err)
	}
	return client, logger, nil
}

// printResult reports the reconciliation outcome on stdout.
func printResult(res reconcile.Result) {
	if res.Changed {
		fmt.Println("changed")
	} else {
		fmt.Println("unchanged")
	}
	if res.Message != "" {
		fmt.Println(res.Message)
	}
}
