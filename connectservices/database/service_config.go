package database

import (
	"context"
	"database/sql"
	"log/slog"
)

type ServiceConfigFunc func(service *Service) error

// WithPostConnectFunc runs callback on every new session, after the dialect
// session settings have been applied.
func WithPostConnectFunc(callback func(ctx context.Context, conn *sql.Conn) error) ServiceConfigFunc {
	return func(service *Service) error {
		service.postConnectFuncs = append(service.postConnectFuncs, callback)
		return nil
	}
}

func WithPreRunFunc(preRunFunc func(ctx context.Context, statement string, args []any) error) ServiceConfigFunc {
	return func(service *Service) error {
		service.preRunFuncs = append(service.preRunFuncs, preRunFunc)
		return nil
	}
}

// WithPostRunFunc is called after every statement, including failed ones.
func WithPostRunFunc(postRunFunc func(ctx context.Context, run Run) error) ServiceConfigFunc {
	return func(service *Service) error {
		service.postRunFuncs = append(service.postRunFuncs, postRunFunc)
		return nil
	}
}

func WithLogger(logger *slog.Logger) ServiceConfigFunc {
	return func(service *Service) error {
		service.logger = logger
		service.preRunFuncs = append(service.preRunFuncs, func(ctx context.Context, statement string, args []any) error {
			logger.InfoContext(ctx, "Database Run",
				"statement", statement,
				"args", args,
			)

			return nil
		})
		service.postRunFuncs = append(service.postRunFuncs, func(ctx context.Context, run Run) error {
			if run.Err != nil {
				logger.ErrorContext(ctx, "Database Run Failed",
					"statement", run.Statement,
					"duration", run.Duration,
					"error", run.Err,
				)
			}

			return nil
		})
		return nil
	}
}

// WithDB uses an already opened handle instead of Driver.Open. The service
// does not close it.
func WithDB(db *sql.DB) ServiceConfigFunc {
	return func(service *Service) error {
		service.standardLibraryDB = db
		service.ownsDB = false
		return nil
	}
}
