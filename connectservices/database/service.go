package database

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lunagic/connect/connectservices/database/internal/utils"
)

// Service runs statements for one Driver on a single session. The session
// is created on first use and reused until Close. Operations are serialised
// so a statement and the read of its last insert id never interleave with
// another caller.
type Service struct {
	driver            Driver
	mutex             *sync.Mutex
	standardLibraryDB *sql.DB
	ownsDB            bool
	conn              *sql.Conn
	connectionID      string
	lastInsertID      int64
	logger            *slog.Logger
	preRunFuncs       []func(ctx context.Context, statement string, args []any) error
	postRunFuncs      []func(ctx context.Context, run Run) error
	postConnectFuncs  []func(ctx context.Context, conn *sql.Conn) error
}

// Run describes a finished statement for post run hooks.
type Run struct {
	Statement string
	Args      []any
	Duration  time.Duration
	Err       error
}

// New prepares a service. No connection is made until the first operation.
func New(
	driver Driver,
	configFuncs ...ServiceConfigFunc,
) (*Service, error) {
	service := &Service{
		driver:           driver,
		mutex:            &sync.Mutex{},
		ownsDB:           true,
		logger:           slog.New(slog.DiscardHandler),
		preRunFuncs:      []func(ctx context.Context, statement string, args []any) error{},
		postRunFuncs:     []func(ctx context.Context, run Run) error{},
		postConnectFuncs: []func(ctx context.Context, conn *sql.Conn) error{},
	}

	for _, configFunc := range configFuncs {
		if err := configFunc(service); err != nil {
			return nil, connectFailure("configure service", err)
		}
	}

	return service, nil
}

func (service *Service) Driver() Driver {
	return service.driver
}

// QuoteIdentifier quotes a table or column name for the service's dialect.
func (service *Service) QuoteIdentifier(name string) string {
	return service.driver.quoteIdentifier(name)
}

// ConnectionID identifies the current session. It is empty until the
// session has been created.
func (service *Service) ConnectionID() string {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	return service.connectionID
}

// Connection returns the session, creating it on first use.
func (service *Service) Connection(ctx context.Context) (*sql.Conn, error) {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	return service.connection(ctx)
}

func (service *Service) Ping(ctx context.Context) error {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	conn, err := service.connection(ctx)
	if err != nil {
		return err
	}

	if err := conn.PingContext(ctx); err != nil {
		return connectFailure("ping", err)
	}

	return nil
}

// Close releases the session. The next operation opens a new one.
func (service *Service) Close() error {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	errs := []error{}
	if service.conn != nil {
		errs = append(errs, service.conn.Close())
		service.conn = nil
		service.connectionID = ""
		service.lastInsertID = 0
	}

	if service.standardLibraryDB != nil && service.ownsDB {
		errs = append(errs, service.standardLibraryDB.Close())
		service.standardLibraryDB = nil
	}

	if err := errors.Join(errs...); err != nil {
		return connectFailure("close", err)
	}

	return nil
}

func (service *Service) connection(ctx context.Context) (*sql.Conn, error) {
	if service.conn != nil {
		return service.conn, nil
	}

	if service.standardLibraryDB == nil {
		db, err := service.driver.Open()
		if err != nil {
			return nil, connectFailure("open database", err)
		}

		service.standardLibraryDB = db
	}

	conn, err := service.standardLibraryDB.Conn(ctx)
	if err != nil {
		return nil, connectFailure("connect", err)
	}

	for _, setup := range service.driver.postConnectStatements() {
		if _, err := conn.ExecContext(ctx, setup.Query); err != nil {
			_ = conn.Close()
			return nil, connectFailure("configure session", err)
		}
	}

	for _, postConnectFunc := range service.postConnectFuncs {
		if err := postConnectFunc(ctx, conn); err != nil {
			_ = conn.Close()
			return nil, connectFailure("post connect", err)
		}
	}

	service.conn = conn
	service.connectionID = uuid.NewString()
	service.lastInsertID = 0

	service.logger.Info("Database Connected",
		"connection", service.connectionID,
		"driver", service.driver.Name(),
	)

	return conn, nil
}

func (service *Service) prepare(ctx context.Context, statement statement) (string, []any, error) {
	preparedQuery, preparedArgs, err := utils.Prepare(
		statement.Query,
		statement.Parameters,
		statement.Arguments,
		service.driver.usesNumberedParameters(),
	)
	if err != nil {
		return "", nil, connectFailure("prepare statement", err)
	}

	if preparedQuery == "" {
		return "", nil, connectFailure("prepare statement", ErrBlankQuery)
	}

	for _, preRunFunc := range service.preRunFuncs {
		if err := preRunFunc(ctx, preparedQuery, preparedArgs); err != nil {
			return "", nil, connectFailure("pre run", err)
		}
	}

	return preparedQuery, preparedArgs, nil
}

func (service *Service) finish(ctx context.Context, run Run) error {
	for _, postRunFunc := range service.postRunFuncs {
		if err := postRunFunc(ctx, run); err != nil && run.Err == nil {
			return connectFailure("post run", err)
		}
	}

	if run.Err != nil {
		return connectFailure("execute statement", run.Err)
	}

	return nil
}

// runSelect reads every row, or only the first one when single is set. The
// rows are always closed before returning so the session is free again.
func (service *Service) runSelect(
	ctx context.Context,
	statement statement,
	single bool,
) (
	[]Row,
	error,
) {
	conn, err := service.connection(ctx)
	if err != nil {
		return nil, err
	}

	preparedQuery, preparedArgs, err := service.prepare(ctx, statement)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := service.scan(ctx, conn, preparedQuery, preparedArgs, single)

	if err := service.finish(ctx, Run{
		Statement: preparedQuery,
		Args:      preparedArgs,
		Duration:  time.Since(start),
		Err:       err,
	}); err != nil {
		return nil, err
	}

	return rows, nil
}

func (service *Service) scan(
	ctx context.Context,
	conn *sql.Conn,
	query string,
	args []any,
	single bool,
) (
	[]Row,
	error,
) {
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := []Row{}
	for rows.Next() {
		row, err := scanRow(rows, columns)
		if err != nil {
			return nil, err
		}

		result = append(result, row)
		if single {
			break
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (service *Service) runExecute(
	ctx context.Context,
	statement statement,
) (
	sql.Result,
	error,
) {
	conn, err := service.connection(ctx)
	if err != nil {
		return nil, err
	}

	preparedQuery, preparedArgs, err := service.prepare(ctx, statement)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := conn.ExecContext(ctx, preparedQuery, preparedArgs...)

	if err := service.finish(ctx, Run{
		Statement: preparedQuery,
		Args:      preparedArgs,
		Duration:  time.Since(start),
		Err:       err,
	}); err != nil {
		return nil, err
	}

	if service.driver.lastInsertIDQuery() == "" {
		// Drivers that cannot report an id return an error here, which only
		// means there is nothing to record.
		if id, err := result.LastInsertId(); err == nil && id > 0 {
			service.lastInsertID = id
		}
	}

	return result, nil
}

func (service *Service) readLastInsertID(ctx context.Context) (int64, error) {
	query := service.driver.lastInsertIDQuery()
	if query == "" {
		return service.lastInsertID, nil
	}

	conn, err := service.connection(ctx)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := conn.QueryRowContext(ctx, query).Scan(&id); err != nil {
		return 0, connectFailure("read last insert id", err)
	}

	return id, nil
}
