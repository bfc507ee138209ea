package database

import (
	"context"
	"database/sql"
	"strings"
)

type statement struct {
	Query      string
	Parameters map[string]any
	Arguments  []any
}

// InsertRow inserts one row. The generated id can be read afterwards with
// LastInsertID on the same service.
func (service *Service) InsertRow(ctx context.Context, table string, values *Columns) error {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	_, err := service.insertRow(ctx, table, values)

	return err
}

// InsertRowReturningID inserts one row and reads its id without letting
// another operation run in between.
func (service *Service) InsertRowReturningID(ctx context.Context, table string, values *Columns) (int64, error) {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	if _, err := service.insertRow(ctx, table, values); err != nil {
		return 0, err
	}

	return service.readLastInsertID(ctx)
}

func (service *Service) insertRow(ctx context.Context, table string, values *Columns) (sql.Result, error) {
	insert := assembleInsert(service.driver, values)

	return service.runExecute(ctx, statement{
		Query:      "INSERT INTO " + service.driver.quoteIdentifier(table) + " " + insert.Fragment,
		Parameters: insert.Values,
	})
}

// LastInsertID returns the id generated by the most recent insert on this
// service's session.
func (service *Service) LastInsertID(ctx context.Context) (int64, error) {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	return service.readLastInsertID(ctx)
}

// UpdateRow reports whether any row was changed. Matching nothing is not an
// error.
func (service *Service) UpdateRow(ctx context.Context, table string, where *Columns, values *Columns) (bool, error) {
	set := assembleUpdateSet(service.driver, values)
	if set.IsEmpty() {
		return false, connectFailure("update "+table, ErrMissingColumns)
	}

	filter := assembleEqualityWhere(service.driver, where)
	if filter.IsEmpty() {
		return false, connectFailure("update "+table, ErrMissingFilter)
	}

	service.mutex.Lock()
	defer service.mutex.Unlock()

	result, err := service.runExecute(ctx, statement{
		Query: "UPDATE " + service.driver.quoteIdentifier(table) +
			" SET " + set.Fragment +
			" WHERE " + filter.Fragment,
		Parameters: mergeValues(set, filter),
	})
	if err != nil {
		return false, err
	}

	return affected(result)
}

// DeleteRow reports whether any row was deleted. Matching nothing is not an
// error.
func (service *Service) DeleteRow(ctx context.Context, table string, where *Columns) (bool, error) {
	filter := assembleEqualityWhere(service.driver, where)
	if filter.IsEmpty() {
		return false, connectFailure("delete "+table, ErrMissingFilter)
	}

	service.mutex.Lock()
	defer service.mutex.Unlock()

	result, err := service.runExecute(ctx, statement{
		Query:      "DELETE FROM " + service.driver.quoteIdentifier(table) + " WHERE " + filter.Fragment,
		Parameters: filter.Values,
	})
	if err != nil {
		return false, err
	}

	return affected(result)
}

// FindRowBy returns the first matching row, or an empty Row when there is
// none.
func (service *Service) FindRowBy(ctx context.Context, table string, criteria *Criteria) (Row, error) {
	return service.selectRow(ctx, service.selectStatement(table, criteria, false))
}

// FindRowsBy returns every matching row, honouring the criteria's order,
// limit and offset.
func (service *Service) FindRowsBy(ctx context.Context, table string, criteria *Criteria) ([]Row, error) {
	return service.selectRows(ctx, service.selectStatement(table, criteria, true))
}

// SelectRow runs a caller written query and returns its first row, or an
// empty Row.
func (service *Service) SelectRow(ctx context.Context, query string, values map[string]any) (Row, error) {
	return service.selectRow(ctx, statement{Query: query, Parameters: values})
}

// SelectRows runs a caller written query and returns all of its rows.
func (service *Service) SelectRows(ctx context.Context, query string, values map[string]any) ([]Row, error) {
	return service.selectRows(ctx, statement{Query: query, Parameters: values})
}

// ExecuteQuery runs a caller written statement that returns no rows.
func (service *Service) ExecuteQuery(ctx context.Context, query string, values map[string]any) (sql.Result, error) {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	return service.runExecute(ctx, statement{Query: query, Parameters: values})
}

// selectStatement composes SELECT, WHERE (raw predicate first, otherwise the
// equality filters), ORDER BY and, for multi row reads, the page.
func (service *Service) selectStatement(table string, criteria *Criteria, paginate bool) statement {
	if criteria == nil {
		criteria = NewCriteria()
	}

	where := criteria.assembleWhere(service.driver)

	query := "SELECT * FROM " + service.driver.quoteIdentifier(table)
	if !where.IsEmpty() {
		query += " WHERE " + strings.TrimSpace(where.Fragment)
	}

	query += assembleOrderBy(criteria.orderBy)

	if paginate {
		query += service.driver.assembleLimit(criteria.limit, criteria.offset)
	}

	return statement{
		Query:      query,
		Parameters: where.Values,
		Arguments:  where.Args,
	}
}

func (service *Service) selectRow(ctx context.Context, statement statement) (Row, error) {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	rows, err := service.runSelect(ctx, statement, true)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return Row{}, nil
	}

	return rows[0], nil
}

func (service *Service) selectRows(ctx context.Context, statement statement) ([]Row, error) {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	return service.runSelect(ctx, statement, false)
}

func affected(result sql.Result) (bool, error) {
	count, err := result.RowsAffected()
	if err != nil {
		return false, connectFailure("read affected rows", err)
	}

	return count > 0, nil
}
