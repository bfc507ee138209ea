package database

import "context"

// ActiveRecord binds a Service to one table and its primary key column.
type ActiveRecord struct {
	service    *Service
	table      string
	primaryKey string
}

type ActiveRecordConfigFunc func(record *ActiveRecord)

func WithPrimaryKey(column string) ActiveRecordConfigFunc {
	return func(record *ActiveRecord) {
		record.primaryKey = column
	}
}

func NewActiveRecord(service *Service, table string, configFuncs ...ActiveRecordConfigFunc) *ActiveRecord {
	record := &ActiveRecord{
		service:    service,
		table:      table,
		primaryKey: "id",
	}

	for _, configFunc := range configFuncs {
		configFunc(record)
	}

	return record
}

func (record *ActiveRecord) Table() string {
	return record.table
}

func (record *ActiveRecord) PrimaryKey() string {
	return record.primaryKey
}

func (record *ActiveRecord) FindByID(ctx context.Context, id any) (Row, error) {
	return record.service.FindRowBy(ctx, record.table, NewCriteria().WhereEqual(record.primaryKey, id))
}

func (record *ActiveRecord) FindOne(ctx context.Context, criteria *Criteria) (Row, error) {
	return record.service.FindRowBy(ctx, record.table, criteria)
}

func (record *ActiveRecord) FindAll(ctx context.Context, criteria *Criteria) ([]Row, error) {
	return record.service.FindRowsBy(ctx, record.table, criteria)
}

// Create inserts values and returns the generated id.
func (record *ActiveRecord) Create(ctx context.Context, values *Columns) (int64, error) {
	return record.service.InsertRowReturningID(ctx, record.table, values)
}

func (record *ActiveRecord) Update(ctx context.Context, id any, values *Columns) (bool, error) {
	return record.service.UpdateRow(ctx, record.table, record.byID(id), values)
}

func (record *ActiveRecord) UpdateWhere(ctx context.Context, where *Columns, values *Columns) (bool, error) {
	return record.service.UpdateRow(ctx, record.table, where, values)
}

func (record *ActiveRecord) Delete(ctx context.Context, id any) (bool, error) {
	return record.service.DeleteRow(ctx, record.table, record.byID(id))
}

func (record *ActiveRecord) DeleteWhere(ctx context.Context, where *Columns) (bool, error) {
	return record.service.DeleteRow(ctx, record.table, where)
}

func (record *ActiveRecord) byID(id any) *Columns {
	return NewColumns().Set(record.primaryKey, id)
}
