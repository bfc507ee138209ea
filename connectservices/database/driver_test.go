package database_test

import (
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/lunagic/connect/connectservices/database"
	"gotest.tools/v3/assert"
)

var roleTable = map[string]string{
	"mysql": `
		CREATE TABLE role (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(64) NOT NULL,
			status INT NOT NULL
		)
	`,
	"postgres": `
		CREATE TABLE role (
			id SERIAL PRIMARY KEY,
			name VARCHAR(64) NOT NULL,
			status INT NOT NULL
		)
	`,
	"sqlite": `
		CREATE TABLE role (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			status INTEGER NOT NULL
		)
	`,
}

type RoleRecord struct {
	ID     int64  `db:"id,primaryKey,autoIncrement"`
	Name   string `db:"name"`
	Status int    `db:"status"`
}

func testSuite(t *testing.T, driver database.Driver, configFuncs ...database.ServiceConfigFunc) {
	configFuncs = append(configFuncs, database.WithLogger(slog.Default()))
	service, err := database.New(driver, configFuncs...)
	assert.NilError(t, err)
	t.Cleanup(func() {
		assert.NilError(t, service.Close())
	})

	_, err = service.ExecuteQuery(t.Context(), roleTable[driver.Name()], nil)
	assert.NilError(t, err)

	connectionID := service.ConnectionID()
	assert.Assert(t, connectionID != "")

	var adminID int64
	{ // Insert and read back the generated id
		adminID, err = service.InsertRowReturningID(t.Context(), "role", database.NewColumns().
			Set("name", "admin").
			Set("status", 1),
		)
		assert.NilError(t, err)
		assert.Assert(t, adminID > 0)
	}

	var userID int64
	{ // Insert, then ask for the id separately
		err := service.InsertRow(t.Context(), "role", database.NewColumns().
			Set("name", "user").
			Set("status", 1),
		)
		assert.NilError(t, err)

		userID, err = service.LastInsertID(t.Context())
		assert.NilError(t, err)
		assert.Assert(t, userID > adminID)
	}

	{ // Find by id
		row, err := service.FindRowBy(t.Context(), "role", database.NewCriteria().WhereEqual("id", adminID))
		assert.NilError(t, err)
		assert.Equal(t, adminID, row.Int64("id"))
		assert.Equal(t, "admin", row.String("name"))
		assert.Equal(t, int64(1), row.Int64("status"))

		role, err := database.Hydrate[RoleRecord](row)
		assert.NilError(t, err)
		assert.DeepEqual(t, RoleRecord{ID: adminID, Name: "admin", Status: 1}, role)
	}

	{ // Update reports whether anything changed
		updated, err := service.UpdateRow(t.Context(), "role",
			database.NewColumns().Set("id", adminID),
			database.NewColumns().Set("status", 0),
		)
		assert.NilError(t, err)
		assert.Assert(t, updated)

		row, err := service.FindRowBy(t.Context(), "role", database.CriteriaFromColumns(database.NewColumns().
			Set("id", adminID).
			Set("status", 0),
		))
		assert.NilError(t, err)
		assert.Equal(t, adminID, row.Int64("id"))

		updated, err = service.UpdateRow(t.Context(), "role",
			database.NewColumns().Set("id", userID+1000),
			database.NewColumns().Set("status", 0),
		)
		assert.NilError(t, err)
		assert.Assert(t, !updated)
	}

	{ // Raw predicate with ordering and a limit
		rows, err := service.FindRowsBy(t.Context(), "role", database.NewCriteria().
			WhereRaw("id IN (:id1,:id2)", map[string]any{"id1": adminID, "id2": userID}).
			OrderBy("id DESC").
			Limit(1),
		)
		assert.NilError(t, err)
		assert.Equal(t, 1, len(rows))
		assert.Equal(t, userID, rows[0].Int64("id"))
	}

	{ // Pagination skips the first row
		rows, err := service.FindRowsBy(t.Context(), "role", database.NewCriteria().
			OrderBy("id").
			Limit(10).
			Offset(1),
		)
		assert.NilError(t, err)
		assert.Equal(t, 1, len(rows))
		assert.Equal(t, userID, rows[0].Int64("id"))
	}

	{ // Delete, then the row is gone
		deleted, err := service.DeleteRow(t.Context(), "role", database.NewColumns().Set("id", adminID))
		assert.NilError(t, err)
		assert.Assert(t, deleted)

		row, err := service.FindRowBy(t.Context(), "role", database.NewCriteria().WhereEqual("id", adminID))
		assert.NilError(t, err)
		assert.Assert(t, row.Empty())

		deleted, err = service.DeleteRow(t.Context(), "role", database.NewColumns().Set("id", adminID))
		assert.NilError(t, err)
		assert.Assert(t, !deleted)
	}

	{ // Active record over the same session
		roles := database.NewActiveRecord(service, "role")
		name := uuid.NewString()[0:32]

		id, err := roles.Create(t.Context(), database.NewColumns().
			Set("name", name).
			Set("status", 2),
		)
		assert.NilError(t, err)
		assert.Assert(t, id > userID)

		row, err := roles.FindByID(t.Context(), id)
		assert.NilError(t, err)
		assert.Equal(t, name, row.String("name"))

		updated, err := roles.Update(t.Context(), id, database.NewColumns().Set("status", 3))
		assert.NilError(t, err)
		assert.Assert(t, updated)

		row, err = roles.FindOne(t.Context(), database.NewCriteria().WhereEqual("status", 3))
		assert.NilError(t, err)
		assert.Equal(t, id, row.Int64("id"))

		all, err := roles.FindAll(t.Context(), database.NewCriteria().OrderBy("id"))
		assert.NilError(t, err)
		assert.Equal(t, 2, len(all))

		records, err := database.HydrateAll[RoleRecord](all)
		assert.NilError(t, err)
		assert.Equal(t, name, records[1].Name)

		updated, err = roles.UpdateWhere(t.Context(),
			database.NewColumns().Set("status", 3),
			database.NewColumns().Set("status", 4),
		)
		assert.NilError(t, err)
		assert.Assert(t, updated)

		deleted, err := roles.DeleteWhere(t.Context(), database.NewColumns().Set("status", 4))
		assert.NilError(t, err)
		assert.Assert(t, deleted)

		deleted, err = roles.Delete(t.Context(), id)
		assert.NilError(t, err)
		assert.Assert(t, !deleted)
	}

	assert.Equal(t, connectionID, service.ConnectionID())
}
