package repositories

import (
	"database/sql"
	"fmt"

	"github.com/Dosada05/lanoel/db"
)

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

func executor(fallback *db.DB, exec db.Executor) db.Executor {
	if exec != nil {
		return exec
	}
	return fallback
}
