package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MollahHamza/TRASHCANPRO/internal/model"
)

// MySQLReportRepo stores reports in the `waste_reports` table, ordered by id.
type MySQLReportRepo struct{ DB *sql.DB }

func NewMySQLReportRepo(db *sql.DB) *MySQLReportRepo { return &MySQLReportRepo{DB: db} }

const reportColumns = "id, user, latitude, longitude, type, timestamp, status, image_path"

func (r *MySQLReportRepo) Load(ctx context.Context) ([]model.Report, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+reportColumns+" FROM waste_reports ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	reports := []model.Report{}
	for rows.Next() {
		var rep model.Report
		if err := rows.Scan(&rep.ID, &rep.User, &rep.Location.Latitude, &rep.Location.Longitude,
			&rep.Type, &rep.Timestamp, &rep.Status, &rep.ImagePath); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

func (r *MySQLReportRepo) Save(ctx context.Context, reports []model.Report) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM waste_reports"); err != nil {
		return err
	}
	for _, rep := range reports {
		if err := insertReport(ctx, tx, rep); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *MySQLReportRepo) Append(ctx context.Context, rep model.Report) error {
	return insertReport(ctx, r.DB, rep)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertReport(ctx context.Context, db execer, rep model.Report) error {
	_, err := db.ExecContext(ctx,
		"INSERT INTO waste_reports ("+reportColumns+") VALUES (?,?,?,?,?,?,?,?)",
		rep.ID, rep.User, rep.Location.Latitude, rep.Location.Longitude,
		rep.Type, rep.Timestamp, rep.Status, rep.ImagePath)
	if err != nil {
		return fmt.Errorf("insert report %d: %w", rep.ID, err)
	}
	return nil
}
