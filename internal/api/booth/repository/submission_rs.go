package boothRepository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"ProjectPhotobooth/internal/entity"
	contextPkg "ProjectPhotobooth/pkg/context"
)

type SubmissionRecordDB struct {
	ID             sql.NullString `db:"id"`
	Name           sql.NullString `db:"name"`
	Email          sql.NullString `db:"email"`
	SourceImageURL sql.NullString `db:"src_image_url"`
	ResultImageURL sql.NullString `db:"trg_image_url"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (r *submissionRepository) CreateRecord(c context.Context, record entity.SubmissionRecord) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":            record.ID,
		"name":          record.Name,
		"email":         record.Email,
		"src_image_url": record.SourceImageURL,
		"trg_image_url": record.ResultImageURL,
		"created_at":    time.Now(),
	}

	query, args, err := sqlx.Named(queryCreateRecord, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateRecord")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating submission record")
		return err
	}

	return nil
}

func (r *submissionRepository) GetRecords(c context.Context) ([]entity.SubmissionRecord, error) {
	requestID := contextPkg.GetRequestID(c)
	var rows []SubmissionRecordDB

	if err := r.q.SelectContext(c, &rows, r.q.Rebind(queryGetRecords)); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRecords execution err")
		return nil, err
	}

	records := make([]entity.SubmissionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, r.makeSubmissionRecord(row))
	}

	return records, nil
}

func (r *submissionRepository) makeSubmissionRecord(row SubmissionRecordDB) entity.SubmissionRecord {
	return entity.SubmissionRecord{
		ID:             row.ID.String,
		Name:           row.Name.String,
		Email:          row.Email.String,
		SourceImageURL: row.SourceImageURL.String,
		ResultImageURL: row.ResultImageURL.String,
		CreatedAt:      row.CreatedAt,
	}
}
