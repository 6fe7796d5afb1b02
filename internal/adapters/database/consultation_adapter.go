package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/careloop/symptom-intake/internal/domain/entities"
	"github.com/careloop/symptom-intake/internal/domain/repositories"
	"github.com/careloop/symptom-intake/internal/infrastructure/clients/postgres"
	apperrors "github.com/careloop/symptom-intake/pkg/errors"
)

// ConsultationAdapter implements consultation persistence in Postgres.
// The advice payload is stored as a JSON document; recovery fields
// live in dedicated columns so staleness scans stay cheap.
type ConsultationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewConsultationAdapter creates a new consultation adapter.
func NewConsultationAdapter(client *postgres.Client) repositories.ConsultationRepository {
	return &ConsultationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a consultation record.
func (a *ConsultationAdapter) Create(ctx context.Context, consultation *entities.Consultation) error {
	if consultation == nil {
		return apperrors.NewInternalError("consultation is nil", fmt.Errorf("consultation is nil"))
	}

	adviceJSON, err := json.Marshal(consultation.Advice)
	if err != nil {
		return apperrors.NewInternalError("failed to encode advice", err)
	}

	record := goqu.Record{
		"id":         consultation.ID,
		"device_id":  consultation.DeviceID,
		"symptoms":   consultation.Symptoms,
		"illness":    sql.NullString{String: consultation.Illness, Valid: consultation.Illness != ""},
		"advice":     adviceJSON,
		"confidence": consultation.Confidence,
		"severity":   string(consultation.Severity),
		"location":   sql.NullString{String: consultation.Location, Valid: consultation.Location != ""},
		"created_at": consultation.CreatedAt,
		"updated_at": consultation.UpdatedAt,
	}

	query, args, err := a.db.Insert("consultations").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build consultation insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create consultation", err)
	}

	return nil
}

// GetByID loads one consultation.
func (a *ConsultationAdapter) GetByID(ctx context.Context, id string) (*entities.Consultation, error) {
	query, args, err := a.selectQuery().Where(goqu.C("id").Eq(id)).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build consultation select query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	consultation, err := scanConsultation(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("consultation not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load consultation", err)
	}
	return consultation, nil
}

// ListByDevice returns a device's consultation history, newest first.
func (a *ConsultationAdapter) ListByDevice(ctx context.Context, deviceID string, filter repositories.ConsultationFilter) ([]*entities.Consultation, error) {
	q := a.selectQuery().
		Where(goqu.C("device_id").Eq(deviceID)).
		Order(goqu.C("created_at").Desc())

	if filter.Limit > 0 {
		q = q.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint(filter.Offset))
	}

	query, args, err := q.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build consultation list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list consultations", err)
	}
	defer rows.Close()

	var consultations []*entities.Consultation
	for rows.Next() {
		consultation, err := scanConsultation(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan consultation", err)
		}
		consultations = append(consultations, consultation)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate consultations", err)
	}

	return consultations, nil
}

// UpdateRecovery writes the recovery sub-document back by id.
func (a *ConsultationAdapter) UpdateRecovery(ctx context.Context, id string, recovery entities.RecoveryStatus) error {
	record := goqu.Record{
		"recovery_is_resolved":        nullBool(recovery.IsResolved),
		"recovery_notes":              sql.NullString{String: recovery.RecoveryNotes, Valid: recovery.RecoveryNotes != ""},
		"recovery_follow_up_required": nullBool(recovery.FollowUpRequired),
		"recovery_resolved_at":        nullTime(recovery.ResolvedAt),
		"updated_at":                  time.Now().UTC(),
	}

	query, args, err := a.db.Update("consultations").Set(record).Where(goqu.C("id").Eq(id)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build recovery update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update recovery status", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFoundError("consultation not found")
	}

	return nil
}

func (a *ConsultationAdapter) selectQuery() *goqu.SelectDataset {
	return a.db.From("consultations").Select(
		"id", "device_id", "symptoms", "illness", "advice", "confidence",
		"severity", "location", "recovery_is_resolved", "recovery_notes",
		"recovery_follow_up_required", "recovery_resolved_at",
		"created_at", "updated_at",
	)
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConsultation(row rowScanner) (*entities.Consultation, error) {
	var (
		consultation     entities.Consultation
		illness          sql.NullString
		adviceJSON       []byte
		location         sql.NullString
		isResolved       sql.NullBool
		notes            sql.NullString
		followUpRequired sql.NullBool
		resolvedAt       sql.NullTime
	)

	err := row.Scan(
		&consultation.ID,
		&consultation.DeviceID,
		&consultation.Symptoms,
		&illness,
		&adviceJSON,
		&consultation.Confidence,
		&consultation.Severity,
		&location,
		&isResolved,
		&notes,
		&followUpRequired,
		&resolvedAt,
		&consultation.CreatedAt,
		&consultation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	consultation.Illness = illness.String
	consultation.Location = location.String
	consultation.Recovery.RecoveryNotes = notes.String
	if isResolved.Valid {
		consultation.Recovery.IsResolved = &isResolved.Bool
	}
	if followUpRequired.Valid {
		consultation.Recovery.FollowUpRequired = &followUpRequired.Bool
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		consultation.Recovery.ResolvedAt = &t
	}
	if len(adviceJSON) > 0 {
		var advice entities.Advice
		if err := json.Unmarshal(adviceJSON, &advice); err == nil {
			consultation.Advice = &advice
		}
	}

	return &consultation, nil
}
