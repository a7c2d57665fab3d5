package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const activityColumns = `id, user_id, name, description, created_at, updated_at`

// ActivityRepository implements domain.ActivityRepository.
type ActivityRepository struct {
	sqlStore
}

func NewActivityRepository(conn database.Connection) *ActivityRepository {
	return &ActivityRepository{sqlStore{conn: conn}}
}

func (r *ActivityRepository) Save(ctx context.Context, a *domain.Activity) error {
	_, err := r.exec(ctx).Exec(ctx, r.q(`
		INSERT INTO activities (`+activityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			updated_at = excluded.updated_at`),
		a.ID().String(),
		a.UserID().String(),
		a.Name(),
		a.Description(),
		database.FormatTimestamp(a.CreatedAt()),
		database.FormatTimestamp(a.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("save activity %s: %w", a.ID(), err)
	}
	return nil
}

func (r *ActivityRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	row := r.exec(ctx).QueryRow(ctx, r.q(`SELECT `+activityColumns+` FROM activities WHERE id = ?`), id.String())
	a, err := scanActivity(row)
	if err != nil {
		return nil, database.NoRowsAs(err, domain.ErrActivityNotFound)
	}
	return a, nil
}

// FindByUserID returns activities sorted by name.
func (r *ActivityRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Activity, error) {
	rows, err := r.exec(ctx).Query(ctx,
		r.q(`SELECT `+activityColumns+` FROM activities WHERE user_id = ? ORDER BY name, created_at`),
		userID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes the row. Links cascade and sessions keep a NULL activity_id.
func (r *ActivityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.exec(ctx).Exec(ctx, r.q(`DELETE FROM activities WHERE id = ?`), id.String())
	if err != nil {
		return fmt.Errorf("delete activity %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrActivityNotFound
	}
	return nil
}

func scanActivity(row database.Row) (*domain.Activity, error) {
	var id, userID, name, description, createdAt, updatedAt string
	if err := row.Scan(&id, &userID, &name, &description, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	activityID, err := parseID(id, "activity")
	if err != nil {
		return nil, err
	}
	owner, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}
	created, updated, err := parseTimestamps(createdAt, updatedAt)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateActivity(activityID, owner, name, description, created, updated), nil
}
