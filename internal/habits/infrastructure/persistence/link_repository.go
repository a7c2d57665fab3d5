package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const linkColumns = `habit_id, activity_id, weight, created_at, updated_at`

// LinkRepository implements domain.LinkRepository on habit_activity_links.
type LinkRepository struct {
	sqlStore
}

func NewLinkRepository(conn database.Connection) *LinkRepository {
	return &LinkRepository{sqlStore{conn: conn}}
}

// Upsert relies on the (habit_id, activity_id) primary key so a pair never
// has two rows.
func (r *LinkRepository) Upsert(ctx context.Context, link *domain.Link) (bool, error) {
	if err := domain.ValidateWeight(link.Weight()); err != nil {
		return false, err
	}

	exec := r.exec(ctx)
	var existing int
	if err := exec.QueryRow(ctx,
		r.q(`SELECT COUNT(*) FROM habit_activity_links WHERE habit_id = ? AND activity_id = ?`),
		link.HabitID().String(), link.ActivityID().String(),
	).Scan(&existing); err != nil {
		return false, err
	}

	_, err := exec.Exec(ctx, r.q(`
		INSERT INTO habit_activity_links (`+linkColumns+`)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (habit_id, activity_id) DO UPDATE SET
			weight = excluded.weight,
			updated_at = excluded.updated_at`),
		link.HabitID().String(),
		link.ActivityID().String(),
		link.Weight(),
		database.FormatTimestamp(link.CreatedAt()),
		database.FormatTimestamp(link.UpdatedAt()),
	)
	if err != nil {
		return false, fmt.Errorf("upsert link %s/%s: %w", link.HabitID(), link.ActivityID(), err)
	}
	return existing == 0, nil
}

func (r *LinkRepository) Find(ctx context.Context, habitID, activityID uuid.UUID) (*domain.Link, error) {
	row := r.exec(ctx).QueryRow(ctx,
		r.q(`SELECT `+linkColumns+` FROM habit_activity_links WHERE habit_id = ? AND activity_id = ?`),
		habitID.String(), activityID.String(),
	)
	link, err := scanLink(row)
	if err != nil {
		return nil, database.NoRowsAs(err, domain.ErrLinkNotFound)
	}
	return link, nil
}

func (r *LinkRepository) Delete(ctx context.Context, habitID, activityID uuid.UUID) error {
	res, err := r.exec(ctx).Exec(ctx,
		r.q(`DELETE FROM habit_activity_links WHERE habit_id = ? AND activity_id = ?`),
		habitID.String(), activityID.String(),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrLinkNotFound
	}
	return nil
}

// FindByActivity returns the activity's links, heaviest first.
func (r *LinkRepository) FindByActivity(ctx context.Context, activityID uuid.UUID) ([]*domain.Link, error) {
	return r.list(ctx, `SELECT `+linkColumns+` FROM habit_activity_links
		WHERE activity_id = ? ORDER BY weight DESC, created_at`, activityID.String())
}

func (r *LinkRepository) FindByHabit(ctx context.Context, habitID uuid.UUID) ([]*domain.Link, error) {
	return r.list(ctx, `SELECT `+linkColumns+` FROM habit_activity_links
		WHERE habit_id = ? ORDER BY weight DESC, created_at`, habitID.String())
}

func (r *LinkRepository) FindByActivities(ctx context.Context, activityIDs []uuid.UUID) ([]*domain.Link, error) {
	if len(activityIDs) == 0 {
		return nil, nil
	}
	predicate, args := r.in("activity_id", activityIDs)
	return r.list(ctx, `SELECT `+linkColumns+` FROM habit_activity_links
		WHERE `+predicate+` ORDER BY activity_id, weight DESC`, args...)
}

func (r *LinkRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Link, error) {
	rows, err := r.exec(ctx).Query(ctx, r.q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*domain.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func scanLink(row database.Row) (*domain.Link, error) {
	var (
		habitID, activityID  string
		weight               float64
		createdAt, updatedAt string
	)
	if err := row.Scan(&habitID, &activityID, &weight, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	h, err := parseID(habitID, "habit")
	if err != nil {
		return nil, err
	}
	a, err := parseID(activityID, "activity")
	if err != nil {
		return nil, err
	}
	created, updated, err := parseTimestamps(createdAt, updatedAt)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateLink(h, a, weight, created, updated), nil
}
