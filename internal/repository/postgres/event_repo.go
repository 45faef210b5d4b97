package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"socialevents/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (owner_id, title, description, location, date, image_ref, audience, max_attendees, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var imageRef sql.NullString
	if e.ImageRef != nil {
		imageRef = sql.NullString{String: *e.ImageRef, Valid: true}
	}
	var maxAttendees sql.NullInt64
	if e.MaxAttendees != nil {
		maxAttendees = sql.NullInt64{Int64: int64(*e.MaxAttendees), Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		e.OwnerID, e.Title, e.Description, e.Location, e.Date,
		imageRef, e.Audience, maxAttendees, e.CreatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, owner_id, title, description, location, date, image_ref, audience, max_attendees, interested_count, created_at
		FROM events
		WHERE id = $1
	`
	e := &domain.Event{}
	var imageRef sql.NullString
	var maxAttendees sql.NullInt64
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.OwnerID, &e.Title, &e.Description, &e.Location, &e.Date,
		&imageRef, &e.Audience, &maxAttendees, &e.InterestedCount, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if imageRef.Valid {
		e.ImageRef = &imageRef.String
	}
	if maxAttendees.Valid {
		v := int(maxAttendees.Int64)
		e.MaxAttendees = &v
	}
	return e, nil
}

// enrichedSelect joins events with the organizer row and derives attendee and
// comment counts per event; interested_count comes from the cached column.
const enrichedSelect = `
	SELECT e.id, e.owner_id, e.title, e.description, e.location, e.date, e.image_ref,
	       e.audience, e.max_attendees, e.interested_count, e.created_at,
	       u.name, u.avatar,
	       (SELECT COUNT(*) FROM event_attendees a WHERE a.event_id = e.id) AS attendee_count,
	       (SELECT COUNT(*) FROM event_comments c WHERE c.event_id = e.id) AS comment_count
	FROM events e
	JOIN users u ON u.id = e.owner_id
`

func scanEnriched(rows interface {
	Scan(dest ...interface{}) error
}) (*domain.EnrichedEvent, error) {
	e := &domain.EnrichedEvent{}
	var imageRef, avatar sql.NullString
	var maxAttendees sql.NullInt64
	err := rows.Scan(
		&e.ID, &e.OwnerID, &e.Title, &e.Description, &e.Location, &e.Date,
		&imageRef, &e.Audience, &maxAttendees, &e.InterestedCount, &e.CreatedAt,
		&e.Organizer.Name, &avatar, &e.AttendeeCount, &e.CommentCount,
	)
	if err != nil {
		return nil, err
	}
	e.Organizer.ID = e.OwnerID
	if imageRef.Valid {
		e.ImageRef = &imageRef.String
	}
	if maxAttendees.Valid {
		v := int(maxAttendees.Int64)
		e.MaxAttendees = &v
	}
	if avatar.Valid {
		e.Organizer.Avatar = &avatar.String
	}
	return e, nil
}

// escapeLike escapes LIKE wildcards so search text is matched literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func (r *eventRepository) ListVisible(ctx context.Context, filter domain.EventFilter) ([]*domain.EnrichedEvent, error) {
	var clauses []string
	args := []interface{}{}
	n := 1

	// The visibility predicate is one of a fixed set of parameterized clauses
	// selected by scope; search text only ever travels as a bind argument.
	switch filter.Scope {
	case domain.ScopeAnonymous:
		clauses = append(clauses, `e.audience = 'public'`)
	case domain.ScopeViewer:
		clauses = append(clauses, fmt.Sprintf(
			`(e.audience = 'public' OR e.owner_id = $%d OR (e.audience = 'friends' AND e.owner_id = ANY($%d::uuid[])))`, n, n+1))
		args = append(args, filter.ViewerID, pq.Array(filter.FriendIDs))
		n += 2
	case domain.ScopeFriends:
		clauses = append(clauses, fmt.Sprintf(
			`(e.owner_id = ANY($%d::uuid[]) OR e.owner_id = $%d)`, n, n+1))
		args = append(args, pq.Array(filter.FriendIDs), filter.ViewerID)
		n += 2
	default:
		return nil, fmt.Errorf("unknown visibility scope %d", filter.Scope)
	}

	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		clauses = append(clauses, fmt.Sprintf(
			`(e.title ILIKE $%d OR e.description ILIKE $%d OR e.location ILIKE $%d OR e.date ILIKE $%d)`, n, n, n, n))
		args = append(args, pattern)
		n++
	}

	query := enrichedSelect + `
	WHERE ` + strings.Join(clauses, " AND ") + `
	ORDER BY e.date ASC, e.id ASC
	`
	return r.queryEnriched(ctx, query, args...)
}

func (r *eventRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.EnrichedEvent, error) {
	query := enrichedSelect + `
	WHERE e.owner_id = $1
	ORDER BY e.date DESC, e.id DESC
	`
	return r.queryEnriched(ctx, query, ownerID)
}

func (r *eventRepository) queryEnriched(ctx context.Context, query string, args ...interface{}) ([]*domain.EnrichedEvent, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.EnrichedEvent, 0)
	for rows.Next() {
		e, err := scanEnriched(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) GetEnrichedByID(ctx context.Context, id string) (*domain.EnrichedEvent, error) {
	query := enrichedSelect + `
	WHERE e.id = $1
	`
	e, err := scanEnriched(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
