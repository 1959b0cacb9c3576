package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/charlieverse/platform/internal/core/domain"
)

// Store implements the persistence gateway on a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return s.pool.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const userColumns = `id, email, password_hash, first_name, last_name, phone, company, bio,
	profile_picture, role, firebase_uid, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone,
		&u.Company, &u.Bio, &u.ProfilePicture, &u.Role, &u.FirebaseUID, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ── Users ─────────────────────────────────────────────────────────────────────

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	u := *user
	u.ID = uuid.NewString()
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	u.IsActive = true
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name, phone, company,
			bio, profile_picture, role, firebase_uid, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.Company,
		u.Bio, u.ProfilePicture, u.Role, u.FirebaseUID, u.IsActive, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	// COALESCE keeps columns whose patch field is nil.
	row := s.pool.QueryRow(ctx, `
		UPDATE users SET
			password_hash = COALESCE($2, password_hash),
			first_name    = COALESCE($3, first_name),
			last_name     = COALESCE($4, last_name),
			phone         = COALESCE($5, phone),
			company       = COALESCE($6, company),
			bio           = COALESCE($7, bio),
			role          = COALESCE($8, role),
			firebase_uid  = COALESCE($9, firebase_uid),
			is_active     = COALESCE($10, is_active),
			updated_at    = $11
		WHERE id = $1
		RETURNING `+userColumns,
		id, patch.PasswordHash, patch.FirstName, patch.LastName, patch.Phone, patch.Company,
		patch.Bio, patch.Role, patch.FirebaseUID, patch.IsActive, time.Now().UTC())
	return scanUser(row)
}

func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// ── Projects ──────────────────────────────────────────────────────────────────

const projectColumns = `id, user_id, title, description, project_type, budget, timeline,
	status, priority, contact_method, estimated_cost, actual_cost, start_date, end_date,
	completed_at, created_at, updated_at`

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.ProjectType, &p.Budget,
		&p.Timeline, &p.Status, &p.Priority, &p.ContactMethod, &p.EstimatedCost,
		&p.ActualCost, &p.StartDate, &p.EndDate, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	p := *project
	p.ID = uuid.NewString()
	if p.Status == "" {
		p.Status = domain.StatusPending
	}
	if p.Priority == "" {
		p.Priority = domain.PriorityMedium
	}
	if p.ContactMethod == "" {
		p.ContactMethod = "email"
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.pool.Exec(ctx, `
		INSERT INTO projects (id, user_id, title, description, project_type, budget, timeline,
			status, priority, contact_method, estimated_cost, actual_cost, start_date,
			end_date, completed_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		p.ID, p.UserID, p.Title, p.Description, p.ProjectType, p.Budget, p.Timeline,
		p.Status, p.Priority, p.ContactMethod, p.EstimatedCost, p.ActualCost, p.StartDate,
		p.EndDate, p.CompletedAt, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

func (s *Store) ListProjectsByOwner(ctx context.Context, userID string) ([]*domain.Project, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectProjects(rows)
}

func (s *Store) ListAllProjects(ctx context.Context) ([]*domain.Project, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectProjects(rows)
}

func collectProjects(rows pgx.Rows) ([]*domain.Project, error) {
	defer rows.Close()
	var out []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpdateProjectStatus(ctx context.Context, id string, status domain.ProjectStatus, patch domain.ProjectPatch) (*domain.Project, error) {
	now := time.Now().UTC()
	var completedAt *time.Time
	if status == domain.StatusCompleted {
		completedAt = &now
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE projects SET
			status         = $2,
			completed_at   = COALESCE($3, completed_at),
			estimated_cost = COALESCE($4, estimated_cost),
			actual_cost    = COALESCE($5, actual_cost),
			start_date     = COALESCE($6, start_date),
			end_date       = COALESCE($7, end_date),
			updated_at     = $8
		WHERE id = $1
		RETURNING `+projectColumns,
		id, status, completedAt, patch.EstimatedCost, patch.ActualCost,
		patch.StartDate, patch.EndDate, now)
	return scanProject(row)
}

func (s *Store) AddProjectUpdate(ctx context.Context, update *domain.ProjectUpdate) (*domain.ProjectUpdate, error) {
	u := *update
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO project_updates (id, project_id, user_id, title, description, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.ProjectID, u.UserID, u.Title, u.Description, u.Status, u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) ListProjectUpdates(ctx context.Context, projectID string) ([]*domain.ProjectUpdate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, project_id, user_id, title, description, status, created_at
		FROM project_updates WHERE project_id = $1 ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ProjectUpdate
	for rows.Next() {
		var u domain.ProjectUpdate
		if err := rows.Scan(&u.ID, &u.ProjectID, &u.UserID, &u.Title, &u.Description,
			&u.Status, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

// ── Contact messages ──────────────────────────────────────────────────────────

const contactColumns = `id, name, email, phone, project_type, message, status, admin_notes,
	replied_at, created_at`

func scanContact(row pgx.Row) (*domain.ContactMessage, error) {
	var m domain.ContactMessage
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.ProjectType, &m.Message,
		&m.Status, &m.AdminNotes, &m.RepliedAt, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrContactNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *Store) CreateContactMessage(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	m := *msg
	m.ID = uuid.NewString()
	if m.Status == "" {
		m.Status = domain.ContactNew
	}
	m.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO contact_messages (id, name, email, phone, project_type, message, status,
			admin_notes, replied_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		m.ID, m.Name, m.Email, m.Phone, m.ProjectType, m.Message, m.Status,
		m.AdminNotes, m.RepliedAt, m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) ListContactMessages(ctx context.Context) ([]*domain.ContactMessage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+contactColumns+` FROM contact_messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ContactMessage
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) UpdateContactStatus(ctx context.Context, id string, status domain.ContactStatus, adminNotes string) (*domain.ContactMessage, error) {
	var repliedAt *time.Time
	if status == domain.ContactReplied {
		now := time.Now().UTC()
		repliedAt = &now
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE contact_messages SET
			status      = $2,
			admin_notes = CASE WHEN $3 = '' THEN admin_notes ELSE $3 END,
			replied_at  = COALESCE(replied_at, $4)
		WHERE id = $1
		RETURNING `+contactColumns,
		id, status, adminNotes, repliedAt)
	return scanContact(row)
}
