package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sanitation-service/internal/domain"
)

// ComplaintFilter scopes complaint listings.
type ComplaintFilter struct {
	CreatedBy *string
	Limit     int
}

// ComplaintRepository manages persistence for complaints.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListDetailed(ctx context.Context, filter ComplaintFilter) ([]domain.ComplaintDetail, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository constructs repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (title, description, image_url, category, priority, severity_score,
            longitude, latitude, status, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.Title,
		complaint.Description,
		complaint.ImageURL,
		complaint.Category,
		complaint.Priority,
		complaint.SeverityScore,
		complaint.Longitude,
		complaint.Latitude,
		complaint.Status,
		complaint.CreatedBy,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET status=$1, assigned_team=$2, assigned_by=$3, resolved_by=$4,
            proof_image_url=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.Status,
		complaint.AssignedTeam,
		complaint.AssignedBy,
		complaint.ResolvedBy,
		complaint.ProofImageURL,
		complaint.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	const query = `
        SELECT id, title, description, image_url, category, priority, severity_score,
            longitude, latitude, status, assigned_team, assigned_by, resolved_by,
            proof_image_url, created_by, created_at, updated_at
        FROM complaints WHERE id=$1`
	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&complaint.ID,
		&complaint.Title,
		&complaint.Description,
		&complaint.ImageURL,
		&complaint.Category,
		&complaint.Priority,
		&complaint.SeverityScore,
		&complaint.Longitude,
		&complaint.Latitude,
		&complaint.Status,
		&complaint.AssignedTeam,
		&complaint.AssignedBy,
		&complaint.ResolvedBy,
		&complaint.ProofImageURL,
		&complaint.CreatedBy,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) ListDetailed(ctx context.Context, filter ComplaintFilter) ([]domain.ComplaintDetail, error) {
	query := `
        SELECT c.id, c.title, c.description, c.image_url, c.category, c.priority, c.severity_score,
            c.longitude, c.latitude, c.status, c.assigned_team, c.assigned_by, c.resolved_by,
            c.proof_image_url, c.created_by, c.created_at, c.updated_at,
            cu.id, cu.name, cu.email, cu.role,
            au.id, au.name, au.email, au.role,
            ru.id, ru.name, ru.email, ru.role
        FROM complaints c
        JOIN users cu ON cu.id = c.created_by
        LEFT JOIN users au ON au.id = c.assigned_by
        LEFT JOIN users ru ON ru.id = c.resolved_by`
	args := []any{}
	if filter.CreatedBy != nil {
		query += ` WHERE c.created_by = $1`
		args = append(args, *filter.CreatedBy)
	}
	query += ` ORDER BY c.created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ComplaintDetail
	for rows.Next() {
		var detail domain.ComplaintDetail
		var creator domain.UserRef
		var assignerID, assignerName, assignerEmail, resolverID, resolverName, resolverEmail *string
		var assignerRole, resolverRole *domain.Role
		if err := rows.Scan(
			&detail.ID,
			&detail.Title,
			&detail.Description,
			&detail.ImageURL,
			&detail.Category,
			&detail.Priority,
			&detail.SeverityScore,
			&detail.Longitude,
			&detail.Latitude,
			&detail.Status,
			&detail.AssignedTeam,
			&detail.AssignedBy,
			&detail.ResolvedBy,
			&detail.ProofImageURL,
			&detail.CreatedBy,
			&detail.CreatedAt,
			&detail.UpdatedAt,
			&creator.ID,
			&creator.Name,
			&creator.Email,
			&creator.Role,
			&assignerID,
			&assignerName,
			&assignerEmail,
			&assignerRole,
			&resolverID,
			&resolverName,
			&resolverEmail,
			&resolverRole,
		); err != nil {
			return nil, err
		}
		detail.Creator = &creator
		if assignerID != nil {
			detail.Assigner = &domain.UserRef{ID: *assignerID, Name: *assignerName, Email: *assignerEmail, Role: *assignerRole}
		}
		if resolverID != nil {
			detail.Resolver = &domain.UserRef{ID: *resolverID, Name: *resolverName, Email: *resolverEmail, Role: *resolverRole}
		}
		result = append(result, detail)
	}
	return result, rows.Err()
}
