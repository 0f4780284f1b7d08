package sqlite

import (
	"context"

	"github.com/sharedwealth/memberhub/internal/member/domain"
)

type organizationsRepo struct {
	q querier
}

func (r *organizationsRepo) GetOrganizationByID(ctx context.Context, id string) (domain.Organization, error) {
	var o domain.Organization
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM organizations WHERE id = ?`, id).
		Scan(&o.ID, &o.Name, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Organization{}, mapNotFound(err)
	}
	return o, nil
}

func (r *organizationsRepo) CreateOrganization(ctx context.Context, o domain.Organization) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO organizations (id, name, created_at, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		o.ID, o.Name,
	)
	return mapConstraint(err)
}

func (r *organizationsRepo) CreateMembership(ctx context.Context, m domain.Membership) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO memberships (id, user_id, organization_id, created_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		m.ID, m.UserID, m.OrganizationID,
	)
	return mapConstraint(err)
}
