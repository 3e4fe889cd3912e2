package storage

import (
	"discovery/internal/domain/reviews"
	"discovery/internal/domain/targets"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Container struct {
	pool    *pgxpool.Pool
	Reviews reviews.Store
	Targets targets.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		pool:    db,
		Reviews: reviews.NewRepository(db),
		Targets: targets.NewRepository(db),
	}
}

// Pool exposes the shared pool for health checks and pool stats.
func (c *Container) Pool() *pgxpool.Pool {
	return c.pool
}
