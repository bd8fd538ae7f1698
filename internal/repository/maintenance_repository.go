package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-sched-api/internal/models"
)

// MaintenanceRepository reads room maintenance blocks.
type MaintenanceRepository struct {
	db *sqlx.DB
}

// NewMaintenanceRepository constructs a MaintenanceRepository.
func NewMaintenanceRepository(db *sqlx.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// ListAll returns every maintenance block.
func (r *MaintenanceRepository) ListAll(ctx context.Context) ([]models.RoomMaintenanceBlock, error) {
	const query = `SELECT id, room_id, start_datetime, end_datetime, reason
		FROM room_maintenance_blocks ORDER BY room_id, start_datetime`
	var blocks []models.RoomMaintenanceBlock
	if err := r.db.SelectContext(ctx, &blocks, query); err != nil {
		return nil, fmt.Errorf("list maintenance blocks: %w", err)
	}
	return blocks, nil
}
