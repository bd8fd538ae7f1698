package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-sched-api/internal/models"
	appErrors "github.com/noah-isme/campus-sched-api/pkg/errors"
)

type roomLister interface {
	List(ctx context.Context, filter models.RoomFilter) ([]models.Room, int, error)
}

type teacherLister interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
}

// MasterDataService serves the read-only master-data listings.
type MasterDataService struct {
	rooms     roomLister
	teachers  teacherLister
	timeslots timeslotFetcher
	logger    *zap.Logger
}

// NewMasterDataService wires master-data dependencies.
func NewMasterDataService(rooms roomLister, teachers teacherLister, timeslots timeslotFetcher, logger *zap.Logger) *MasterDataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MasterDataService{rooms: rooms, teachers: teachers, timeslots: timeslots, logger: logger}
}

// ListRooms returns rooms with pagination metadata.
func (s *MasterDataService) ListRooms(ctx context.Context, filter models.RoomFilter) ([]models.Room, *models.Pagination, error) {
	rooms, total, err := s.rooms.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// ListTeachers returns teachers with pagination metadata.
func (s *MasterDataService) ListTeachers(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	teachers, total, err := s.teachers.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return teachers, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// ListTimeslots returns every timeslot in grid order.
func (s *MasterDataService) ListTimeslots(ctx context.Context) ([]models.Timeslot, error) {
	slots, err := s.timeslots.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timeslots")
	}
	return slots, nil
}
