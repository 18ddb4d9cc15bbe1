package catalog

import (
	"context"
	"errors"

	"studioops/internal/domain"
	"studioops/internal/repository"
)

var ErrNotFound = errors.New("not found")

type StudioLister interface {
	GetByID(ctx context.Context, id int64) (*domain.Studio, error)
}

type RoomLister interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	ListByStudio(ctx context.Context, studioID int64) ([]domain.Room, error)
}

type EquipmentLister interface {
	ListByRoom(ctx context.Context, roomID int64) ([]domain.Equipment, error)
}

type StaffLister interface {
	ListByStudio(ctx context.Context, studioID int64) ([]domain.Staff, error)
}

type Service struct {
	studios   StudioLister
	rooms     RoomLister
	equipment EquipmentLister
	staff     StaffLister
}

func NewService(studios StudioLister, rooms RoomLister, equipment EquipmentLister, staff StaffLister) *Service {
	return &Service{studios: studios, rooms: rooms, equipment: equipment, staff: staff}
}

func (s *Service) ListRooms(ctx context.Context, studioID int64) ([]domain.Room, error) {
	if _, err := s.studios.GetByID(ctx, studioID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.rooms.ListByStudio(ctx, studioID)
}

func (s *Service) ListStaff(ctx context.Context, studioID int64) ([]domain.Staff, error) {
	if _, err := s.studios.GetByID(ctx, studioID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.staff.ListByStudio(ctx, studioID)
}

func (s *Service) ListRoomEquipment(ctx context.Context, roomID int64) ([]domain.Equipment, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.equipment.ListByRoom(ctx, roomID)
}
