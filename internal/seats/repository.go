package seats

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Repository interface {
	// Seat rows
	CreateSeats(ctx context.Context, seatList []Seat) error
	GetByID(ctx context.Context, id uuid.UUID) (*Seat, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Seat, error)
	GetByVenueID(ctx context.Context, venueID uuid.UUID) ([]Seat, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Booking state
	BookedSeatIDs(ctx context.Context, occurrenceID uuid.UUID) (map[uuid.UUID]bool, error)

	// Hold state (Redis)
	GetHoldDetails(ctx context.Context, holdID string) (*HoldDetails, error)
	GetUserHoldIDs(ctx context.Context, userID string) ([]string, error)
	IsSeatHeld(ctx context.Context, occurrenceID, seatID string) (bool, error)
	HeldSeatIDs(ctx context.Context, occurrenceID string, seatIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type repository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewRepository(db *gorm.DB, redisClient *redis.Client) Repository {
	return &repository{db: db, redis: redisClient}
}

func (r *repository) CreateSeats(ctx context.Context, seatList []Seat) error {
	if len(seatList) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(seatList, 100).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	var seat Seat
	err := r.db.WithContext(ctx).First(&seat, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Seat, error) {
	var seatList []Seat
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&seatList).Error
	if err != nil {
		return nil, err
	}
	return seatList, nil
}

func (r *repository) GetByVenueID(ctx context.Context, venueID uuid.UUID) ([]Seat, error) {
	var seatList []Seat
	err := r.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("row asc, position asc").
		Find(&seatList).Error
	if err != nil {
		return nil, err
	}
	return seatList, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Seat{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Seat{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// BookedSeatIDs returns the seats already sold for an occurrence. Queried
// through the booking tables directly to avoid a package cycle with bookings.
func (r *repository) BookedSeatIDs(ctx context.Context, occurrenceID uuid.UUID) (map[uuid.UUID]bool, error) {
	var seatIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("booking_items").
		Joins("JOIN bookings ON bookings.id = booking_items.booking_id").
		Where("booking_items.occurrence_id = ? AND booking_items.seat_id IS NOT NULL", occurrenceID).
		Where("bookings.status IN ?", []string{"PENDING", "CONFIRMED"}).
		Pluck("booking_items.seat_id", &seatIDs).Error
	if err != nil {
		return nil, err
	}

	booked := make(map[uuid.UUID]bool, len(seatIDs))
	for _, id := range seatIDs {
		booked[id] = true
	}
	return booked, nil
}

func (r *repository) GetHoldDetails(ctx context.Context, holdID string) (*HoldDetails, error) {
	if r.redis == nil {
		return nil, fmt.Errorf("redis client not available")
	}

	metaKey := "dexotix:seats:holdmeta:" + holdID
	meta, err := r.redis.HGetAll(ctx, metaKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get hold metadata: %w", err)
	}
	if len(meta) == 0 {
		return nil, fmt.Errorf("hold not found: %s", holdID)
	}

	seatIDs, err := r.redis.SMembers(ctx, "dexotix:seats:holdseats:"+holdID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get held seats: %w", err)
	}

	ttl, err := r.redis.TTL(ctx, metaKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get hold TTL: %w", err)
	}

	return &HoldDetails{
		HoldID:       holdID,
		UserID:       meta["user_id"],
		OccurrenceID: meta["occurrence_id"],
		SeatIDs:      seatIDs,
		TTL:          int(ttl.Seconds()),
	}, nil
}

func (r *repository) GetUserHoldIDs(ctx context.Context, userID string) ([]string, error) {
	if r.redis == nil {
		return nil, fmt.Errorf("redis client not available")
	}
	return r.redis.SMembers(ctx, "dexotix:seats:userholds:"+userID).Result()
}

func (r *repository) IsSeatHeld(ctx context.Context, occurrenceID, seatID string) (bool, error) {
	if r.redis == nil {
		return false, nil
	}
	count, err := r.redis.Exists(ctx, "dexotix:seats:hold:"+occurrenceID+":"+seatID).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) HeldSeatIDs(ctx context.Context, occurrenceID string, seatIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	held := make(map[uuid.UUID]bool, len(seatIDs))
	if r.redis == nil || len(seatIDs) == 0 {
		return held, nil
	}

	pipe := r.redis.Pipeline()
	cmds := make(map[uuid.UUID]*redis.IntCmd, len(seatIDs))
	for _, id := range seatIDs {
		cmds[id] = pipe.Exists(ctx, "dexotix:seats:hold:"+occurrenceID+":"+id.String())
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to check held seats: %w", err)
	}

	for id, cmd := range cmds {
		held[id] = cmd.Val() > 0
	}
	return held, nil
}
