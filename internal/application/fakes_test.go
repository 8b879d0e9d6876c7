package application

import (
	"context"
	"errors"
	"sync"

	"github.com/levada-tours/service-booking/internal/domain/tour"
	"github.com/levada-tours/service-booking/internal/platform/apperror"
	"github.com/levada-tours/service-booking/internal/platform/kafka"
)

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]tour.Booking
	saveErr  error
}

func newFakeBookingRepo(seed ...tour.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{bookings: map[string]tour.Booking{}}
	for _, b := range seed {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id string) (*tour.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, apperror.NewNotFound("booking", id)
	}
	return &b, nil
}

func (r *fakeBookingRepo) FindByDateRange(_ context.Context, from, to string) ([]tour.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []tour.Booking
	for _, b := range r.bookings {
		if b.Date >= from && b.Date <= to {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindByGuestID(_ context.Context, guestID string) ([]tour.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []tour.Booking
	for _, b := range r.bookings {
		if b.GuestID == guestID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindByVehicle(_ context.Context, vehicleID string) ([]tour.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []tour.Booking
	for _, b := range r.bookings {
		if b.VehicleID == vehicleID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, b *tour.Booking) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = *b
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *tour.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; !ok {
		return apperror.NewNotFound("booking", b.ID)
	}
	r.bookings[b.ID] = *b
	return nil
}

type fakeBlockRepo struct {
	mu     sync.Mutex
	blocks map[string]tour.VehicleBlock
	// failDates makes Save fail for specific dates.
	failDates map[string]bool
}

func newFakeBlockRepo(seed ...tour.VehicleBlock) *fakeBlockRepo {
	r := &fakeBlockRepo{blocks: map[string]tour.VehicleBlock{}}
	for _, bl := range seed {
		r.blocks[bl.ID] = bl
	}
	return r
}

func (r *fakeBlockRepo) FindByDateRange(_ context.Context, from, to string) ([]tour.VehicleBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []tour.VehicleBlock
	for _, bl := range r.blocks {
		if bl.Date >= from && bl.Date <= to {
			out = append(out, bl)
		}
	}
	return out, nil
}

func (r *fakeBlockRepo) FindByVehicle(_ context.Context, vehicleID string) ([]tour.VehicleBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []tour.VehicleBlock
	for _, bl := range r.blocks {
		if bl.VehicleID == vehicleID {
			out = append(out, bl)
		}
	}
	return out, nil
}

func (r *fakeBlockRepo) Save(_ context.Context, bl *tour.VehicleBlock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failDates[bl.Date] {
		return errors.New("simulated save failure")
	}
	for _, existing := range r.blocks {
		if existing.VehicleID == bl.VehicleID && existing.Date == bl.Date {
			return apperror.NewConflict("block already exists")
		}
	}
	r.blocks[bl.ID] = *bl
	return nil
}

func (r *fakeBlockRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blocks[id]; !ok {
		return apperror.NewNotFound("block", id)
	}
	delete(r.blocks, id)
	return nil
}

type fakeVehicleRepo struct {
	mu       sync.Mutex
	vehicles map[string]tour.Vehicle
}

func newFakeVehicleRepo(seed ...tour.Vehicle) *fakeVehicleRepo {
	r := &fakeVehicleRepo{vehicles: map[string]tour.Vehicle{}}
	for _, v := range seed {
		r.vehicles[v.ID] = v
	}
	return r
}

func (r *fakeVehicleRepo) FindByID(_ context.Context, id string) (*tour.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[id]
	if !ok {
		return nil, apperror.NewNotFound("vehicle", id)
	}
	return &v, nil
}

func (r *fakeVehicleRepo) ListActive(_ context.Context) ([]tour.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []tour.Vehicle
	for _, v := range r.vehicles {
		if v.Active {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVehicleRepo) ListAll(_ context.Context) ([]tour.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []tour.Vehicle
	for _, v := range r.vehicles {
		out = append(out, v)
	}
	return out, nil
}

func (r *fakeVehicleRepo) Save(_ context.Context, v *tour.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vehicles[v.ID] = *v
	return nil
}

func (r *fakeVehicleRepo) Update(_ context.Context, v *tour.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vehicles[v.ID]; !ok {
		return apperror.NewNotFound("vehicle", v.ID)
	}
	r.vehicles[v.ID] = *v
	return nil
}

type fakeRateRepo struct {
	mu    sync.Mutex
	rates map[string]tour.Rate
}

func newFakeRateRepo(seed ...tour.Rate) *fakeRateRepo {
	r := &fakeRateRepo{rates: map[string]tour.Rate{}}
	for _, rt := range seed {
		r.rates[rt.ID] = rt
	}
	return r
}

func (r *fakeRateRepo) ListActive(_ context.Context) ([]tour.Rate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []tour.Rate
	for _, rt := range r.rates {
		if rt.Active {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (r *fakeRateRepo) ListAll(_ context.Context) ([]tour.Rate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []tour.Rate
	for _, rt := range r.rates {
		out = append(out, rt)
	}
	return out, nil
}

func (r *fakeRateRepo) Save(_ context.Context, rt *tour.Rate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rates[rt.ID] = *rt
	return nil
}

func (r *fakeRateRepo) Update(_ context.Context, rt *tour.Rate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rates[rt.ID]; !ok {
		return apperror.NewNotFound("rate", rt.ID)
	}
	r.rates[rt.ID] = *rt
	return nil
}

type publishedEvent struct {
	Topic string
	Key   string
	Event kafka.CloudEvent
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic, key string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

func (p *fakePublisher) byType(eventType string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.Event.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
