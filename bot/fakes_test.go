package bot

import (
	"context"
	"flight-status-bot/aeroapi"
	"flight-status-bot/db"
	"flight-status-bot/fr24"
	"flight-status-bot/lookup"
	"time"
)

type fakeStore struct {
	bindings []db.ChatBinding
	flights  []db.TrackedFlight
	nextId   int64
	marked   []int64
	removed  []int64
}

func (s *fakeStore) GetBinding(chatId int64) (db.ChatBinding, error) {
	for _, b := range s.bindings {
		if b.ChatId == chatId {
			return b, nil
		}
	}
	return db.ChatBinding{}, db.ErrNotFound
}

func (s *fakeStore) ListBindings() ([]db.ChatBinding, error) {
	return append([]db.ChatBinding(nil), s.bindings...), nil
}

func (s *fakeStore) SetImportChat(chatId, importChatId int64) error {
	for i := range s.bindings {
		if s.bindings[i].ChatId == chatId {
			s.bindings[i].ImportChatId = &importChatId
			return nil
		}
	}
	s.bindings = append(s.bindings, db.ChatBinding{ChatId: chatId, ImportChatId: &importChatId})
	return nil
}

func (s *fakeStore) SetStatusMessage(chatId, statusChatId int64, statusMessageId int) error {
	for i := range s.bindings {
		if s.bindings[i].ChatId == chatId {
			s.bindings[i].StatusChatId = &statusChatId
			s.bindings[i].StatusMessageId = &statusMessageId
			return nil
		}
	}
	s.bindings = append(s.bindings, db.ChatBinding{
		ChatId:          chatId,
		StatusChatId:    &statusChatId,
		StatusMessageId: &statusMessageId,
	})
	return nil
}

func (s *fakeStore) AddTrackedFlight(f db.TrackedFlight) (bool, error) {
	for _, existing := range s.flights {
		if existing.ChatId == f.ChatId &&
			existing.FlightNumber == f.FlightNumber &&
			existing.FlightDate == f.FlightDate {
			return false, nil
		}
	}
	s.nextId++
	f.Id = s.nextId
	s.flights = append(s.flights, f)
	return true, nil
}

func (s *fakeStore) ListTrackedFlights() ([]db.TrackedFlight, error) {
	return append([]db.TrackedFlight(nil), s.flights...), nil
}

func (s *fakeStore) MarkDepartureNotified(id int64) error {
	for i := range s.flights {
		if s.flights[i].Id == id {
			s.flights[i].DepartureNotified = true
			s.marked = append(s.marked, id)
			return nil
		}
	}
	return db.ErrNotFound
}

func (s *fakeStore) RemoveTrackedFlight(id int64) error {
	kept := s.flights[:0]
	for _, f := range s.flights {
		if f.Id == id {
			s.removed = append(s.removed, id)
			continue
		}
		kept = append(kept, f)
	}
	s.flights = kept
	return nil
}

func (s *fakeStore) RemoveChatFlights(chatId int64) (int64, error) {
	var removed int64
	kept := s.flights[:0]
	for _, f := range s.flights {
		if f.ChatId == chatId {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	s.flights = kept
	return removed, nil
}

type sinkRecord struct {
	chatId  int64
	content string
}

type fakeSink struct {
	posts   []sinkRecord
	edits   []sinkRecord
	deleted []MessageRef
	pinned  []MessageRef
	editErr map[int64]error
	nextId  int
}

func (s *fakeSink) Post(chatId int64, content string) (MessageRef, error) {
	s.nextId++
	s.posts = append(s.posts, sinkRecord{chatId: chatId, content: content})
	return MessageRef{ChatId: chatId, MessageId: s.nextId}, nil
}

func (s *fakeSink) Edit(ref MessageRef, content string) error {
	if err := s.editErr[ref.ChatId]; err != nil {
		return err
	}
	s.edits = append(s.edits, sinkRecord{chatId: ref.ChatId, content: content})
	return nil
}

func (s *fakeSink) Delete(ref MessageRef) error {
	s.deleted = append(s.deleted, ref)
	return nil
}

func (s *fakeSink) Pin(ref MessageRef) error {
	s.pinned = append(s.pinned, ref)
	return nil
}

type fakeResolver struct {
	flights map[string]aeroapi.Flight
}

func resolveKey(flightNumber, localDate string) string {
	return flightNumber + "|" + localDate
}

// Resolve mirrors the production contract: a landed instance is invisible
// to the publisher path.
func (r *fakeResolver) Resolve(_ context.Context, flightNumber, localDate string) (aeroapi.Flight, error) {
	f, ok := r.flights[resolveKey(flightNumber, localDate)]
	if !ok || f.ActualOn != nil {
		return aeroapi.Flight{}, aeroapi.ErrNotFound
	}
	return f, nil
}

func (r *fakeResolver) ResolveAny(_ context.Context, flightNumber, localDate string) (aeroapi.Flight, error) {
	if f, ok := r.flights[resolveKey(flightNumber, localDate)]; ok {
		return f, nil
	}
	return aeroapi.Flight{}, aeroapi.ErrNotFound
}

type fakeSchedule struct {
	legs []fr24.Leg
	err  error
}

func (s *fakeSchedule) FetchLegs(context.Context) ([]fr24.Leg, error) {
	return s.legs, s.err
}

type nopLock struct{}

func (nopLock) Lock() error           { return nil }
func (nopLock) Unlock() (bool, error) { return true, nil }

type nopLocker struct{}

func (nopLocker) Flight(int64) Lock     { return nopLock{} }
func (nopLocker) StatusChat(int64) Lock { return nopLock{} }

var testNow = time.Date(2025, time.March, 10, 6, 0, 0, 0, time.UTC)

func newTestService(store *fakeStore, sink *fakeSink, resolver *fakeResolver, schedule *fakeSchedule) *Service {
	lookups := &lookup.Set{
		Airports: lookup.Table{"LAX": "Los Angeles International Airport"},
		Airlines: lookup.Table{"DL": "Delta Air Lines"},
		Aircraft: lookup.Table{"B739": "Boeing 737-900"},
	}
	s := NewService(schedule, resolver, store, nopLocker{}, lookups, sink, time.UTC, Config{
		ImportInterval:    Duration(time.Hour),
		MilestoneInterval: Duration(time.Minute),
		StatusInterval:    Duration(time.Minute),
		MilestoneTTL:      Duration(time.Hour),
	})
	s.now = func() time.Time { return testNow }
	return s
}

func timePtr(t time.Time) *time.Time { return &t }
