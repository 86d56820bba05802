package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/eventhub-be/internal/database"
	"github.com/isdelr/eventhub-be/internal/models"
)

// EventNotifier receives a notification after every successful event
// mutation. The websocket hub implements it; a nil notifier disables the
// feed.
type EventNotifier interface {
	NotifyEvent(action string, payload interface{})
}

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(p EventCreate) (models.Event, error)
	GetEvents() ([]models.Event, error)
	GetEventByID(id int64) (models.Event, error)
	UpdateEvent(id int64, upd EventUpdate) (models.Event, error)
	DeleteEvent(id int64) error
}

// EventCreate carries the fields for a new event. UserID is the
// authenticated caller, bound by the handler.
type EventCreate struct {
	Title       string
	Description string
	Location    string
	Date        time.Time
	UserID      int64
}

// EventUpdate carries the optional fields of a partial event update. A nil
// pointer leaves the stored value untouched.
type EventUpdate struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	Date        *time.Time `json:"date"`
}

// EventService provides business logic for event management.
type EventService struct {
	db       *sql.DB
	notifier EventNotifier
}

// NewEventService creates a new EventService. notifier may be nil.
func NewEventService(db *sql.DB, notifier EventNotifier) *EventService {
	return &EventService{db: db, notifier: notifier}
}

// CreateEvent persists a new event. Ownership must reference an existing
// user; the foreign key constraint is the enforcement.
func (s *EventService) CreateEvent(p EventCreate) (models.Event, error) {
	if p.Title == "" || p.Date.IsZero() || p.UserID == 0 {
		return models.Event{}, NewValidationError("missing required fields: title, date or userId")
	}

	res, err := s.db.Exec(
		"INSERT INTO events (title, description, location, date, user_id) VALUES (?, ?, ?, ?, ?)",
		p.Title, p.Description, p.Location, p.Date.UTC(), p.UserID)
	if err != nil {
		if errors.Is(database.MapError(err), database.ErrForeignKey) {
			return models.Event{}, NewValidationError("user does not exist")
		}
		return models.Event{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Event{}, err
	}
	event, err := s.GetEventByID(id)
	if err != nil {
		return models.Event{}, err
	}
	s.notify("event.created", event)
	return event, nil
}

// GetEvents returns all events, unfiltered.
func (s *EventService) GetEvents() ([]models.Event, error) {
	rows, err := s.db.Query("SELECT id, title, description, location, date, user_id, created_at FROM events ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Title, &event.Description, &event.Location, &event.Date, &event.UserID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// GetEventByID retrieves a single event. Returns database.ErrNotFound when
// no record matches.
func (s *EventService) GetEventByID(id int64) (models.Event, error) {
	var event models.Event
	row := s.db.QueryRow("SELECT id, title, description, location, date, user_id, created_at FROM events WHERE id = ?", id)
	err := row.Scan(&event.ID, &event.Title, &event.Description, &event.Location, &event.Date, &event.UserID, &event.CreatedAt)
	if err != nil {
		return models.Event{}, database.MapError(err)
	}
	return event, nil
}

// UpdateEvent applies a partial update with no field validation.
func (s *EventService) UpdateEvent(id int64, upd EventUpdate) (models.Event, error) {
	event, err := s.GetEventByID(id)
	if err != nil {
		return models.Event{}, err
	}

	if upd.Title != nil {
		event.Title = *upd.Title
	}
	if upd.Description != nil {
		event.Description = *upd.Description
	}
	if upd.Location != nil {
		event.Location = *upd.Location
	}
	if upd.Date != nil {
		event.Date = upd.Date.UTC()
	}

	_, err = s.db.Exec(
		"UPDATE events SET title = ?, description = ?, location = ?, date = ? WHERE id = ?",
		event.Title, event.Description, event.Location, event.Date, id)
	if err != nil {
		return models.Event{}, err
	}
	s.notify("event.updated", event)
	return event, nil
}

// DeleteEvent removes an event by id.
func (s *EventService) DeleteEvent(id int64) error {
	res, err := s.db.Exec("DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("event with ID %d not found", id)
	}
	s.notify("event.deleted", map[string]int64{"id": id})
	return nil
}

func (s *EventService) notify(action string, payload interface{}) {
	if s.notifier != nil {
		s.notifier.NotifyEvent(action, payload)
	}
}
