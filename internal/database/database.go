// Package database persists the events the webhook server receives: inbound
// messages, call events, and delivery-status updates.
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sql.DB
}

type InboundMessage struct {
	ID         int       `json:"id"`
	MessageSid string    `json:"message_sid"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

type CallEvent struct {
	ID         int       `json:"id"`
	CallSid    string    `json:"call_sid"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Status     string    `json:"status"`
	ReceivedAt time.Time `json:"received_at"`
}

type DeliveryUpdate struct {
	ID         int       `json:"id"`
	MessageSid string    `json:"message_sid"`
	Status     string    `json:"status"`
	ReceivedAt time.Time `json:"received_at"`
}

type Stats struct {
	MessagesReceived int `json:"messages_received"`
	CallsReceived    int `json:"calls_received"`
	DeliveryUpdates  int `json:"delivery_updates"`
}

func Init(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	dbWrapper := &DB{db}
	if err := dbWrapper.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return dbWrapper, nil
}

func (db *DB) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS inbound_messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			message_sid TEXT NOT NULL DEFAULT '',
			from_number TEXT NOT NULL DEFAULT '',
			to_number TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT '',
			received_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS call_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			call_sid TEXT NOT NULL,
			from_number TEXT NOT NULL,
			to_number TEXT NOT NULL,
			status TEXT NOT NULL,
			received_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS delivery_updates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			message_sid TEXT NOT NULL,
			status TEXT NOT NULL,
			received_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_inbound_messages_sid ON inbound_messages(message_sid)`,
		`CREATE INDEX IF NOT EXISTS idx_call_events_sid ON call_events(call_sid)`,
		`CREATE INDEX IF NOT EXISTS idx_delivery_updates_sid ON delivery_updates(message_sid)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration query: %w", err)
		}
	}

	return nil
}

func (db *DB) InsertInboundMessage(msg *InboundMessage) error {
	query := `INSERT INTO inbound_messages (message_sid, from_number, to_number, body)
			  VALUES (?, ?, ?, ?)`

	result, err := db.Exec(query, msg.MessageSid, msg.From, msg.To, msg.Body)
	if err != nil {
		return fmt.Errorf("failed to insert inbound message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	msg.ID = int(id)
	return nil
}

func (db *DB) InsertCallEvent(event *CallEvent) error {
	query := `INSERT INTO call_events (call_sid, from_number, to_number, status)
			  VALUES (?, ?, ?, ?)`

	result, err := db.Exec(query, event.CallSid, event.From, event.To, event.Status)
	if err != nil {
		return fmt.Errorf("failed to insert call event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	event.ID = int(id)
	return nil
}

func (db *DB) InsertDeliveryUpdate(update *DeliveryUpdate) error {
	query := `INSERT INTO delivery_updates (message_sid, status) VALUES (?, ?)`

	result, err := db.Exec(query, update.MessageSid, update.Status)
	if err != nil {
		return fmt.Errorf("failed to insert delivery update: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	update.ID = int(id)
	return nil
}

// RecentMessages returns the newest inbound messages, up to limit.
func (db *DB) RecentMessages(limit int) ([]*InboundMessage, error) {
	query := `SELECT id, message_sid, from_number, to_number, body, received_at
			  FROM inbound_messages ORDER BY received_at DESC LIMIT ?`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query inbound messages: %w", err)
	}
	defer rows.Close()

	var messages []*InboundMessage
	for rows.Next() {
		msg := &InboundMessage{}
		if err := rows.Scan(&msg.ID, &msg.MessageSid, &msg.From, &msg.To, &msg.Body, &msg.ReceivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inbound message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// DeliveryUpdates returns the delivery-status history for one message SID,
// oldest first.
func (db *DB) DeliveryUpdates(messageSid string) ([]*DeliveryUpdate, error) {
	query := `SELECT id, message_sid, status, received_at
			  FROM delivery_updates WHERE message_sid = ? ORDER BY received_at ASC`

	rows, err := db.Query(query, messageSid)
	if err != nil {
		return nil, fmt.Errorf("failed to query delivery updates: %w", err)
	}
	defer rows.Close()

	var updates []*DeliveryUpdate
	for rows.Next() {
		update := &DeliveryUpdate{}
		if err := rows.Scan(&update.ID, &update.MessageSid, &update.Status, &update.ReceivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan delivery update: %w", err)
		}
		updates = append(updates, update)
	}

	return updates, rows.Err()
}

func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{}

	if err := db.QueryRow(`SELECT COUNT(*) FROM inbound_messages`).Scan(&stats.MessagesReceived); err != nil {
		return nil, fmt.Errorf("failed to count inbound messages: %w", err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM call_events`).Scan(&stats.CallsReceived); err != nil {
		return nil, fmt.Errorf("failed to count call events: %w", err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM delivery_updates`).Scan(&stats.DeliveryUpdates); err != nil {
		return nil, fmt.Errorf("failed to count delivery updates: %w", err)
	}

	return stats, nil
}

// HealthCheck verifies the database connection is alive.
func (db *DB) HealthCheck() error {
	return db.Ping()
}
