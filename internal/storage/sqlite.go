package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/staywise/helpdesk/internal/models"
)

// SQLiteStorage backs the single-binary demo deployment: same schema shape
// as Postgres, no server required.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS customers (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL DEFAULT '',
		type       TEXT NOT NULL DEFAULT 'guest',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS agents (
		id        TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		role      TEXT NOT NULL DEFAULT 'specialist',
		specialty TEXT NOT NULL DEFAULT 'GENERAL'
	);

	CREATE TABLE IF NOT EXISTS tickets (
		id          TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL DEFAULT '',
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'open',
		priority    TEXT NOT NULL DEFAULT 'normal',
		category    TEXT NOT NULL DEFAULT '',
		sentiment   REAL NOT NULL DEFAULT 0,
		confidence  REAL NOT NULL DEFAULT 0,
		keywords    TEXT NOT NULL DEFAULT '',
		created_at  DATETIME NOT NULL,
		updated_at  DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tickets_status ON tickets(status);
	CREATE INDEX IF NOT EXISTS idx_tickets_category ON tickets(category);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	seed := `
	INSERT OR IGNORE INTO agents (id, name, role, specialty) VALUES
		('agent-router',  'Riley', 'router',     'GENERAL'),
		('agent-tech',    'Tomas', 'specialist', 'TECHNICAL'),
		('agent-billing', 'Bea',   'specialist', 'BILLING'),
		('agent-product', 'Priya', 'specialist', 'PRODUCT'),
		('agent-qa',      'Quinn', 'qa',         'GENERAL');
	`
	if _, err := db.Exec(seed); err != nil {
		return nil, fmt.Errorf("error seeding agents: %v", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func joinKeywords(keywords []string) string {
	return strings.Join(keywords, ",")
}

func splitKeywords(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, ",")
}

func (s *SQLiteStorage) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	now := time.Now()
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = now
	}
	ticket.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tickets (id, customer_id, title, description, status, priority,
			category, sentiment, confidence, keywords, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ticket.ID, ticket.CustomerID, ticket.Title, ticket.Description,
		ticket.Status, ticket.Priority, string(ticket.Category),
		ticket.Sentiment, ticket.Confidence, joinKeywords(ticket.Keywords),
		ticket.CreatedAt, ticket.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating ticket: %v", err)
	}
	return nil
}

func (s *SQLiteStorage) scanTicketRow(row interface{ Scan(...any) error }) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	var category, keywords string
	err := row.Scan(
		&ticket.ID, &ticket.CustomerID, &ticket.Title, &ticket.Description,
		&ticket.Status, &ticket.Priority, &category,
		&ticket.Sentiment, &ticket.Confidence, &keywords,
		&ticket.CreatedAt, &ticket.UpdatedAt)
	if err != nil {
		return nil, err
	}
	ticket.Category = models.Category(category)
	ticket.Keywords = splitKeywords(keywords)
	return ticket, nil
}

func (s *SQLiteStorage) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, customer_id, title, description, status, priority,
			category, sentiment, confidence, keywords, created_at, updated_at
		 FROM tickets WHERE id = ?`, id)
	ticket, err := s.scanTicketRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying ticket: %v", err)
	}
	return ticket, nil
}

func (s *SQLiteStorage) ListTickets(ctx context.Context) ([]*models.Ticket, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, customer_id, title, description, status, priority,
			category, sentiment, confidence, keywords, created_at, updated_at
		 FROM tickets ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("error querying tickets: %v", err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		ticket, err := s.scanTicketRow(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning ticket: %v", err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

func (s *SQLiteStorage) UpdateClassification(ctx context.Context, id string, category models.Category, sentiment, confidence float64, priority string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE tickets SET category = ?, sentiment = ?, confidence = ?, priority = ?, updated_at = ?
		 WHERE id = ?`,
		string(category), sentiment, confidence, priority, time.Now(), id)
	if err != nil {
		return fmt.Errorf("error updating ticket classification: %v", err)
	}
	return checkAffected(result)
}

func (s *SQLiteStorage) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE tickets SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("error updating ticket status: %v", err)
	}
	return checkAffected(result)
}

func (s *SQLiteStorage) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, type, created_at FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error querying customers: %v", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c := &models.Customer{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Type, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning customer: %v", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *SQLiteStorage) ListAgents(ctx context.Context) ([]*models.Agent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, role, specialty FROM agents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error querying agents: %v", err)
	}
	defer rows.Close()

	var agents []*models.Agent
	for rows.Next() {
		a := &models.Agent{}
		var specialty string
		if err := rows.Scan(&a.ID, &a.Name, &a.Role, &specialty); err != nil {
			return nil, fmt.Errorf("error scanning agent: %v", err)
		}
		a.Specialty = models.Category(specialty)
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

func (s *SQLiteStorage) TicketStats(ctx context.Context) (*models.TicketStats, error) {
	stats := &models.TicketStats{
		ByCategory: make(map[models.Category]int),
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
		UpdatedAt:  time.Now(),
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT category, status, priority, COUNT(*), COALESCE(SUM(sentiment), 0)
		 FROM tickets GROUP BY category, status, priority`)
	if err != nil {
		return nil, fmt.Errorf("error querying ticket stats: %v", err)
	}
	defer rows.Close()

	sentimentSum := 0.0
	for rows.Next() {
		var category, status, priority string
		var count int
		var sentiment float64
		if err := rows.Scan(&category, &status, &priority, &count, &sentiment); err != nil {
			return nil, fmt.Errorf("error scanning ticket stats: %v", err)
		}
		stats.Total += count
		if category != "" {
			stats.ByCategory[models.Category(category)] += count
		}
		if status != "" {
			stats.ByStatus[status] += count
		}
		if priority != "" {
			stats.ByPriority[priority] += count
		}
		sentimentSum += sentiment
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading ticket stats: %v", err)
	}
	if stats.Total > 0 {
		stats.AvgSentiment = sentimentSum / float64(stats.Total)
	}
	return stats, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
