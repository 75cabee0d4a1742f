package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/staywise/helpdesk/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	storage := &PostgresStorage{db: db}
	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}
	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %v", err)
	}
	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %v", err)
	}
	return nil
}

func (s *PostgresStorage) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	query := `
		INSERT INTO tickets (id, customer_id, title, description, status, priority,
			category, sentiment, confidence, keywords)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query,
		ticket.ID,
		ticket.CustomerID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		string(ticket.Category),
		ticket.Sentiment,
		ticket.Confidence,
		pq.Array(ticket.Keywords),
	).Scan(&ticket.CreatedAt, &ticket.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating ticket: %v", err)
	}
	return nil
}

const ticketColumns = `id, customer_id, title, description, status, priority,
	category, sentiment, confidence, keywords, created_at, updated_at`

func scanTicket(row interface{ Scan(...any) error }) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	var category string
	err := row.Scan(
		&ticket.ID,
		&ticket.CustomerID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&category,
		&ticket.Sentiment,
		&ticket.Confidence,
		pq.Array(&ticket.Keywords),
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	ticket.Category = models.Category(category)
	return ticket, nil
}

func (s *PostgresStorage) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	ticket, err := scanTicket(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying ticket: %v", err)
	}
	return ticket, nil
}

func (s *PostgresStorage) ListTickets(ctx context.Context) ([]*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying tickets: %v", err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning ticket: %v", err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

func (s *PostgresStorage) UpdateClassification(ctx context.Context, id string, category models.Category, sentiment, confidence float64, priority string) error {
	query := `
		UPDATE tickets
		SET category = $1, sentiment = $2, confidence = $3, priority = $4, updated_at = $5
		WHERE id = $6`

	result, err := s.db.ExecContext(ctx, query, string(category), sentiment, confidence, priority, time.Now(), id)
	if err != nil {
		return fmt.Errorf("error updating ticket classification: %v", err)
	}
	return checkAffected(result)
}

func (s *PostgresStorage) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE tickets SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := s.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("error updating ticket status: %v", err)
	}
	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStorage) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	query := `SELECT id, name, email, type, created_at FROM customers ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
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

func (s *PostgresStorage) ListAgents(ctx context.Context) ([]*models.Agent, error) {
	query := `SELECT id, name, role, specialty FROM agents ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
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

func (s *PostgresStorage) TicketStats(ctx context.Context) (*models.TicketStats, error) {
	stats := &models.TicketStats{
		ByCategory: make(map[models.Category]int),
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
		UpdatedAt:  time.Now(),
	}

	query := `
		SELECT category, status, priority, COUNT(*), COALESCE(SUM(sentiment), 0)
		FROM tickets
		GROUP BY category, status, priority`
	rows, err := s.db.QueryContext(ctx, query)
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

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
