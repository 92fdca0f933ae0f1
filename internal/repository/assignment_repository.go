// Package repository stores the seatings produced by the service
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/limaJavier/examseating/internal/config"
	"github.com/limaJavier/examseating/pkg/model"
	"github.com/pkg/errors"
)

// Record is one persisted seat assignment of a run
type Record struct {
	Id        int64     `json:"id"`
	RunId     string    `json:"run_id"`
	StudentId int       `json:"student_id"`
	Exam      string    `json:"exam"`
	RoomId    string    `json:"room_id"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	CreatedAt time.Time `json:"created_at"`
}

type AssignmentRepository interface {
	// Save stores every assignment of a run atomically
	Save(ctx context.Context, runId string, assignments []model.Assignment, students []model.Student) error
	List(ctx context.Context, skip, limit int) ([]Record, error)
	ByStudent(ctx context.Context, studentId int) ([]Record, error)
}

const schema = `CREATE TABLE IF NOT EXISTS assignments (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	run_id VARCHAR(64) NOT NULL,
	student_id INT NOT NULL,
	exam VARCHAR(255) NOT NULL,
	room_id VARCHAR(255) NOT NULL,
	seat_row INT NOT NULL,
	seat_col INT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	INDEX idx_assignments_student (student_id),
	UNIQUE KEY uq_assignments_seat (run_id, room_id, seat_row, seat_col)
)`

const selectColumns = `SELECT id, run_id, student_id, exam, room_id, seat_row, seat_col, created_at FROM assignments`

// Open connects to MySQL, verifies the connection and makes sure the schema exists
func Open(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	auth := cfg.User
	if cfg.Pass != "" {
		auth = fmt.Sprintf("%s:%s", cfg.User, cfg.Pass)
	}
	// parseTime=true -> DATETIME -> time.Time
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC", auth, cfg.Host, cfg.Port, cfg.Name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open database")
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "cannot reach database at %v:%v", cfg.Host, cfg.Port)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "cannot create schema")
	}
	return db, nil
}

type mysqlAssignmentRepository struct {
	db *sql.DB
}

func NewMySQLAssignmentRepository(db *sql.DB) AssignmentRepository {
	return &mysqlAssignmentRepository{db: db}
}

func (repository *mysqlAssignmentRepository) Save(ctx context.Context, runId string, assignments []model.Assignment, students []model.Student) error {
	if len(assignments) == 0 {
		return nil
	}
	query, args := insertQuery(runId, assignments, examsOf(students))

	tx, err := repository.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "cannot begin transaction")
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "cannot store run %v", runId)
	}
	return errors.Wrap(tx.Commit(), "cannot commit run")
}

func (repository *mysqlAssignmentRepository) List(ctx context.Context, skip, limit int) ([]Record, error) {
	rows, err := repository.db.QueryContext(ctx, selectColumns+` ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, errors.Wrap(err, "cannot list assignments")
	}
	return scanRecords(rows)
}

func (repository *mysqlAssignmentRepository) ByStudent(ctx context.Context, studentId int) ([]Record, error) {
	rows, err := repository.db.QueryContext(ctx, selectColumns+` WHERE student_id = ? ORDER BY id`, studentId)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read assignments of student %d", studentId)
	}
	return scanRecords(rows)
}

// insertQuery builds a single multi-row insert for a run
func insertQuery(runId string, assignments []model.Assignment, exams map[int]string) (string, []any) {
	var builder strings.Builder
	builder.WriteString(`INSERT INTO assignments (run_id, student_id, exam, room_id, seat_row, seat_col) VALUES `)
	args := make([]any, 0, len(assignments)*6)
	for i, assignment := range assignments {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString("(?, ?, ?, ?, ?, ?)")
		args = append(args, runId, assignment.StudentId, exams[assignment.StudentId], assignment.RoomId, assignment.Row, assignment.Col)
	}
	return builder.String(), args
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var record Record
		if err := rows.Scan(&record.Id, &record.RunId, &record.StudentId, &record.Exam, &record.RoomId, &record.Row, &record.Col, &record.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "cannot scan assignment")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot iterate assignments")
	}
	return records, nil
}

func examsOf(students []model.Student) map[int]string {
	exams := make(map[int]string, len(students))
	for _, student := range students {
		exams[student.Id] = student.Exam
	}
	return exams
}
