package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/alunodb/roster-be/internal/models"
)

// CourseLabelEmpty is the aggregation bucket for students without a course.
const CourseLabelEmpty = "Não informado"

// StudentServiceProvider defines the interface for student registry services.
type StudentServiceProvider interface {
	List(search string) ([]models.Student, error)
	Get(id int64) (models.Student, error)
	Create(nome, email, telefone, curso string) (int64, error)
	Update(id int64, nome, email, telefone, curso string) error
	Delete(id int64) error
	AggregateByCourse() ([]models.CourseCount, int, error)
}

// StudentService provides CRUD, search and aggregation over the students
// table. Every operation is a single atomic statement.
type StudentService struct {
	db       *sqlx.DB
	validate *validator.Validate
}

// NewStudentService creates a new StudentService.
func NewStudentService(db *sqlx.DB) *StudentService {
	return &StudentService{db: db, validate: validator.New()}
}

// List returns the full roster in natural order, or, when search is
// non-empty, the students whose nome, email or curso contains the term
// (case-insensitive substring match, OR-combined).
func (s *StudentService) List(search string) ([]models.Student, error) {
	students := make([]models.Student, 0)

	if search == "" {
		if err := s.db.Select(&students, "SELECT id, nome, email, COALESCE(telefone, '') AS telefone, COALESCE(curso, '') AS curso, criado_em FROM students"); err != nil {
			return nil, fmt.Errorf("failed to list students: %w", err)
		}
		return students, nil
	}

	pattern := "%" + search + "%"
	err := s.db.Select(&students, `
		SELECT id, nome, email, COALESCE(telefone, '') AS telefone, COALESCE(curso, '') AS curso, criado_em
		FROM students
		WHERE nome LIKE ? OR email LIKE ? OR curso LIKE ?`,
		pattern, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search students: %w", err)
	}
	return students, nil
}

// Get retrieves a single student by id.
func (s *StudentService) Get(id int64) (models.Student, error) {
	var student models.Student
	err := s.db.Get(&student, "SELECT id, nome, email, COALESCE(telefone, '') AS telefone, COALESCE(curso, '') AS curso, criado_em FROM students WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Student{}, fmt.Errorf("student %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Student{}, fmt.Errorf("failed to get student %d: %w", id, err)
	}
	return student, nil
}

// Create inserts a new student and returns the generated id.
func (s *StudentService) Create(nome, email, telefone, curso string) (int64, error) {
	student := models.Student{Nome: nome, Email: email, Telefone: telefone, Curso: curso}
	if err := s.validate.Struct(student); err != nil {
		return 0, fmt.Errorf("%w: nome e email são obrigatórios", ErrValidation)
	}

	res, err := s.db.Exec(
		"INSERT INTO students (nome, email, telefone, curso) VALUES (?, ?, ?, ?)",
		nome, email, telefone, curso,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create student: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new student id: %w", err)
	}
	return id, nil
}

// Update replaces all four business fields of an existing student. The
// write is a single conditional statement, so a student deleted between
// the edit-form fetch and the submit cannot be resurrected; the submit
// reports NotFound instead.
func (s *StudentService) Update(id int64, nome, email, telefone, curso string) error {
	student := models.Student{Nome: nome, Email: email, Telefone: telefone, Curso: curso}
	if err := s.validate.Struct(student); err != nil {
		return fmt.Errorf("%w: nome e email são obrigatórios", ErrValidation)
	}

	res, err := s.db.Exec(
		"UPDATE students SET nome = ?, email = ?, telefone = ?, curso = ? WHERE id = ?",
		nome, email, telefone, curso, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update student %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("student %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes a student permanently. The admin gate is enforced
// upstream by the router middleware.
func (s *StudentService) Delete(id int64) error {
	res, err := s.db.Exec("DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete student %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("student %d: %w", id, ErrNotFound)
	}
	return nil
}

// AggregateByCourse returns (course, count) pairs sorted by count
// descending plus the total student count. Students with no course
// recorded are grouped under CourseLabelEmpty.
func (s *StudentService) AggregateByCourse() ([]models.CourseCount, int, error) {
	rows, err := s.db.Queryx(`
		SELECT curso, COUNT(*) AS total
		FROM students
		GROUP BY curso
		ORDER BY total DESC`)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to aggregate by course: %w", err)
	}
	defer rows.Close()

	counts := make([]models.CourseCount, 0)
	total := 0
	for rows.Next() {
		var curso sql.NullString
		var n int
		if err := rows.Scan(&curso, &n); err != nil {
			return nil, 0, fmt.Errorf("failed to scan course count: %w", err)
		}
		label := curso.String
		if !curso.Valid || label == "" {
			label = CourseLabelEmpty
		}
		counts = append(counts, models.CourseCount{Curso: label, Total: n})
		total += n
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate course counts: %w", err)
	}
	return counts, total, nil
}
