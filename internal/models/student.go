package models

import "time"

// Student represents one roster record. Nome and Email are the only
// required business fields; Telefone and Curso are stored as given,
// including empty.
type Student struct {
	ID       int64     `db:"id" json:"id"`
	Nome     string    `db:"nome" json:"nome" validate:"required"`
	Email    string    `db:"email" json:"email" validate:"required"`
	Telefone string    `db:"telefone" json:"telefone"`
	Curso    string    `db:"curso" json:"curso"`
	CriadoEm time.Time `db:"criado_em" json:"criadoEm"`
}

// CourseCount is one row of the enrollment-by-course aggregation.
type CourseCount struct {
	Curso string `db:"curso" json:"curso"`
	Total int    `db:"total" json:"total"`
}
