package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type seedStudent struct {
	Nome     string
	Email    string
	Telefone string
	Curso    string
}

// sampleRoster is the fixed demo roster inserted on first boot.
var sampleRoster = []seedStudent{
	{"João Silva", "joao.silva@email.com", "(11) 98765-4321", "Engenharia de Software"},
	{"Maria Oliveira", "maria.oliveira@email.com", "(11) 98765-4322", "Ciência da Computação"},
	{"Carlos Souza", "carlos.souza@email.com", "(11) 98765-4323", "Sistemas de Informação"},
	{"Ana Costa", "ana.costa@email.com", "(11) 98765-4324", "Engenharia da Computação"},
	{"Pedro Santos", "pedro.santos@email.com", "(11) 98765-4325", "Análise de Sistemas"},
	{"Juliana Pereira", "juliana.pereira@email.com", "(11) 98765-4326", "Engenharia de Software"},
	{"Marcos Lima", "marcos.lima@email.com", "(11) 98765-4327", "Ciência da Computação"},
	{"Fernanda Rocha", "fernanda.rocha@email.com", "(11) 98765-4328", "Sistemas de Informação"},
	{"Ricardo Alves", "ricardo.alves@email.com", "(11) 98765-4329", "Engenharia da Computação"},
	{"Patrícia Gomes", "patricia.gomes@email.com", "(11) 98765-4330", "Análise de Sistemas"},
	{"Lucas Martins", "lucas.martins@email.com", "(11) 98765-4331", "Engenharia de Software"},
	{"Amanda Barbosa", "amanda.barbosa@email.com", "(11) 98765-4332", "Ciência da Computação"},
	{"Gustavo Ferreira", "gustavo.ferreira@email.com", "(11) 98765-4333", "Sistemas de Informação"},
	{"Isabela Ribeiro", "isabela.ribeiro@email.com", "(11) 98765-4334", "Engenharia da Computação"},
	{"Roberto Carvalho", "roberto.carvalho@email.com", "(11) 98765-4335", "Análise de Sistemas"},
	{"Tatiane Nunes", "tatiane.nunes@email.com", "(11) 98765-4336", "Engenharia de Software"},
	{"Felipe Cunha", "felipe.cunha@email.com", "(11) 98765-4337", "Ciência da Computação"},
	{"Vanessa Dias", "vanessa.dias@email.com", "(11) 98765-4338", "Sistemas de Informação"},
	{"Eduardo Mendes", "eduardo.mendes@email.com", "(11) 98765-4339", "Engenharia da Computação"},
	{"Laura Moreira", "laura.moreira@email.com", "(11) 98765-4340", "Análise de Sistemas"},
	{"Rodrigo Cardoso", "rodrigo.cardoso@email.com", "(11) 98765-4341", "Engenharia de Software"},
	{"Beatriz Xavier", "beatriz.xavier@email.com", "(11) 98765-4342", "Ciência da Computação"},
	{"Daniel Teixeira", "daniel.teixeira@email.com", "(11) 98765-4343", "Sistemas de Informação"},
	{"Camila Andrade", "camila.andrade@email.com", "(11) 98765-4344", "Engenharia da Computação"},
	{"Marcelo Castro", "marcelo.castro@email.com", "(11) 98765-4345", "Análise de Sistemas"},
}

// SeedStudents inserts the sample roster when the students table is empty.
// The whole batch goes in a single transaction so a mid-seed failure
// leaves the table empty rather than half-filled.
func SeedStudents(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM students"); err != nil {
		return fmt.Errorf("failed to count students: %w", err)
	}
	if count > 0 {
		log.Debug().Int("existing", count).Msg("students table already populated, skipping seed")
		return nil
	}

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO students (nome, email, telefone, curso) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare seed insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range sampleRoster {
		if _, err := stmt.Exec(s.Nome, s.Email, s.Telefone, s.Curso); err != nil {
			return fmt.Errorf("failed to seed student %q: %w", s.Nome, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	log.Info().Int("students", len(sampleRoster)).Msg("seeded sample roster")
	return nil
}
