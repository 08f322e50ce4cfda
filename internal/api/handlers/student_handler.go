package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/alunodb/roster-be/internal/auth"
	"github.com/alunodb/roster-be/internal/metrics"
	"github.com/alunodb/roster-be/internal/models"
	"github.com/alunodb/roster-be/internal/services"
	"github.com/alunodb/roster-be/internal/web"
)

// StudentHandler serves the roster pages and the JSON roster endpoints.
type StudentHandler struct {
	students services.StudentServiceProvider
	render   *web.Renderer
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(students services.StudentServiceProvider, render *web.Renderer) *StudentHandler {
	return &StudentHandler{students: students, render: render}
}

func principalPtr(r *http.Request) *models.Principal {
	if p, ok := auth.PrincipalFromContext(r.Context()); ok {
		return &p
	}
	return nil
}

func studentID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

type indexData struct {
	SearchTerm string
	Students   []models.Student
}

// Index handles GET / — full roster or search results.
func (h *StudentHandler) Index(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	students, err := h.students.List(search)
	if err != nil {
		log.Error().Err(err).Str("search", search).Msg("failed to list students")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render.Render(w, r, http.StatusOK, "index.html", principalPtr(r), indexData{
		SearchTerm: search,
		Students:   students,
	})
}

// View handles GET /{id} — one student's detail page.
func (h *StudentHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := studentID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	student, err := h.students.Get(id)
	if errors.Is(err, services.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("student_id", id).Msg("failed to load student")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render.Render(w, r, http.StatusOK, "ver.html", principalPtr(r), student)
}

// AddForm handles GET /adicionar.
func (h *StudentHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "adicionar.html", principalPtr(r), nil)
}

// Add handles POST /adicionar.
func (h *StudentHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	id, err := h.students.Create(
		r.PostFormValue("nome"),
		r.PostFormValue("email"),
		r.PostFormValue("telefone"),
		r.PostFormValue("curso"),
	)
	if errors.Is(err, services.ErrValidation) {
		web.SetFlash(w, "Nome e email são obrigatórios!")
		http.Redirect(w, r, "/adicionar", http.StatusSeeOther)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to create student")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	metrics.StudentMutationsTotal.WithLabelValues("create").Inc()
	log.Info().Int64("student_id", id).Msg("student created")

	web.SetFlash(w, "Aluno adicionado com sucesso!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// EditForm handles GET /{id}/editar — prefilled edit form.
func (h *StudentHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := studentID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	student, err := h.students.Get(id)
	if errors.Is(err, services.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("student_id", id).Msg("failed to load student for edit")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render.Render(w, r, http.StatusOK, "editar.html", principalPtr(r), student)
}

// Edit handles POST /{id}/editar — full replacement of the business fields.
func (h *StudentHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := studentID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	err := h.students.Update(id,
		r.PostFormValue("nome"),
		r.PostFormValue("email"),
		r.PostFormValue("telefone"),
		r.PostFormValue("curso"),
	)
	switch {
	case errors.Is(err, services.ErrValidation):
		web.SetFlash(w, "Nome e email são obrigatórios!")
		http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
		return
	case errors.Is(err, services.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		log.Error().Err(err).Int64("student_id", id).Msg("failed to update student")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	metrics.StudentMutationsTotal.WithLabelValues("update").Inc()
	log.Info().Int64("student_id", id).Msg("student updated")

	web.SetFlash(w, "Aluno atualizado com sucesso!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Delete handles POST /{id}/deletar. The router guards this with the
// admin gate; by the time we run, the principal is an admin.
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := studentID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	err := h.students.Delete(id)
	if errors.Is(err, services.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("student_id", id).Msg("failed to delete student")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	metrics.StudentMutationsTotal.WithLabelValues("delete").Inc()
	log.Info().Int64("student_id", id).Msg("student deleted")

	web.SetFlash(w, "Aluno deletado com sucesso!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type statsData struct {
	Counts []models.CourseCount
	Total  int
}

// Stats handles GET /estatisticas — the enrollment-by-course chart page.
func (h *StudentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, total, err := h.students.AggregateByCourse()
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate students by course")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render.Render(w, r, http.StatusOK, "estatisticas.html", principalPtr(r), statsData{
		Counts: counts,
		Total:  total,
	})
}

// APIList handles GET /api/students — the roster as JSON, same search
// semantics as the index page.
func (h *StudentHandler) APIList(w http.ResponseWriter, r *http.Request) {
	students, err := h.students.List(r.URL.Query().Get("search"))
	if err != nil {
		log.Error().Err(err).Msg("failed to list students for API")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(students)
}

// APIStats handles GET /api/estatisticas — chart data for the stats page
// and external consumers.
func (h *StudentHandler) APIStats(w http.ResponseWriter, r *http.Request) {
	counts, total, err := h.students.AggregateByCourse()
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate students for API")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	labels := make([]string, 0, len(counts))
	values := make([]int, 0, len(counts))
	for _, c := range counts {
		labels = append(labels, c.Curso)
		values = append(values, c.Total)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"labels": labels,
		"counts": values,
		"total":  total,
	})
}
