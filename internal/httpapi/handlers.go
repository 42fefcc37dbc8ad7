package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/unidash/internal/backup"
	"github.com/julianstephens/unidash/internal/models"
	"github.com/julianstephens/unidash/internal/stats"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"loaded": s.svc.State().Loaded(),
	})
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	doc := s.svc.Document()
	encoded, err := doc.Encode()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, encoded)
}

// patchDocument overwrites the keys present in the body. Unknown keys are
// rejected so a typo does not silently drop data.
func (s *Server) patchDocument(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if !decode(w, r, &raw) {
		return
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		if !models.IsDocumentKey(k) {
			respondError(w, r, http.StatusBadRequest, "validation_error", "unknown document key: "+k)
			return
		}
		keys = append(keys, k)
	}
	patch, err := models.DecodeDocument(raw)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if err := s.svc.PatchDocument(r.Context(), patch, keys); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"saved": keys})
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.svc.Tasks(r.URL.Query().Get("q")))
}

type createTaskRequest struct {
	Title    string          `json:"title"`
	Due      string          `json:"due"`
	Priority models.Priority `json:"priority"`
	Category models.Category `json:"category"`
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !decode(w, r, &req) {
		return
	}
	t, err := s.svc.AddTask(r.Context(), models.Task{
		Title:    req.Title,
		Due:      req.Due,
		Priority: req.Priority,
		Category: req.Category,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, t)
}

type quickAddRequest struct {
	Title string `json:"title"`
}

func (s *Server) quickAdd(w http.ResponseWriter, r *http.Request) {
	var req quickAddRequest
	if !decode(w, r, &req) {
		return
	}
	t, err := s.svc.QuickAdd(r.Context(), req.Title)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, t)
}

func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "bad_request", "invalid task id")
		return 0, false
	}
	return id, true
}

func (s *Server) toggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	t, err := s.svc.ToggleTask(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (s *Server) snoozeTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	t, err := s.svc.SnoozeTask(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	if err := s.svc.DeleteTask(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type saveNoteRequest struct {
	TaskID   int64  `json:"taskId"`
	Content  string `json:"content"`
	Progress int    `json:"progress"`
}

func (s *Server) saveNote(w http.ResponseWriter, r *http.Request) {
	var req saveNoteRequest
	if !decode(w, r, &req) {
		return
	}
	n, err := s.svc.SaveNote(r.Context(), req.TaskID, req.Content, req.Progress)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, n)
}

type addCitationRequest struct {
	Source string `json:"source"`
	Format string `json:"format"`
}

func (s *Server) addCitation(w http.ResponseWriter, r *http.Request) {
	var req addCitationRequest
	if !decode(w, r, &req) {
		return
	}
	format, err := models.ParseCitationFormat(req.Format)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	c, err := s.svc.AddCitation(r.Context(), req.Source, format)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (s *Server) saveTimetable(w http.ResponseWriter, r *http.Request) {
	var tt models.Timetable
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&tt); err != nil {
		respondError(w, r, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}
	if err := s.svc.SaveTimetable(r.Context(), tt); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.svc.Timetable())
}

type addReminderRequest struct {
	Text string `json:"text"`
}

func (s *Server) addReminder(w http.ResponseWriter, r *http.Request) {
	var req addReminderRequest
	if !decode(w, r, &req) {
		return
	}
	rem, err := s.svc.AddReminder(r.Context(), req.Text)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, rem)
}

type copiedRequest struct {
	Text string `json:"text"`
}

// stageCopied is what a content script posts on every copy event.
func (s *Server) stageCopied(w http.ResponseWriter, r *http.Request) {
	var req copiedRequest
	if !decode(w, r, &req) {
		return
	}
	staged, err := s.svc.StageCopied(r.Context(), req.Text)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"staged": staged})
}

func (s *Server) peekCopied(w http.ResponseWriter, r *http.Request) {
	text, err := s.svc.PeekStaged(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, copiedRequest{Text: text})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, stats.Summarize(s.svc.Document(), s.now()))
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	data, err := backup.Export(s.svc.Document())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="unidash-backup.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
