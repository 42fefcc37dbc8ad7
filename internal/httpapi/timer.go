package httpapi

import "net/http"

type timerStartRequest struct {
	TaskID int64 `json:"taskId"`
}

// readTimerStart accepts an empty body, which keeps the selected task.
func readTimerStart(w http.ResponseWriter, r *http.Request) (timerStartRequest, bool, bool) {
	var req timerStartRequest
	if r.ContentLength == 0 {
		return req, false, true
	}
	if !decode(w, r, &req) {
		return req, false, false
	}
	return req, true, true
}

func (s *Server) timerStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.engine.Status())
}

func (s *Server) timerStart(w http.ResponseWriter, r *http.Request) {
	req, hasBody, ok := readTimerStart(w, r)
	if !ok {
		return
	}
	if hasBody {
		s.engine.SelectTask(req.TaskID)
	}
	s.engine.Start()
	respondJSON(w, http.StatusOK, s.engine.Status())
}

func (s *Server) timerPomodoro(w http.ResponseWriter, r *http.Request) {
	req, hasBody, ok := readTimerStart(w, r)
	if !ok {
		return
	}
	if hasBody {
		s.engine.SelectTask(req.TaskID)
	}
	s.engine.Pomodoro()
	respondJSON(w, http.StatusOK, s.engine.Status())
}

func (s *Server) timerStop(w http.ResponseWriter, r *http.Request) {
	ev, err := s.engine.Stop(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status": s.engine.Status(),
		"event":  ev,
	})
}
