package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"groupcheck/internal/logging"
	"groupcheck/internal/review"
)

type indexData struct {
	Identity     string
	GroupName    string
	Items        []string
	DisplayIndex int
	TotalGroups  int
}

type doneGroup struct {
	Name  string
	Items []string
}

type doneData struct {
	Identity string
	Groups   []doneGroup
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.renderCurrent(w, r)
	case http.MethodPost:
		s.establishIdentity(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderCurrent(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Current(s.sessionToken(r))
	if errors.Is(err, review.ErrNotIdentified) {
		s.render(w, "index.html", indexData{})
		return
	}
	if err != nil {
		s.failSafe(w, r, err)
		return
	}
	if view.Complete {
		http.Redirect(w, r, "/done", http.StatusSeeOther)
		return
	}
	s.render(w, "index.html", indexData{
		Identity:     view.Identity,
		GroupName:    view.Group.Name,
		Items:        view.Group.Items,
		DisplayIndex: view.Progress.Current + 1,
		TotalGroups:  view.Progress.Total,
	})
}

func (s *Server) establishIdentity(w http.ResponseWriter, r *http.Request) {
	identity := r.FormValue("identity")
	token, err := s.svc.Establish(s.sessionToken(r), identity)
	if err != nil {
		// Blank identity: show the form again rather than an error page.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.setSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	decision := review.Decision{
		Accept: strings.EqualFold(r.FormValue("group_valid"), "yes"),
		Rename: r.FormValue("new_group_name"),
	}

	err := s.svc.Decide(r.Context(), s.sessionToken(r), decision)
	switch {
	case errors.Is(err, review.ErrNotIdentified):
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, review.ErrPassComplete):
		http.Redirect(w, r, "/done", http.StatusSeeOther)
	case err != nil:
		s.failSafe(w, r, err)
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) handleDone(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	identity, groupings, err := s.svc.Summary(s.sessionToken(r))
	if errors.Is(err, review.ErrNotIdentified) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		s.failSafe(w, r, err)
		return
	}

	groups := make([]doneGroup, 0, len(groupings))
	for name, items := range groupings {
		groups = append(groups, doneGroup{Name: name, Items: items})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })

	s.render(w, "done.html", doneData{Identity: identity, Groups: groups})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.render(w, "reset.html", nil)
}

func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.svc.ClearData(r.Context(), s.sessionToken(r)); err != nil {
		s.failSafe(w, r, err)
		return
	}
	s.expireSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type statusPayload struct {
	Groups       int    `json:"groups"`
	Items        int    `json:"items"`
	LiveSessions int    `json:"live_sessions"`
	UptimeSecs   int64  `json:"uptime_seconds"`
	CatalogPath  string `json:"catalog_path"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	payload := statusPayload{
		Groups:       s.catalog.Len(),
		Items:        s.catalog.ItemCount(),
		LiveSessions: s.sessions.Len(),
		UptimeSecs:   int64(time.Since(s.startedAt).Seconds()),
		CatalogPath:  s.catalog.SourcePath(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode status", logging.Error(err))
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template render failed",
			logging.String("template", name),
			logging.Error(err),
		)
	}
}

// failSafe logs the real error and shows the reviewer a generic failure.
func (s *Server) failSafe(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		logging.String("path", r.URL.Path),
		logging.Error(err),
	)
	http.Error(w, "something went wrong, please try again", http.StatusInternalServerError)
}

func (s *Server) sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) expireSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
