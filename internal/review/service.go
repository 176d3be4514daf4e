package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"groupcheck/internal/catalog"
	"groupcheck/internal/history"
	"groupcheck/internal/logging"
	"groupcheck/internal/session"
	"groupcheck/internal/textutil"
	"groupcheck/internal/verified"
)

// ErrNotIdentified indicates the session has no reviewer identity; callers
// redirect to the identification page.
var ErrNotIdentified = errors.New("reviewer not identified")

// ErrEmptyIdentity indicates an identification attempt with a blank token.
var ErrEmptyIdentity = errors.New("identity must not be empty")

// ErrPassComplete indicates the cursor has moved past the last group;
// callers redirect to the summary page.
var ErrPassComplete = errors.New("review pass complete")

// Decision is a reviewer's verdict on the current group.
type Decision struct {
	Accept bool
	Rename string
}

// Progress locates the cursor within the catalog.
type Progress struct {
	Current int
	Total   int
}

// View is everything the presentation layer needs to render the current group.
type View struct {
	Identity string
	Group    catalog.Group
	Progress Progress
	Complete bool
}

// Service coordinates one review pass per session.
type Service struct {
	catalog  *catalog.Catalog
	sessions *session.Manager
	store    *verified.Store
	history  *history.Store // nil when the audit log is disabled
	logger   *slog.Logger
}

// NewService wires the review flow. history may be nil.
func NewService(cat *catalog.Catalog, sessions *session.Manager, store *verified.Store, hist *history.Store, logger *slog.Logger) *Service {
	return &Service{
		catalog:  cat,
		sessions: sessions,
		store:    store,
		history:  hist,
		logger:   logging.NewComponentLogger(logger, "review"),
	}
}

// Establish binds an identity to the session, resetting the cursor to zero.
// Returns the session token to hand back to the browser.
func (s *Service) Establish(token, identity string) (string, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return "", ErrEmptyIdentity
	}
	token = s.sessions.Establish(token, identity)
	s.logger.Info("identity established",
		logging.String(logging.FieldIdentity, identity),
	)
	return token, nil
}

// Current resolves the group under the session's cursor. Complete is set
// when every group has been decided.
func (s *Service) Current(token string) (View, error) {
	state, ok := s.sessions.Lookup(token)
	if !ok || !state.Identified() {
		return View{}, ErrNotIdentified
	}

	view := View{
		Identity: state.Identity,
		Progress: Progress{Current: state.Cursor, Total: s.catalog.Len()},
	}
	group, ok := s.catalog.Group(state.Cursor)
	if !ok {
		view.Complete = true
		return view, nil
	}
	view.Group = group
	return view, nil
}

// Decide applies a reviewer decision to the group under the cursor and
// advances the cursor by one. On accept the verified store upserts the
// effective name (normalized rename when present, else the catalog name)
// with the group's item list; on reject no store mutation occurs.
func (s *Service) Decide(ctx context.Context, token string, decision Decision) error {
	state, ok := s.sessions.Lookup(token)
	if !ok || !state.Identified() {
		return ErrNotIdentified
	}

	group, ok := s.catalog.Group(state.Cursor)
	if !ok {
		return ErrPassComplete
	}

	finalName := textutil.NormalizeGroupName(decision.Rename)
	if finalName == "" {
		finalName = group.Name
	}

	if decision.Accept {
		if err := s.store.Upsert(state.Identity, finalName, group.Items); err != nil {
			return fmt.Errorf("store decision: %w", err)
		}
	}

	s.recordDecision(ctx, state, group, finalName, decision.Accept)

	cursor, ok := s.sessions.AdvanceCursor(token)
	if !ok {
		return ErrNotIdentified
	}

	s.logger.Info("decision applied",
		logging.String(logging.FieldIdentity, state.Identity),
		logging.String(logging.FieldGroup, group.Name),
		logging.String("final_name", finalName),
		logging.Bool("accepted", decision.Accept),
		logging.Int(logging.FieldCursor, cursor),
	)
	return nil
}

// recordDecision appends to the audit log. Failures are logged and ignored:
// the audit trail must never block the reviewer.
func (s *Service) recordDecision(ctx context.Context, state session.State, group catalog.Group, finalName string, accepted bool) {
	if s.history == nil {
		return
	}
	err := s.history.Record(ctx, history.Decision{
		Identity:  state.Identity,
		Position:  state.Cursor,
		GroupName: group.Name,
		FinalName: finalName,
		Accepted:  accepted,
	})
	if err != nil {
		s.logger.Warn("failed to record decision history",
			logging.String(logging.FieldIdentity, state.Identity),
			logging.Error(err),
		)
	}
}

// Summary returns the identity and its full verified groupings.
func (s *Service) Summary(token string) (string, verified.Groupings, error) {
	state, ok := s.sessions.Lookup(token)
	if !ok || !state.Identified() {
		return "", nil, ErrNotIdentified
	}
	groupings, err := s.store.Load(state.Identity)
	if err != nil {
		return "", nil, err
	}
	return state.Identity, groupings, nil
}

// ClearData drops the session, deletes the identity's verified file, and
// removes its history rows.
func (s *Service) ClearData(ctx context.Context, token string) error {
	state, ok := s.sessions.Lookup(token)
	s.sessions.Drop(token)
	if !ok || !state.Identified() {
		return nil
	}

	if err := s.store.Clear(state.Identity); err != nil {
		return err
	}
	if s.history != nil {
		if _, err := s.history.ClearIdentity(ctx, state.Identity); err != nil {
			s.logger.Warn("failed to clear decision history",
				logging.String(logging.FieldIdentity, state.Identity),
				logging.Error(err),
			)
		}
	}
	s.logger.Info("reviewer data cleared",
		logging.String(logging.FieldIdentity, state.Identity),
	)
	return nil
}
