package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/pantrypal/internal/auth"
	"github.com/dukerupert/pantrypal/internal/grocery"
	"github.com/dukerupert/pantrypal/internal/model"
	"github.com/dukerupert/pantrypal/internal/scanner"
	"github.com/dukerupert/pantrypal/internal/store"
)

const (
	scanTargetPantry = "pantry"
	scanTargetList   = "list"
)

// scanSession is one open scanner and the collection its products go to.
type scanSession struct {
	ID      string
	UserID  int64
	Target  string
	ListID  int64
	scanner *scanner.Scanner
	touched time.Time
}

// ScanHandler keeps one scanner per open scan session.
type ScanHandler struct {
	lookup     scanner.Lookup
	reconciler *grocery.Reconciler
	lists      *store.ListStore
	listH      *ListHandler
	pantryH    *PantryHandler
	now        func() time.Time
	logger     *slog.Logger

	mu       sync.Mutex
	sessions map[string]*scanSession
}

func NewScanHandler(lookup scanner.Lookup, rec *grocery.Reconciler, ls *store.ListStore, listH *ListHandler, pantryH *PantryHandler, logger *slog.Logger) *ScanHandler {
	return &ScanHandler{
		lookup:     lookup,
		reconciler: rec,
		lists:      ls,
		listH:      listH,
		pantryH:    pantryH,
		now:        time.Now,
		logger:     logger,
		sessions:   make(map[string]*scanSession),
	}
}

type openScanRequest struct {
	Target        string `json:"target" validate:"required,oneof=pantry list"`
	ListID        int64  `json:"list_id" validate:"required_if=Target list"`
	CameraGranted bool   `json:"camera_granted"`
}

type scanCodeRequest struct {
	Code string `json:"code" validate:"required,max=32"`
}

type scanResponse struct {
	ID        string      `json:"id"`
	Target    string      `json:"target"`
	ListID    int64       `json:"list_id,omitempty"`
	State     string      `json:"state"`
	Code      string      `json:"code,omitempty"`
	Item      *model.Item `json:"item,omitempty"`
	Added     bool        `json:"added"`
	Duplicate bool        `json:"duplicate"`
	Error     string      `json:"error,omitempty"`
}

func (sess *scanSession) response(res scanner.Result) scanResponse {
	resp := scanResponse{
		ID:     sess.ID,
		Target: sess.Target,
		ListID: sess.ListID,
		State:  sess.scanner.State().String(),
		Code:   res.Code,
		Item:   res.Item,
	}
	switch {
	case res.State == scanner.Resolved && res.Err == nil:
		resp.Added = true
	case errors.Is(res.Err, grocery.ErrDuplicate):
		resp.Duplicate = true
		resp.Error = "This item is already in your " + sess.Target + "."
	case res.State == scanner.NotFound:
		resp.Error = "Product not found."
	case res.Err != nil:
		resp.Error = "Could not add the scanned product."
	}
	return resp
}

// sink inserts resolved products into the session's target and notifies
// live subscribers.
func (h *ScanHandler) sink(userID int64, target string, listID int64) scanner.Sink {
	return func(ctx context.Context, item model.Item) error {
		if target == scanTargetList {
			l, _, err := h.reconciler.AddToList(listID, model.ListItemFromCatalog(item))
			if err != nil {
				return err
			}
			h.listH.publish(l)
			return nil
		}
		if _, err := h.reconciler.AddToPantry(userID, model.PantryItemFromCatalog(item)); err != nil {
			return err
		}
		h.pantryH.publish(userID)
		return nil
	}
}

// session returns the caller's session named by the id path value.
func (h *ScanHandler) session(w http.ResponseWriter, r *http.Request) *scanSession {
	h.mu.Lock()
	sess, ok := h.sessions[r.PathValue("id")]
	if ok && sess.UserID == auth.UserID(r.Context()) {
		sess.touched = h.now()
	}
	h.mu.Unlock()

	if !ok || sess.UserID != auth.UserID(r.Context()) {
		writeError(w, http.StatusNotFound, "scan session not found")
		return nil
	}
	return sess
}

// Open handles POST /api/scans
func (h *ScanHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openScanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	userID := auth.UserID(r.Context())

	if req.Target == scanTargetList {
		l, err := h.lists.GetByID(req.ListID)
		if err != nil {
			h.logger.Error("get list for scan", "list_id", req.ListID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get list")
			return
		}
		if l == nil || l.UserID != userID {
			writeError(w, http.StatusNotFound, "list not found")
			return
		}
	} else {
		req.ListID = 0
	}

	sc := scanner.New(h.lookup, h.sink(userID, req.Target, req.ListID), h.logger.With("target", req.Target))
	granted := req.CameraGranted
	perm := scanner.PermissionFunc(func(context.Context) (bool, error) { return granted, nil })
	if err := sc.Open(r.Context(), perm); err != nil {
		if errors.Is(err, scanner.ErrPermissionDenied) {
			writeError(w, http.StatusForbidden, "Camera permission is required to scan barcodes.")
			return
		}
		h.logger.Error("open scanner", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to open scanner")
		return
	}

	sess := &scanSession{
		ID:      uuid.NewString(),
		UserID:  userID,
		Target:  req.Target,
		ListID:  req.ListID,
		scanner: sc,
		touched: h.now(),
	}
	h.mu.Lock()
	h.sessions[sess.ID] = sess
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, sess.response(scanner.Result{}))
}

// Get handles GET /api/scans/{id}
func (h *ScanHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, sess.response(sess.scanner.Last()))
}

// Scan handles POST /api/scans/{id}/codes
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	var req scanCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	// A lookup that has started runs to completion even if the client goes away.
	res, err := sess.scanner.Scan(context.WithoutCancel(r.Context()), req.Code)
	switch {
	case errors.Is(err, scanner.ErrBusy):
		writeError(w, http.StatusConflict, "scanner is not ready for a scan")
		return
	case errors.Is(err, scanner.ErrClosed):
		writeError(w, http.StatusGone, "scan session was closed")
		return
	case err != nil:
		h.logger.Error("scan", "error", err)
		writeError(w, http.StatusInternalServerError, "scan failed")
		return
	}

	if res.State == scanner.Errored && res.Err != nil {
		h.logger.Warn("scan errored", "code", req.Code, "error", res.Err)
	}
	writeJSON(w, http.StatusOK, sess.response(res))
}

// Acknowledge handles POST /api/scans/{id}/ack
func (h *ScanHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	if !sess.scanner.Acknowledge() {
		writeError(w, http.StatusConflict, "no scan result to acknowledge")
		return
	}

	// Idle again; reopen for the next code with the permission already granted.
	if err := sess.scanner.Open(r.Context(), scanner.Granted); err != nil && !errors.Is(err, scanner.ErrBusy) {
		h.logger.Error("reopen scanner", "error", err)
	}
	writeJSON(w, http.StatusOK, sess.response(scanner.Result{}))
}

// Close handles DELETE /api/scans/{id}
func (h *ScanHandler) Close(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	sess.scanner.Close()

	h.mu.Lock()
	delete(h.sessions, sess.ID)
	h.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// CleanupSessions closes sessions untouched for longer than maxAge and
// returns how many were removed.
func (h *ScanHandler) CleanupSessions(maxAge time.Duration) int {
	cutoff := h.now().Add(-maxAge)

	h.mu.Lock()
	defer h.mu.Unlock()
	removed := 0
	for id, sess := range h.sessions {
		if sess.touched.Before(cutoff) {
			sess.scanner.Close()
			delete(h.sessions, id)
			removed++
		}
	}
	return removed
}

// SessionCount returns the number of open scan sessions.
func (h *ScanHandler) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}
