package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/dockgrid/pkg/buildinfo"
	"github.com/matzehuels/dockgrid/pkg/core/anchor"
	"github.com/matzehuels/dockgrid/pkg/core/geom"
	"github.com/matzehuels/dockgrid/pkg/core/layout"
	"github.com/matzehuels/dockgrid/pkg/errors"
	"github.com/matzehuels/dockgrid/pkg/layoutio"
	"github.com/matzehuels/dockgrid/pkg/render/nodelink"
)

const maxBodyBytes = 4 << 20

var contentTypes = map[layoutio.Format]string{
	layoutio.JSON: "application/json",
	layoutio.YAML: "application/yaml",
	layoutio.CBOR: "application/cbor",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// requestFormat picks the layout encoding from ?format= or, for bodies, the
// Content-Type header.
func requestFormat(r *http.Request) (layoutio.Format, error) {
	if q := r.URL.Query().Get("format"); q != "" {
		return layoutio.ParseFormat(q)
	}
	ct := r.Header.Get("Content-Type")
	for f, t := range contentTypes {
		if strings.HasPrefix(ct, t) {
			return f, nil
		}
	}
	return layoutio.JSON, nil
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	f, err := requestFormat(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := layout.Marshal(s.engine.Snapshot(), f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[f])
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handlePutLayout(w http.ResponseWriter, r *http.Request) {
	f, err := requestFormat(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	snap, err := layout.Unmarshal(data, f, s.engine.Snapshot().Dock.Sizing)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.engine.Replace(r.Context(), snap); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"revision": s.engine.Snapshot().Revision})
}

func (s *Server) dot(r *http.Request) string {
	q := r.URL.Query()
	return nodelink.ToDOT(s.engine.Snapshot(), nodelink.Options{
		Detailed: q.Get("detailed") == "true",
		Grids:    q["grid"],
	})
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	io.WriteString(w, s.dot(r))
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	svg, err := nodelink.RenderSVG(r.Context(), s.dot(r))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

func (s *Server) handleListOps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, layout.OperationNames())
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	op, err := layout.NewOperation(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := decodeJSON(w, r, op); err != nil {
		s.writeError(w, err)
		return
	}
	generated := layout.AssignID(op)
	next, err := s.engine.Apply(r.Context(), op)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := map[string]any{"op": op.Name(), "revision": next.Revision}
	if generated != "" {
		resp["part"] = generated
	}
	writeJSON(w, http.StatusOK, resp)
}

type partResponse struct {
	ID        string   `json:"id"`
	Grid      string   `json:"grid"`
	Views     []string `json:"views"`
	Active    string   `json:"active,omitempty"`
	Navigated bool     `json:"navigated"`
	Title     string   `json:"title,omitempty"`
	Visible   bool     `json:"visible"`
}

func (s *Server) handlePart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	reg := s.engine.Registry()
	key, ok := reg.GridOfPart(id)
	if !ok {
		s.writeError(w, errors.UnknownReference("part", id))
		return
	}
	resp := partResponse{ID: id, Grid: key, Views: []string{}, Visible: reg.IsPartVisible(id)}
	if p := reg.Part(id); p != nil {
		if len(p.Views) > 0 {
			resp.Views = p.Views
		}
		resp.Active = p.Active
		resp.Navigated = p.Navigated
		resp.Title = p.Title
	}
	writeJSON(w, http.StatusOK, resp)
}

type activityResponse struct {
	ID           string `json:"id"`
	Slot         string `json:"slot"`
	Icon         string `json:"icon,omitempty"`
	Label        string `json:"label"`
	Tooltip      string `json:"tooltip"`
	Title        string `json:"title"`
	Part         string `json:"part"`
	Active       bool   `json:"active"`
	Materialized bool   `json:"materialized"`
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap := s.engine.Snapshot()
	a, ok := snap.Dock.Activity(id)
	if !ok {
		s.writeError(w, errors.UnknownReference("activity", id))
		return
	}
	title, _ := snap.Title(id)
	writeJSON(w, http.StatusOK, activityResponse{
		ID:           a.ID,
		Slot:         a.Slot.String(),
		Icon:         a.Icon,
		Label:        a.Label,
		Tooltip:      a.Tooltip(),
		Title:        title,
		Part:         a.PartID,
		Active:       snap.Dock.IsActive(id),
		Materialized: snap.Materialized(id),
	})
}

type placeRequest struct {
	Anchor geom.Rect    `json:"anchor"`
	Bounds geom.Rect    `json:"bounds"`
	Align  anchor.Align `json:"align"`
	Size   anchor.Size  `json:"size"`
	Offset float64      `json:"offset,omitempty"`
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	offset := req.Offset
	if offset == 0 {
		offset = s.cfg.DiamondOffset
	}
	if offset == 0 {
		offset = anchor.DefaultDiamondOffset
	}
	writeJSON(w, http.StatusOK, anchor.Place(req.Anchor, req.Bounds, req.Align, req.Size, offset))
}

func (s *Server) handleElements(w http.ResponseWriter, r *http.Request) {
	var m anchor.ElementMap
	if err := decodeJSON(w, r, &m); err != nil {
		s.writeError(w, err)
		return
	}
	s.elements.set(m)
	w.WriteHeader(http.StatusNoContent)
}

type trackRequest struct {
	Popup anchor.Popup         `json:"popup"`
	Areas map[string]geom.Rect `json:"areas"`
	State json.RawMessage      `json:"state,omitempty"`
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := errors.ValidateID("popup", req.Popup.ID); err != nil {
		s.writeError(w, err)
		return
	}
	if len(req.State) > 0 {
		s.tracker.SetState(req.Popup.ID, req.State)
	}
	res := s.tracker.Update(s.engine.Registry(), req.Areas, req.Popup)
	s.latest.Offer(res)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePopup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, ok := s.latest.Get(id)
	if !ok {
		s.writeError(w, errors.UnknownReference("popup", id))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusOf maps error codes onto HTTP statuses.
func statusOf(code errors.Code) int {
	switch code {
	case errors.ErrCodeUnknownReference, errors.ErrCodeUnsupported:
		return http.StatusNotFound
	case errors.ErrCodeDuplicatePartID:
		return http.StatusConflict
	case errors.ErrCodeStructuralInvariant:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidRatio:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusOf(code)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}
