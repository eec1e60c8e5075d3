package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"nyc-subway-trivia/internal/domain"
	"nyc-subway-trivia/internal/domain/model"
	"nyc-subway-trivia/internal/infra/logging"
)

type codeResponse struct {
	Code        string    `json:"code"`
	Description string    `json:"description"`
	ExpiryDate  time.Time `json:"expiryDate"`
	Type        string    `json:"type"`
	Expired     bool      `json:"expired"`
}

type prizeResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Code        string `json:"code"`
	Level       string `json:"level"`
	MinScore    int    `json:"minScore"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toCodeResponse(c *model.PromoCode, now time.Time) codeResponse {
	return codeResponse{
		Code:        c.Code,
		Description: c.Description,
		ExpiryDate:  c.ExpiryDate,
		Type:        string(c.Type),
		Expired:     c.IsExpired(now),
	}
}

func toPrizeResponse(p *model.Prize) prizeResponse {
	return prizeResponse{
		Name:        p.Name,
		Description: p.Description,
		Code:        p.Code,
		Level:       string(p.Level),
		MinScore:    p.MinScore,
	}
}

// handleGetCode serves GET /api/codes?type=<t>&score=<n>. An explicit type
// wins; otherwise a score selects the type; with neither, regular is used.
func (s *Server) handleGetCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		code *model.PromoCode
		err  error
	)
	switch rawType, rawScore := q.Get("type"), q.Get("score"); {
	case rawType != "":
		var typ model.CodeType
		if typ, err = model.ParseCodeType(rawType); err == nil {
			code, err = s.codes.ActiveCode(ctx, typ)
		}
	case rawScore != "":
		var score int
		if score, err = parseScore(rawScore); err == nil {
			code, err = s.codes.ForScore(ctx, score)
		}
	default:
		code, err = s.codes.ActiveCode(ctx, model.CodeTypeRegular)
	}

	if err != nil {
		s.writeError(w, r, err, "No active codes found")
		return
	}
	writeJSON(w, http.StatusOK, toCodeResponse(code, s.now()))
}

func (s *Server) handleListActive(w http.ResponseWriter, r *http.Request) {
	codes, err := s.codes.ListActive(r.Context())
	if err != nil {
		s.writeError(w, r, err, "No active codes found")
		return
	}
	now := s.now()
	out := make([]codeResponse, 0, len(codes))
	for _, c := range codes {
		out = append(out, toCodeResponse(c, now))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleShopCode serves GET /api/shop-code?score=<n>. It always answers with
// a code, falling back to the built-in regular one.
func (s *Server) handleShopCode(w http.ResponseWriter, r *http.Request) {
	score := 0
	if raw := r.URL.Query().Get("score"); raw != "" {
		var err error
		if score, err = parseScore(raw); err != nil {
			s.writeError(w, r, err, "")
			return
		}
	}
	writeJSON(w, http.StatusOK, toCodeResponse(s.codes.ShopCode(r.Context(), score), s.now()))
}

// handleGetPrize serves GET /api/prizes. Without a score it lists every tier.
func (s *Server) handleGetPrize(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("score")
	if raw == "" {
		table := s.codes.Prizes()
		out := make([]prizeResponse, 0, len(table))
		for i := range table {
			out = append(out, toPrizeResponse(&table[i]))
		}
		writeJSON(w, http.StatusOK, out)
		return
	}
	score, err := parseScore(raw)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	p, err := s.codes.Prize(score)
	if err != nil {
		s.writeError(w, r, err, "No prize earned")
		return
	}
	writeJSON(w, http.StatusOK, toPrizeResponse(p))
}

func parseScore(raw string) (int, error) {
	score, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: score must be an integer", domain.ErrInvalidArgument)
	}
	return score, nil
}

// writeError maps domain errors onto status codes. Store failures are logged
// and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: notFoundMsg})
	default:
		logging.With(r.Context(), s.log).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
