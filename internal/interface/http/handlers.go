package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/zv-rewards/zv-rewards-hub/internal/application/command"
	"github.com/zv-rewards/zv-rewards-hub/internal/application/query"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
	"github.com/zv-rewards/zv-rewards-hub/pkg/logger"
)

// maxRequestBodySize limits command payloads. Snapshot imports are the
// largest legitimate payload and stay well under this.
const maxRequestBodySize = 256 << 10 // 256 KB

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"uptime":    s.Uptime().String(),
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Route not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "zv-rewards-hub",
		"version": "1.0.0",
		"docs":    "/api/v1",
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.deps.BusMetrics == nil {
		writeJSONError(w, http.StatusNotFound, "metrics_disabled", "Event bus metrics are not enabled")
		return
	}
	writeJSON(w, http.StatusOK, s.deps.BusMetrics.Snapshot())
}

// ══════════════════════════════════════════════════════════════════════════════
// QUERY HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListEmployees.Handle(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetEmployee.Handle(r.Context(), query.GetEmployeeQuery{
		EmployeeID: r.PathValue("id"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Employee)
}

func (s *Server) handleGetKPITrend(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetKPITrend.Handle(r.Context(), query.GetKPITrendQuery{
		EmployeeID: r.PathValue("id"),
		Key:        getQueryParam(r, "key", ""),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExportSnapshot(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ExportSnapshot.Handle(r.Context(), query.ExportSnapshotQuery{
		EmployeeID: r.PathValue("id"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// The snapshot itself is the payload: serve the raw document so the
	// export round-trips through import byte-for-byte.
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="employee-snapshot.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Document)
}

func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetLeaderboard.Handle(r.Context(), query.GetLeaderboardQuery{
		Limit:             getQueryParamInt(r, "limit", 20),
		IncludeRankChange: getQueryParamBool(r, "changes"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetRewardCatalog(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetRewardCatalog.Handle(r.Context(), query.GetRewardCatalogQuery{
		EmployeeID: getQueryParam(r, "employee_id", ""),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if s.deps.ActivityFeed == nil {
		writeJSONError(w, http.StatusNotFound, "feed_disabled", "Activity feed is not enabled")
		return
	}
	limit := getQueryParamInt(r, "limit", 20)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": s.deps.ActivityFeed.Recent(limit),
	})
}

func (s *Server) handleEmployeeFeed(w http.ResponseWriter, r *http.Request) {
	if s.deps.ActivityFeed == nil {
		writeJSONError(w, http.StatusNotFound, "feed_disabled", "Activity feed is not enabled")
		return
	}
	limit := getQueryParamInt(r, "limit", 20)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"employee_id": r.PathValue("id"),
		"items":       s.deps.ActivityFeed.RecentFor(r.PathValue("id"), limit),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMAND HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleAdvanceChallenge(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.AdvanceChallenge.Handle(r.Context(), command.AdvanceChallengeCommand{
		EmployeeID:  r.PathValue("id"),
		ChallengeID: r.PathValue("challengeID"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"employee_id": result.State.ID,
		"completed":   result.Completed,
		"no_op":       result.NoOp,
		"leveled_up":  result.LeveledUp,
		"points":      int(result.State.Points),
		"level":       int(result.State.Level),
	})
}

// submitEvaluationRequest is the request body for POST /evaluations.
type submitEvaluationRequest struct {
	Type    string         `json:"type"`
	Scores  map[string]int `json:"scores"`
	Comment string         `json:"comment"`
}

func (s *Server) handleSubmitEvaluation(w http.ResponseWriter, r *http.Request) {
	var req submitEvaluationRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	scores := make(map[employee.KPIKey]int, len(req.Scores))
	for key, score := range req.Scores {
		scores[employee.KPIKey(key)] = score
	}

	result, err := s.deps.SubmitEvaluation.Handle(r.Context(), command.SubmitEvaluationCommand{
		EmployeeID: r.PathValue("id"),
		Type:       employee.EvaluationType(req.Type),
		Scores:     scores,
		Comment:    req.Comment,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"employee_id": result.State.ID,
		"leveled_up":  result.LeveledUp,
		"points":      int(result.State.Points),
		"kpis":        result.State.KPIs,
	})
}

// submitFeedbackRequest is the request body for POST /feedback.
type submitFeedbackRequest struct {
	Recipient string `json:"recipient"`
	Situation string `json:"situation"`
	Behavior  string `json:"behavior"`
	Impact    string `json:"impact"`
	IsPrivate bool   `json:"is_private"`
}

func (s *Server) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req submitFeedbackRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.SubmitFeedback.Handle(r.Context(), command.SubmitFeedbackCommand{
		EmployeeID: r.PathValue("id"),
		Recipient:  req.Recipient,
		Situation:  req.Situation,
		Behavior:   req.Behavior,
		Impact:     req.Impact,
		IsPrivate:  req.IsPrivate,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"employee_id": result.State.ID,
		"leveled_up":  result.LeveledUp,
		"points":      int(result.State.Points),
	})
}

// redeemRewardRequest is the request body for POST /redeem.
type redeemRewardRequest struct {
	RewardID string `json:"reward_id"`
}

func (s *Server) handleRedeemReward(w http.ResponseWriter, r *http.Request) {
	var req redeemRewardRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RedeemReward.Handle(r.Context(), command.RedeemRewardCommand{
		EmployeeID: r.PathValue("id"),
		RewardID:   req.RewardID,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"employee_id":      result.State.ID,
		"reward":           result.Reward.Name,
		"cost":             result.Reward.Cost,
		"remaining_points": int(result.State.Points),
	})
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.CheckIn.Handle(r.Context(), command.CheckInCommand{
		EmployeeID: r.PathValue("id"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"employee_id":    result.State.ID,
		"streak":         result.Streak,
		"points_awarded": result.PointsAwarded,
		"badge_unlocked": result.BadgeUnlocked,
		"leveled_up":     result.LeveledUp,
		"points":         int(result.State.Points),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// adminOnly checks the admin token against the configured bcrypt hash.
// A server without a configured hash has no admin surface at all.
func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.config.AdminTokenHash == "" {
			writeJSONError(w, http.StatusNotFound, "not_found", "Route not found")
			return
		}

		token := r.Header.Get(s.config.AdminTokenHeader)
		if token == "" {
			writeJSONError(w, http.StatusUnauthorized, "missing_token", "Admin token is required")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(s.config.AdminTokenHash), []byte(token)); err != nil {
			s.logger.Warn("admin token rejected",
				logger.String("ip", getClientIP(r)),
				logger.String("path", r.URL.Path),
			)
			writeJSONError(w, http.StatusForbidden, "invalid_token", "Admin token is invalid")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleImportSnapshot(w http.ResponseWriter, r *http.Request) {
	document, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Failed to read request body")
		return
	}

	result, err := s.deps.ImportSnapshot.Handle(r.Context(), command.ImportSnapshotCommand{
		EmployeeID: r.PathValue("id"),
		Document:   document,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"employee_id": result.State.ID,
		"points":      int(result.State.Points),
		"level":       int(result.State.Level),
	})
}

func (s *Server) handleResetEmployee(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ResetEmployee.Handle(r.Context(), command.ResetEmployeeCommand{
		EmployeeID: r.PathValue("id"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"employee_id": result.State.ID,
		"points":      int(result.State.Points),
		"level":       int(result.State.Level),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST/ERROR PLUMBING
// ══════════════════════════════════════════════════════════════════════════════

// decodeBody decodes a JSON request body, writing a 400 on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON: "+err.Error())
		return false
	}
	return true
}

// writeError translates domain errors into HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, shared.ErrInsufficient):
		writeJSONError(w, http.StatusConflict, "insufficient_points", err.Error())
	case shared.IsConflict(err):
		writeJSONError(w, http.StatusConflict, "conflict", err.Error())
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	case shared.IsRetryable(err):
		writeJSONError(w, http.StatusServiceUnavailable, "service_unavailable", err.Error())
	default:
		// Plain validation errors from command.Validate() carry no domain kind.
		if isPlainValidation(err) {
			writeJSONError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		s.logger.Error("unhandled request error",
			logger.Err(err),
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
	}
}

// isPlainValidation reports whether the error is a bare command validation
// error rather than an infrastructure failure.
func isPlainValidation(err error) bool {
	var domainErr *shared.DomainError
	return !errors.As(err, &domainErr)
}