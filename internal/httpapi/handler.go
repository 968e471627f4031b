package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/shouni/etsy-booster-kit/internal/controller"
	"github.com/shouni/etsy-booster-kit/internal/observability"
	"github.com/shouni/etsy-booster-kit/pkg/domain"
	"github.com/shouni/etsy-booster-kit/pkg/imgutil"
)

// ─────────────────────────────────────────────
// DTOs
// ─────────────────────────────────────────────

type selectPageRequest struct {
	Page string `json:"page"`
}

type imageRequest struct {
	Image string `json:"image"`
}

type descriptionRequest struct {
	Description string `json:"description"`
}

type editRequest struct {
	Instruction *string `json:"instruction,omitempty"`
}

type chatMessageRequest struct {
	Text string `json:"text"`
}

type credentialRequest struct {
	APIKey string `json:"apiKey"`
}

type credentialResponse struct {
	CredentialSelected bool `json:"credentialSelected"`
	PromptPending      bool `json:"promptPending"`
}

// ─────────────────────────────────────────────
// Shell / Dashboard
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetShell(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Navigator.Snapshot())
}

func (s *Server) handleSelectPage(w http.ResponseWriter, r *http.Request) {
	var req selectPageRequest
	if !decode(w, r, &req) {
		return
	}
	page, err := domain.ParsePage(req.Page)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := s.deps.Navigator.Select(r.Context(), page); err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Navigator.Snapshot())
}

func (s *Server) handleGetDashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Dashboard.Snapshot())
}

// ─────────────────────────────────────────────
// Trend Spy
// ─────────────────────────────────────────────

func (s *Server) handleGetTrends(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Trends.Snapshot())
}

func (s *Server) handleRefreshTrends(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Trends.Refresh(r.Context()); err != nil {
		actionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Trends.Snapshot())
}

func (s *Server) handleTrendsCredential(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Trends.SelectCredential(r.Context()); err != nil {
		actionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Trends.Snapshot())
}

// ─────────────────────────────────────────────
// Listing Generator
// ─────────────────────────────────────────────

func (s *Server) handleGetListing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Listing.Snapshot())
}

func (s *Server) handleClearListing(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Listing.Clear(); err != nil {
		actionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Listing.Snapshot())
}

func (s *Server) handleSelectDesign(w http.ResponseWriter, r *http.Request) {
	ref, ok := decodeImage(w, r)
	if !ok {
		return
	}
	if err := s.deps.Listing.SelectDesign(ref); err != nil {
		actionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Listing.Snapshot())
}

func (s *Server) handleSetDescription(w http.ResponseWriter, r *http.Request) {
	var req descriptionRequest
	if !decode(w, r, &req) {
		return
	}
	s.deps.Listing.SetDescription(req.Description)
	writeJSON(w, http.StatusOK, s.deps.Listing.Snapshot())
}

func (s *Server) handleGenerateListing(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Listing.Generate(r.Context()); err != nil {
		actionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Listing.Snapshot())
}

// ─────────────────────────────────────────────
// Mockup Studio
// ─────────────────────────────────────────────

func (s *Server) handleGetMockup(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Mockup.Snapshot())
}

func (s *Server) handleMockupSettings(w http.ResponseWriter, r *http.Request) {
	var req controller.MockupSettings
	if !decode(w, r, &req) {
		return
	}
	if err := s.deps.Mockup.Apply(req); err != nil {
		actionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Mockup.Snapshot())
}

func (s *Server) handleLoadMockupImage(w http.ResponseWriter, r *http.Request) {
	ref, ok := decodeImage(w, r)
	if !ok {
		return
	}
	if err := s.deps.Mockup.LoadImage(ref); err != nil {
		actionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Mockup.Snapshot())
}

func (s *Server) handleGenerateMockup(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Mockup.Generate(r.Context()); err != nil {
		actionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Mockup.Snapshot())
}

// handleEditMockup は instruction が指定されていれば編集指示を更新してから編集します。
func (s *Server) handleEditMockup(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.Instruction != nil {
		if err := s.deps.Mockup.Apply(controller.MockupSettings{EditPrompt: req.Instruction}); err != nil {
			actionError(w, r, err)
			return
		}
	}
	if err := s.deps.Mockup.Edit(r.Context()); err != nil {
		actionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Mockup.Snapshot())
}

// ─────────────────────────────────────────────
// Chat
// ─────────────────────────────────────────────

func (s *Server) handleGetChat(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Chat.Snapshot())
}

func (s *Server) handleOpenChat(w http.ResponseWriter, _ *http.Request) {
	s.deps.Chat.Open()
	writeJSON(w, http.StatusOK, s.deps.Chat.Snapshot())
}

func (s *Server) handleCloseChat(w http.ResponseWriter, _ *http.Request) {
	s.deps.Chat.Close()
	writeJSON(w, http.StatusOK, s.deps.Chat.Snapshot())
}

func (s *Server) handleSendChat(w http.ResponseWriter, r *http.Request) {
	var req chatMessageRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.deps.Chat.Send(r.Context(), req.Text); err != nil {
		actionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Chat.Snapshot())
}

// ─────────────────────────────────────────────
// Credential
// ─────────────────────────────────────────────

func (s *Server) credentialSnapshot(r *http.Request) credentialResponse {
	return credentialResponse{
		CredentialSelected: s.deps.Settings.Snapshot(r.Context()).CredentialSelected,
		PromptPending:      s.deps.Credentials.PromptPending(),
	}
}

func (s *Server) handleGetCredential(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.credentialSnapshot(r))
}

func (s *Server) handleSelectCredential(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if !decode(w, r, &req) {
		return
	}
	s.deps.Credentials.Select(req.APIKey)
	writeJSON(w, http.StatusOK, s.credentialSnapshot(r))
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid JSON body")
		return false
	}
	return true
}

// decodeImage は data URI もしくは素の base64 を受け取り、data URI に正規化します。
func decodeImage(w http.ResponseWriter, r *http.Request) (domain.ImageRef, bool) {
	var req imageRequest
	if !decode(w, r, &req) {
		return "", false
	}
	data, mimeType, err := imgutil.DecodeDataURI(domain.ImageRef(req.Image))
	if err != nil {
		badRequest(w, "image must be a base64 data URI: "+err.Error())
		return "", false
	}
	return imgutil.EncodeDataURI(data, mimeType), true
}

// actionError はコントローラーの前提条件エラーを HTTP ステータスに変換します。
// 生成の失敗そのものはスナップショットの状態として返るため、ここには来ません。
func actionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, controller.ErrBusy):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case controller.IsPrecondition(err),
		errors.Is(err, domain.ErrInvalidAspectRatio),
		errors.Is(err, domain.ErrInvalidResolution):
		badRequest(w, err.Error())
	default:
		internalError(w, r, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFromContext(r.Context()).Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}
