package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	registryerrors "shield/contexts/governance/membership-registry/domain/errors"
	registryhttp "shield/contexts/governance/membership-registry/transport/http"
)

func writeRegistryError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, registryhttp.ErrorResponse{Code: code, Message: message})
}

func writeRegistryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registryerrors.ErrDuplicateToken):
		writeRegistryError(w, http.StatusConflict, "duplicate_token", err.Error())
	case errors.Is(err, registryerrors.ErrTokenNotFound):
		writeRegistryError(w, http.StatusNotFound, "token_not_found", err.Error())
	case errors.Is(err, registryerrors.ErrUnauthorized):
		writeRegistryError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, registryerrors.ErrNonTransferable):
		writeRegistryError(w, http.StatusUnprocessableEntity, "non_transferable", err.Error())
	case errors.Is(err, registryerrors.ErrInvalidMintInput),
		errors.Is(err, registryerrors.ErrInvalidUpdateInput),
		errors.Is(err, registryerrors.ErrInvalidProfileField):
		writeRegistryError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, registryerrors.ErrConflict):
		writeRegistryError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeRegistryError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	callerID := resolveCaller(r)
	if callerID == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_account", "X-Account-Id header is required")
		return "", false
	}
	return callerID, true
}

func (s *Server) handleMintToken(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req registryhttp.MintTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.AccountID) == "" {
		req.AccountID = callerID
	}
	resp, err := s.registry.Handler.MintTokenHandler(r.Context(), callerID, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRevokeToken(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.registry.Handler.RevokeTokenHandler(r.Context(), callerID, r.PathValue("account_id"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdvanceMintingRound(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.registry.Handler.AdvanceMintingRoundHandler(r.Context(), callerID)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireCaller(w, r); !ok {
		return
	}
	var req registryhttp.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.UpdateProfileHandler(r.Context(), r.PathValue("account_id"), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAwardTitle(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireCaller(w, r); !ok {
		return
	}
	var req registryhttp.AwardTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.AwardTitleHandler(r.Context(), r.PathValue("account_id"), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLinkHandle(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireCaller(w, r); !ok {
		return
	}
	var req registryhttp.LinkHandleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.LinkHandleHandler(r.Context(), r.PathValue("account_id"), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransferToken(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req registryhttp.TransferTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.registry.Handler.TransferTokenHandler(r.Context(), callerID, req); err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleGetToken(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.GetTokenHandler(r.Context(), r.PathValue("account_id"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHolderStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.HolderStatusHandler(r.Context(), r.PathValue("account_id"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGovernanceRole(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.GovernanceRoleHandler(r.Context(), r.PathValue("account_id"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOwnershipProof(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.OwnershipProofHandler(r.Context(), r.PathValue("account_id"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
