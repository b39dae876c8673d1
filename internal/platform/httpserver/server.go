package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	membershipregistry "shield/contexts/governance/membership-registry"
	votingengine "shield/contexts/governance/voting-engine"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "shield/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	registry membershipregistry.Module
	voting   votingengine.Module
}

func New(
	registry membershipregistry.Module,
	voting votingengine.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		registry: registry,
		voting:   voting,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /governance/tokens", s.handleMintToken)
	s.mux.HandleFunc("POST /governance/tokens/transfer", s.handleTransferToken)
	s.mux.HandleFunc("DELETE /governance/tokens/{account_id}", s.handleRevokeToken)
	s.mux.HandleFunc("GET /governance/tokens/{account_id}", s.handleGetToken)
	s.mux.HandleFunc("PATCH /governance/tokens/{account_id}/profile", s.handleUpdateProfile)
	s.mux.HandleFunc("POST /governance/tokens/{account_id}/titles", s.handleAwardTitle)
	s.mux.HandleFunc("POST /governance/tokens/{account_id}/handles", s.handleLinkHandle)
	s.mux.HandleFunc("GET /governance/tokens/{account_id}/role", s.handleGovernanceRole)
	s.mux.HandleFunc("GET /governance/tokens/{account_id}/proof", s.handleOwnershipProof)
	s.mux.HandleFunc("GET /governance/holders/{account_id}", s.handleHolderStatus)
	s.mux.HandleFunc("POST /governance/minting-rounds/advance", s.handleAdvanceMintingRound)

	s.mux.HandleFunc("POST /governance/proposals", s.handleCreateProposal)
	s.mux.HandleFunc("GET /governance/proposals", s.handleListProposals)
	s.mux.HandleFunc("GET /governance/proposals/{proposal_id}", s.handleGetProposal)
	s.mux.HandleFunc("POST /governance/proposals/{proposal_id}/votes", s.handleCastVote)
}

// resolveCaller reads the authenticated account identity forwarded by the
// edge. Authentication happens upstream; the service trusts the header.
func resolveCaller(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Account-Id"))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func parseProposalID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := strings.TrimSpace(r.PathValue("proposal_id"))
	proposalID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_proposal_id", "proposal_id must be an unsigned integer")
		return 0, false
	}
	return proposalID, true
}
