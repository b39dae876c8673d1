package votingengine

import (
	"log/slog"

	httpadapter "shield/contexts/governance/voting-engine/adapters/http"
	"shield/contexts/governance/voting-engine/adapters/memory"
	"shield/contexts/governance/voting-engine/application/commands"
	"shield/contexts/governance/voting-engine/application/queries"
	"shield/contexts/governance/voting-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Proposals ports.ProposalRepository
	Holders   ports.HolderDirectory
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createUseCase := commands.CreateProposalUseCase{
		Proposals:   deps.Proposals,
		Holders:     deps.Holders,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGen,
		Logger:      deps.Logger,
	}
	voteUseCase := commands.CastVoteUseCase{
		Proposals:   deps.Proposals,
		Holders:     deps.Holders,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGen,
		Logger:      deps.Logger,
	}
	proposalQueries := queries.ProposalQueries{
		Proposals: deps.Proposals,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			CreateProposal: createUseCase,
			CastVote:       voteUseCase,
			Proposals:      proposalQueries,
			Logger:         deps.Logger,
		},
	}
}

func NewInMemoryModule(holders ports.HolderDirectory, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Proposals: store,
		Holders:   holders,
		Outbox:    store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
