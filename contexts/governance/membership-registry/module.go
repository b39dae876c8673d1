package membershipregistry

import (
	"log/slog"

	httpadapter "shield/contexts/governance/membership-registry/adapters/http"
	"shield/contexts/governance/membership-registry/adapters/memory"
	"shield/contexts/governance/membership-registry/application/commands"
	"shield/contexts/governance/membership-registry/application/queries"
	"shield/contexts/governance/membership-registry/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Tokens       ports.TokenRepository
	Outbox       ports.OutboxWriter
	Signer       ports.AttestationSigner
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	AdminAccount string
	MintPolicy   commands.MintPolicy
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	mintUseCase := commands.MintTokenUseCase{
		Tokens:       deps.Tokens,
		Outbox:       deps.Outbox,
		Clock:        deps.Clock,
		IDGenerator:  deps.IDGen,
		AdminAccount: deps.AdminAccount,
		Policy:       deps.MintPolicy,
		Logger:       deps.Logger,
	}
	revokeUseCase := commands.RevokeTokenUseCase{
		Tokens:       deps.Tokens,
		Outbox:       deps.Outbox,
		Clock:        deps.Clock,
		IDGenerator:  deps.IDGen,
		AdminAccount: deps.AdminAccount,
		Logger:       deps.Logger,
	}
	roundUseCase := commands.AdvanceMintingRoundUseCase{
		Tokens:       deps.Tokens,
		Outbox:       deps.Outbox,
		Clock:        deps.Clock,
		IDGenerator:  deps.IDGen,
		AdminAccount: deps.AdminAccount,
		Logger:       deps.Logger,
	}
	profileUseCase := commands.ProfileUseCase{
		Tokens: deps.Tokens,
		Logger: deps.Logger,
	}
	transferUseCase := commands.TransferUseCase{
		Logger: deps.Logger,
	}
	holderQueries := queries.HolderQueries{
		Tokens: deps.Tokens,
		Logger: deps.Logger,
	}
	proofUseCase := queries.OwnershipProofUseCase{
		Tokens: deps.Tokens,
		Signer: deps.Signer,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Mint:     mintUseCase,
			Revoke:   revokeUseCase,
			Rounds:   roundUseCase,
			Profile:  profileUseCase,
			Transfer: transferUseCase,
			Holders:  holderQueries,
			Proofs:   proofUseCase,
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(cohortID string, adminAccount string, policy commands.MintPolicy, signer ports.AttestationSigner, logger *slog.Logger) Module {
	store := memory.NewStore(cohortID)
	module := NewModule(Dependencies{
		Tokens:       store,
		Outbox:       store,
		Signer:       signer,
		Clock:        store,
		IDGen:        store,
		AdminAccount: adminAccount,
		MintPolicy:   policy,
		Logger:       logger,
	})
	module.Store = store
	return module
}
