package service

import (
	"github.com/BitmanAlan/xiaohongshu/common/llm"
	"github.com/BitmanAlan/xiaohongshu/core/config"
	"github.com/BitmanAlan/xiaohongshu/internal/compliance"
	"github.com/BitmanAlan/xiaohongshu/internal/metrics"
	"github.com/BitmanAlan/xiaohongshu/internal/queue"
	"github.com/BitmanAlan/xiaohongshu/internal/store"
)

type Services struct {
	stores   *store.Stores
	llm      llm.Client
	identity IdentityProvider
	tokens   *TokenIssuer
	events   queue.Producer
	metrics  *metrics.Metrics
	cfg      config.Config
}

func NewServices(
	stores *store.Stores,
	client llm.Client,
	identity IdentityProvider,
	events queue.Producer,
	m *metrics.Metrics,
	cfg config.Config,
) *Services {
	return &Services{
		stores:   stores,
		llm:      client,
		identity: identity,
		tokens:   NewTokenIssuer(cfg.Auth),
		events:   events,
		metrics:  m,
		cfg:      cfg,
	}
}

// NewIdentityProvider picks WorkOS when it is configured and the local
// credential store otherwise.
func NewIdentityProvider(cfg config.WorkOSConfig, stores *store.Stores) IdentityProvider {
	if cfg.Enabled() {
		return NewWorkOSIdentity(cfg)
	}
	return NewLocalIdentity(stores.Credentials())
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.identity, s.tokens, s.stores.Profiles(), s.events)
}

func (s *Services) Generation() GenerationService {
	return NewGenerationService(
		s.llm,
		s.stores.Generations(),
		s.stores.Profiles(),
		s.events,
		s.metrics,
		GenerationOptions{
			Timeout:          s.cfg.AI.Timeout,
			StructuredOutput: s.cfg.AI.StructuredOutput,
		},
	)
}

func (s *Services) Library() LibraryService {
	return NewLibraryService(s.stores.Generations(), s.stores.SavedItems())
}

func (s *Services) Feedback() FeedbackService {
	return NewFeedbackService(s.stores.Feedback(), s.stores.Profiles(), s.events, s.metrics)
}

func (s *Services) Style() StyleService {
	return NewStyleService(s.llm, s.stores.Training(), s.events, s.metrics, s.cfg.AI.Timeout)
}

func (s *Services) Profile() ProfileService {
	return NewProfileService(s.stores.Profiles())
}

func (s *Services) Compliance() ComplianceService {
	return NewComplianceService(compliance.New(), s.stores.Generations())
}

func (s *Services) IdentityProviderName() string {
	return s.identity.Name()
}
