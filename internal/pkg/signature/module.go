package signature

import (
	"github.com/merchware/creditledger/internal/config"
	"go.uber.org/fx"
)

// Module provides webhook signature verification via fx.
var Module = fx.Provide(newVerifier)

type verifierParams struct {
	fx.In

	Config *config.Config
}

func newVerifier(p verifierParams) *Verifier {
	return NewVerifier(p.Config.WebhookSecret, Options{})
}
