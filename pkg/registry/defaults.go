package registry

import (
	nodeprivacyflow "github.com/dukex/operion-privacyflow/pkg/nodes/privacyflow"
	"github.com/dukex/operion-privacyflow/pkg/nodes/trigger"
	pf "github.com/dukex/operion-privacyflow/pkg/privacyflow"
	providerprivacyflow "github.com/dukex/operion-privacyflow/pkg/providers/privacyflow"
)

// RegisterDefaults registers the PrivacyFlow action node, trigger node and poll provider.
// All of them share one client reading credentials from creds on every call.
func (r *Registry) RegisterDefaults(creds pf.CredentialsProvider, opts ...pf.Option) *pf.Client {
	client := pf.NewClient(creds, append([]pf.Option{pf.WithLogger(r.logger)}, opts...)...)

	r.RegisterNode(nodeprivacyflow.NewNodeFactory(pf.NewDispatcher(client, r.logger)))
	r.RegisterNode(trigger.NewPrivacyFlowTriggerNodeFactory())
	r.RegisterProvider(providerprivacyflow.NewProviderFactory(pf.NewPoller(client, r.logger)))

	return client
}
