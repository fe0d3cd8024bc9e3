package handlers

import (
	intconfig "fieldbooking/internal/config"
	"fieldbooking/internal/payments"
	"fieldbooking/internal/services"
)

// Package-level collaborators, wired once at startup by the router. The DB
// pool itself lives in intconfig.DB; tests swap that for sqlmock.
var (
	env        intconfig.Env
	fieldCache services.FieldCache
	notifier   services.Notifier
	events     services.EventPublisher
)

// Configure injects startup-scoped collaborators. Nil values disable the
// corresponding concern (cache, push, broker).
func Configure(e intconfig.Env, cache services.FieldCache, n services.Notifier, ev services.EventPublisher) {
	env = e
	fieldCache = cache
	notifier = n
	events = ev
}

func qrBuilder() services.QRBuilder {
	if env.PromptPayTarget == "" {
		return nil
	}
	return payments.PromptPay{
		Target:      env.PromptPayTarget,
		FixedAmount: env.PromptPayFixedAmount,
	}
}
