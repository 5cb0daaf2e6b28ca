package utils

import (
	"context"

	"bitbucket.org/khsdfiscal/icecube_backend/appctx"
)

var (
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
	ContextKeyCaller        = appctx.ContextKeyCaller
)

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}

func GetCallerFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCaller)
}

func SetCallerInContext(ctx context.Context, caller string) context.Context {
	return appctx.Set(ctx, ContextKeyCaller, caller)
}
