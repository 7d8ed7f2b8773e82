package reporting

import (
	"context"
	"maps"
	"time"
)

type reportingMetaContextKey struct{}

// ReportingMeta is attached to every error reported while handling a request
type ReportingMeta struct {
	tags     map[string]string
	extras   map[string]string
	playerID string
	awardID  string

	startedAt time.Time
}

func (m ReportingMeta) clone() ReportingMeta {
	m.tags = maps.Clone(m.tags)
	if m.tags == nil {
		m.tags = map[string]string{}
	}
	m.extras = maps.Clone(m.extras)
	if m.extras == nil {
		m.extras = map[string]string{}
	}
	return m
}

// MetaFromContext returns a copy of the meta stored in ctx. Mutating it does not affect ctx.
func MetaFromContext(ctx context.Context) ReportingMeta {
	meta, _ := ctx.Value(reportingMetaContextKey{}).(ReportingMeta)
	return meta.clone()
}

func withMeta(ctx context.Context, update func(meta *ReportingMeta)) context.Context {
	meta := MetaFromContext(ctx)
	update(&meta)
	return context.WithValue(ctx, reportingMetaContextKey{}, meta)
}

func setStartedAtInContext(ctx context.Context, startedAt time.Time) context.Context {
	return withMeta(ctx, func(meta *ReportingMeta) {
		meta.startedAt = startedAt
	})
}

func AddExtrasToContext(ctx context.Context, extras map[string]string) context.Context {
	return withMeta(ctx, func(meta *ReportingMeta) {
		maps.Copy(meta.extras, extras)
	})
}

func AddTagsToContext(ctx context.Context, tags map[string]string) context.Context {
	return withMeta(ctx, func(meta *ReportingMeta) {
		maps.Copy(meta.tags, tags)
	})
}

// SetPlayerIDInContext makes reports show up under the player in sentry
func SetPlayerIDInContext(ctx context.Context, playerID string) context.Context {
	return withMeta(ctx, func(meta *ReportingMeta) {
		meta.playerID = playerID
	})
}

// SetAwardIDInContext tags reports with the award the request concerns
func SetAwardIDInContext(ctx context.Context, awardID string) context.Context {
	return withMeta(ctx, func(meta *ReportingMeta) {
		meta.awardID = awardID
	})
}
