package recorder

import "context"

// NoopRecorder is a no-op implementation used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordBias(_ context.Context, _ *BiasSnapshot) error { return nil }
func (n *NoopRecorder) Close() error                                        { return nil }
