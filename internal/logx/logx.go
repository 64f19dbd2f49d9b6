package logx

import "go.uber.org/zap"

// New builds the production logger used by every binary in this repo.
func New(service string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return l.With(zap.String("service", service))
}
