package bootstrap

import "go.uber.org/zap"

// NewLogger returns a JSON production logger when env is "production" and
// a console development logger otherwise. It also replaces zap's globals.
func NewLogger(env string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
