package modern

import (
	"context"
	"fmt"
	"strings"

	"github.com/CK6170/sensorcal-go/models"
)

// Session keeps the parameters of a viewer and the last completed run.
type Session struct {
	Params     *models.PARAMETERS
	ConfigPath string
	Result     *Result
}

// Open loads parameters from configPath, or the defaults when it is empty.
func Open(configPath string) (*Session, error) {
	if strings.TrimSpace(configPath) == "" {
		p := DefaultParameters()
		return &Session{Params: p}, nil
	}
	p, err := LoadParameters(configPath)
	if err != nil {
		return nil, err
	}
	return &Session{Params: p, ConfigPath: configPath}, nil
}

// Run re-reads the inputs and replaces the session result on success.
func (s *Session) Run(ctx context.Context, onUpdate func(StageUpdate)) (*Result, error) {
	if s == nil || s.Params == nil {
		return nil, fmt.Errorf("session not opened")
	}
	res, err := Run(ctx, s.Params, onUpdate)
	if err != nil {
		return nil, err
	}
	s.Result = res
	return res, nil
}
