package whois

import (
	"context"

	"go.uber.org/zap"

	"domainscope/internal/domain"
)

// Source combines the raw client and the parser behind the
// ports.RegistrationSource interface.
type Source struct {
	Client *Client
	Log    *zap.SugaredLogger
}

func NewSource(log *zap.SugaredLogger) *Source {
	return &Source{Client: NewClient(), Log: log}
}

func (s *Source) Lookup(ctx context.Context, host string) (*domain.Registration, error) {
	raw, err := s.Client.Query(ctx, host)
	if err != nil {
		if s.Log != nil {
			s.Log.Warnw("whois query failed", "host", host, "error", err)
		}
		return nil, err
	}
	return Parse(raw), nil
}
