package health

// Service encapsulates health-related checks.
type Service struct{}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{}
}

// Status returns the liveness payload served on the health endpoint.
func (s *Service) Status() map[string]any {
	return map[string]any{
		"ok":      true,
		"service": "grant-backend",
	}
}
