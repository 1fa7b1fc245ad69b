package security

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/FiguringToCode/backend-workasana/internal/security/auth"
)

// AuthorizationService decides which roles a route accepts. The historical
// behavior of this API is that any valid token, admin or user, may reach any
// protected route; that remains the default. Routes can be restricted to a
// role set, and enforcement as a whole is switchable so the accept-any
// policy stays an explicit choice rather than an accident.
type AuthorizationService struct {
	mu      sync.RWMutex
	routes  map[string][]auth.Role
	enforce bool
	logger  *slog.Logger
}

// NewAuthorizationService creates a policy with no route restrictions.
func NewAuthorizationService(enforce bool, logger *slog.Logger) *AuthorizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorizationService{
		routes:  map[string][]auth.Role{},
		enforce: enforce,
		logger:  logger,
	}
}

// Restrict limits a route pattern to the given roles. Routes without an
// entry accept any valid token.
func (as *AuthorizationService) Restrict(route string, roles ...auth.Role) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.routes[route] = roles
}

// Allowed reports whether the role may reach the route.
func (as *AuthorizationService) Allowed(route string, role auth.Role) bool {
	if !as.enforce {
		return true
	}

	as.mu.RLock()
	roles, restricted := as.routes[route]
	as.mu.RUnlock()

	if !restricted {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// ValidateAccess checks the role against the route policy and logs denials.
func (as *AuthorizationService) ValidateAccess(route string, role auth.Role) error {
	if !as.Allowed(route, role) {
		as.logger.Warn("route access denied",
			slog.String("route", route),
			slog.String("role", string(role)),
		)
		return fmt.Errorf("access denied: %s role cannot reach %s", role, route)
	}
	return nil
}
