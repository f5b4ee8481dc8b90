package rbac

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/platinummonkey/weavekit/pkg/httputil"
)

var (
	// ErrRoleNotFound is returned when the named role does not exist
	ErrRoleNotFound = errors.New("role not found")

	// ErrInvalidInput is returned before any request is made when a role or
	// user name is empty
	ErrInvalidInput = errors.New("invalid input")
)

// Doer sends a JSON request to a path under the versioned database API and
// decodes the response into out
type Doer interface {
	Do(ctx context.Context, method, path string, in, out interface{}) error
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithLogger sets the logger used for unknown permission warnings
func WithLogger(log logrus.FieldLogger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// WithRoleCache caches GetRole results for ttl, holding at most size roles.
// A zero ttl or size disables caching.
func WithRoleCache(size int, ttl time.Duration) ClientOption {
	return func(c *Client) {
		if size <= 0 || ttl <= 0 {
			c.cache = nil
			return
		}
		c.cache = expirable.NewLRU[string, Role](size, nil, ttl)
	}
}

// Client calls the authorization API
type Client struct {
	doer  Doer
	log   logrus.FieldLogger
	cache *expirable.LRU[string, Role]
	group singleflight.Group

	// generations counts invalidations per role; a fetch only fills the
	// cache if no invalidation happened while it was in flight
	mu          sync.Mutex
	generations map[string]uint64
}

// NewClient creates an authorization API client on top of doer
func NewClient(doer Doer, opts ...ClientOption) *Client {
	c := &Client{doer: doer, generations: map[string]uint64{}}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	return c
}

type createRoleRequest struct {
	Name        string           `json:"name"`
	Permissions []WirePermission `json:"permissions"`
}

type permissionsRequest struct {
	Permissions []WirePermission `json:"permissions"`
}

type rolesRequest struct {
	Roles []string `json:"roles"`
}

func rolePath(name string, suffix string) string {
	return "/authz/roles/" + url.PathEscape(name) + suffix
}

func userPath(id string, suffix string) string {
	return "/authz/users/" + url.PathEscape(id) + suffix
}

func requireName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%w: %s name is required", ErrInvalidInput, kind)
	}
	return nil
}

// ListRoles returns every role keyed by name
func (c *Client) ListRoles(ctx context.Context) (map[string]Role, error) {
	var wrs []WireRole
	if err := c.doer.Do(ctx, http.MethodGet, "/authz/roles", nil, &wrs); err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return RolesFromWire(wrs, c.log), nil
}

// GetRole returns the named role or ErrRoleNotFound. Concurrent calls for
// the same role share one request, which is not cancelled when one of the
// callers gives up.
func (c *Client) GetRole(ctx context.Context, name string) (Role, error) {
	if err := requireName("role", name); err != nil {
		return Role{}, err
	}
	if c.cache != nil {
		if role, ok := c.cache.Get(name); ok {
			return role, nil
		}
	}

	gen := c.generation(name)
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(name, func() (interface{}, error) {
		var wr WireRole
		if err := c.doer.Do(fetchCtx, http.MethodGet, rolePath(name, ""), nil, &wr); err != nil {
			if errors.Is(err, httputil.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrRoleNotFound, name)
			}
			return nil, fmt.Errorf("failed to get role %s: %w", name, err)
		}
		role := RoleFromWire(wr, c.log)
		c.store(name, gen, role)
		return role, nil
	})

	select {
	case <-ctx.Done():
		return Role{}, fmt.Errorf("failed to get role %s: %w", name, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return Role{}, res.Err
		}
		return res.Val.(Role), nil
	}
}

// CreateRole creates a role holding perms and returns it as stored
func (c *Client) CreateRole(ctx context.Context, name string, perms ...Permission) (Role, error) {
	if err := requireName("role", name); err != nil {
		return Role{}, err
	}

	req := createRoleRequest{Name: name, Permissions: ToWire(perms)}
	if err := c.doer.Do(ctx, http.MethodPost, "/authz/roles", req, nil); err != nil {
		return Role{}, fmt.Errorf("failed to create role %s: %w", name, err)
	}
	c.invalidate(name)
	return c.GetRole(ctx, name)
}

// DeleteRole deletes the named role
func (c *Client) DeleteRole(ctx context.Context, name string) error {
	if err := requireName("role", name); err != nil {
		return err
	}
	defer c.invalidate(name)

	if err := c.doer.Do(ctx, http.MethodDelete, rolePath(name, ""), nil, nil); err != nil {
		return fmt.Errorf("failed to delete role %s: %w", name, err)
	}
	return nil
}

// AddPermissions grants perms to an existing role
func (c *Client) AddPermissions(ctx context.Context, role string, perms ...Permission) error {
	return c.changePermissions(ctx, role, "/add-permissions", perms)
}

// RemovePermissions revokes perms from a role
func (c *Client) RemovePermissions(ctx context.Context, role string, perms ...Permission) error {
	return c.changePermissions(ctx, role, "/remove-permissions", perms)
}

func (c *Client) changePermissions(ctx context.Context, role, suffix string, perms []Permission) error {
	if err := requireName("role", role); err != nil {
		return err
	}
	defer c.invalidate(role)

	req := permissionsRequest{Permissions: ToWire(perms)}
	if err := c.doer.Do(ctx, http.MethodPost, rolePath(role, suffix), req, nil); err != nil {
		return fmt.Errorf("failed to update permissions of role %s: %w", role, err)
	}
	return nil
}

// HasPermission reports whether role grants perm
func (c *Client) HasPermission(ctx context.Context, role string, perm Permission) (bool, error) {
	if err := requireName("role", role); err != nil {
		return false, err
	}

	var ok bool
	if err := c.doer.Do(ctx, http.MethodPost, rolePath(role, "/has-permission"), perm.ToWire(), &ok); err != nil {
		return false, fmt.Errorf("failed to check permission on role %s: %w", role, err)
	}
	return ok, nil
}

// AssignedUsers returns the ids of users holding role
func (c *Client) AssignedUsers(ctx context.Context, role string) ([]string, error) {
	if err := requireName("role", role); err != nil {
		return nil, err
	}

	users := []string{}
	if err := c.doer.Do(ctx, http.MethodGet, rolePath(role, "/users"), nil, &users); err != nil {
		return nil, fmt.Errorf("failed to list users of role %s: %w", role, err)
	}
	return users, nil
}

// UserRoles returns the roles assigned to a user keyed by name
func (c *Client) UserRoles(ctx context.Context, user string) (map[string]Role, error) {
	if err := requireName("user", user); err != nil {
		return nil, err
	}

	var wrs []WireRole
	if err := c.doer.Do(ctx, http.MethodGet, userPath(user, "/roles"), nil, &wrs); err != nil {
		return nil, fmt.Errorf("failed to get roles of user %s: %w", user, err)
	}
	return RolesFromWire(wrs, c.log), nil
}

// AssignRoles assigns roles to a user
func (c *Client) AssignRoles(ctx context.Context, user string, roles ...string) error {
	return c.changeRoles(ctx, user, "/assign", roles)
}

// RevokeRoles revokes roles from a user
func (c *Client) RevokeRoles(ctx context.Context, user string, roles ...string) error {
	return c.changeRoles(ctx, user, "/revoke", roles)
}

func (c *Client) changeRoles(ctx context.Context, user, suffix string, roles []string) error {
	if err := requireName("user", user); err != nil {
		return err
	}
	if len(roles) == 0 {
		return fmt.Errorf("%w: at least one role is required", ErrInvalidInput)
	}
	for _, r := range roles {
		if err := requireName("role", r); err != nil {
			return err
		}
	}

	if err := c.doer.Do(ctx, http.MethodPost, userPath(user, suffix), rolesRequest{Roles: roles}, nil); err != nil {
		return fmt.Errorf("failed to update roles of user %s: %w", user, err)
	}
	return nil
}

// CurrentUser returns the authenticated user and its roles
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var wu WireUser
	if err := c.doer.Do(ctx, http.MethodGet, "/users/own-info", nil, &wu); err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return UserFromWire(wu, c.log), nil
}

func (c *Client) generation(name string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[name]
}

// store caches role unless name was invalidated after generation gen
func (c *Client) store(name string, gen uint64, role Role) {
	if c.cache == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[name] == gen {
		c.cache.Add(name, role)
	}
}

// invalidate drops the cached role and detaches any fetch already in
// flight so that later calls see the mutation
func (c *Client) invalidate(name string) {
	c.mu.Lock()
	c.generations[name]++
	if c.cache != nil {
		c.cache.Remove(name)
	}
	c.mu.Unlock()
	c.group.Forget(name)
}
