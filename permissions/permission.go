package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"parking/shared/constant"
	"slices"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

var knownRoles = []string{constant.RoleUser, constant.RoleStaff, constant.RoleAdmin}

// Permission lists the roles allowed on one chi route pattern. An empty list admits any
// authenticated caller.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

func (p Permission) Allows(role string) bool {
	return len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

func routeKey(path, method string) string {
	return method + " " + path
}

func (r *PermissionData) FindPermissions(path, method string) Permission {
	return r.index[routeKey(path, method)]
}

// Parse decodes a permission table and rejects unknown roles and duplicate routes.
func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	permissions.index = make(map[string]Permission, len(permissions.Endpoints))

	for _, endpoint := range permissions.Endpoints {
		key := routeKey(endpoint.Path, endpoint.Method)
		if _, ok := permissions.index[key]; ok {
			return nil, fmt.Errorf("duplicate permission for %s", key)
		}

		for _, role := range endpoint.Permissions {
			if !slices.Contains(knownRoles, role) {
				return nil, fmt.Errorf("unknown role %q on %s", role, key)
			}
		}

		permissions.index[key] = endpoint
	}

	return &permissions, nil
}

// Get loads the embedded table. A broken table yields nil, which denies every guarded route.
func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Error().Err(err).Msg("failed to load embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("loaded embedded permissions")

	return permissions
}
