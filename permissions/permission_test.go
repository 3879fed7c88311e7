package permissions_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking/permissions"
	"parking/shared/constant"
)

func TestGet_Embedded(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	live := data.FindPermissions("/v1/bookings/live", http.MethodGet)
	assert.True(t, live.Allows(constant.RoleStaff))
	assert.False(t, live.Allows(constant.RoleUser))

	create := data.FindPermissions("/v1/bookings/", http.MethodPost)
	assert.True(t, create.Allows(constant.RoleUser))

	assert.Empty(t, data.FindPermissions("/v1/unknown", http.MethodGet).Path)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "valid",
			data: `{"endpoints":[{"path":"/v1/slots/","method":"GET","permissions":["user"]}]}`,
		},
		{
			name:    "malformed",
			data:    `{"endpoints":`,
			wantErr: true,
		},
		{
			name:    "unknown role",
			data:    `{"endpoints":[{"path":"/v1/slots/","method":"GET","permissions":["root"]}]}`,
			wantErr: true,
		},
		{
			name: "duplicate route",
			data: `{"endpoints":[
				{"path":"/v1/slots/","method":"GET","permissions":["user"]},
				{"path":"/v1/slots/","method":"GET","permissions":["staff"]}
			]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := permissions.Parse([]byte(tt.data))

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, data)

				return
			}

			require.NoError(t, err)
			assert.Len(t, data.Endpoints, 1)
		})
	}
}

func TestPermission_Allows(t *testing.T) {
	open := permissions.Permission{}
	assert.True(t, open.Allows(constant.RoleUser))

	staffOnly := permissions.Permission{Permissions: []string{constant.RoleStaff, constant.RoleAdmin}}
	assert.True(t, staffOnly.Allows(constant.RoleAdmin))
	assert.False(t, staffOnly.Allows(""))
}
