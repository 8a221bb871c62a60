package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleDriver, ParseRole("driver"))
	assert.Equal(t, RoleLogisticManager, ParseRole("logistic_manager"))
	assert.Equal(t, RoleAdministrator, ParseRole("administrator"))

	// Unknown labels collapse to unauthenticated, never a partial grant.
	assert.Equal(t, RoleUnauthenticated, ParseRole(""))
	assert.Equal(t, RoleUnauthenticated, ParseRole("Driver"))
	assert.Equal(t, RoleUnauthenticated, ParseRole("superuser"))
}

func TestPermissionMatrix(t *testing.T) {
	perms := []Permission{
		PermSubmitTrip,
		PermViewTripReport,
		PermEditClientList,
		PermViewSelector,
		PermAdminArea,
	}

	expected := map[Role]map[Permission]bool{
		RoleUnauthenticated: {},
		RoleDriver: {
			PermSubmitTrip:   true,
			PermViewSelector: true,
		},
		RoleLogisticManager: {
			PermSubmitTrip:     true,
			PermViewSelector:   true,
			PermViewTripReport: true,
			PermEditClientList: true,
		},
		RoleAdministrator: {
			PermSubmitTrip:     true,
			PermViewSelector:   true,
			PermViewTripReport: true,
			PermEditClientList: true,
			PermAdminArea:      true,
		},
	}

	for role, grants := range expected {
		for _, p := range perms {
			assert.Equal(t, grants[p], role.Can(p), "role=%s perm=%d", role, p)
		}
	}
}

func TestAdministratorSupersetOfManager(t *testing.T) {
	for _, p := range []Permission{
		PermSubmitTrip, PermViewTripReport, PermEditClientList, PermViewSelector, PermAdminArea,
	} {
		if RoleLogisticManager.Can(p) {
			assert.True(t, RoleAdministrator.Can(p), "perm=%d", p)
		}
	}
}

func TestPrincipal(t *testing.T) {
	anon := Principal{}
	assert.False(t, anon.Authenticated())
	assert.False(t, anon.Can(PermViewSelector))

	driver := Principal{Subject: "drv-1", Role: RoleDriver}
	assert.True(t, driver.Authenticated())
	assert.True(t, driver.Can(PermSubmitTrip))
	assert.False(t, driver.Can(PermEditClientList))
	assert.False(t, driver.Can(PermAdminArea))
}
