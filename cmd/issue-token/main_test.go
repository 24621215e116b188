package main

import (
	"testing"

	"go-inventory-ledger/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectPrivilegesFromRole(t *testing.T) {
	privs, err := collectPrivileges("storefront", "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{model.PrivStockView, model.PrivLedgerView, model.PrivLedgerRecord}, privs)
}

func TestCollectPrivilegesMergesExtras(t *testing.T) {
	privs, err := collectPrivileges("STOREFRONT", "ledger:record, dashboard:view")
	require.NoError(t, err)
	assert.Len(t, privs, 4)
	assert.Contains(t, privs, model.PrivDashboardView)
}

func TestCollectPrivilegesRejectsUnknown(t *testing.T) {
	_, err := collectPrivileges("JANITOR", "")
	assert.Error(t, err)

	_, err = collectPrivileges("", "ledger:delete")
	assert.Error(t, err)

	_, err = collectPrivileges("", "")
	assert.Error(t, err)
}

func TestAdminRoleGetsEveryPrivilege(t *testing.T) {
	privs, err := collectPrivileges("ADMIN", "")
	require.NoError(t, err)
	assert.Len(t, privs, len(model.DefaultPrivileges))
}
