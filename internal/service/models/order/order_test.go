package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendra/escrow-svc/internal/service/models/apperr"
	"github.com/vendra/escrow-svc/internal/service/models/user"
)

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"pending", "delivered", "cancelled"} {
		status, err := ParseStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, status.String())
	}

	_, err := ParseStatus("shipped")
	assert.True(t, apperr.IsCode(err, apperr.CodeBadRequest))
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestNewRefFormat(t *testing.T) {
	now := time.Now()
	ref := NewRef(now)
	assert.Regexp(t, `^#\d+$`, ref)

	// Two placements at different instants get different references.
	other := NewRef(now.Add(time.Nanosecond))
	assert.NotEqual(t, ref, other)
}

func TestScopeFor(t *testing.T) {
	admin := user.Actor{ID: 1, Role: user.RoleAdmin, CompanyID: 99}
	q, err := ScopeFor(admin, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), q.CompanyID)
	assert.Zero(t, q.VendorID)

	company := user.Actor{ID: 2, Role: user.RoleCompany, CompanyID: 5}
	q, err = ScopeFor(company, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), q.CompanyID)

	_, err = ScopeFor(company, 6)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	vendor := user.Actor{ID: 3, Role: user.RoleVendor, CompanyID: 5}
	q, err = ScopeFor(vendor, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), q.VendorID)

	customer := user.Actor{ID: 4, Role: user.RoleCustomer, CompanyID: 5}
	_, err = ScopeFor(customer, 5)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
}

func TestParseDeliveredFilter(t *testing.T) {
	delivered, err := ParseDeliveredFilter("")
	require.NoError(t, err)
	assert.Nil(t, delivered)

	delivered, err = ParseDeliveredFilter("pending")
	require.NoError(t, err)
	require.NotNil(t, delivered)
	assert.False(t, *delivered)

	delivered, err = ParseDeliveredFilter("success")
	require.NoError(t, err)
	require.NotNil(t, delivered)
	assert.True(t, *delivered)

	_, err = ParseDeliveredFilter("done")
	assert.True(t, apperr.IsCode(err, apperr.CodeBadRequest))
}
