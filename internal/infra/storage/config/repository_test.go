package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotScheduler/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SlotScheduler/pkg/ptr"
)

func TestNullableEq(t *testing.T) {
	query, args, err := psqlbuilder.Select("id").
		From(tableConfig).
		Where(nullableEq("staff_id", nil)).
		Where(nullableEq("service_id", ptr.Ptr(int64(5)))).
		ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id FROM business_slots_config WHERE staff_id IS NULL AND service_id = $1", query)
	assert.Equal(t, []interface{}{int64(5)}, args)
}
