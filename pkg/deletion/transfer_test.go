package deletion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTransferRoomsNothingOwned(t *testing.T) {

	ctx := context.Background()

	// nil database: a user with no rooms must return an empty (non-nil)
	// list before any room write is attempted
	got := TransferRooms(ctx, zap.NewNop(), nil, "u1", nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = TransferRooms(ctx, zap.NewNop(), nil, "u1", []string{})
	assert.NotNil(t, got)
	assert.Empty(t, got)

}
