package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	now := time.Date(2024, time.March, 5, 13, 0, 0, 0, time.UTC)
	assert.Equal(t, "exports/2024/03/05/accounts-1.csv", ObjectKey(now, "accounts-1.csv"))
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Store(context.Background(), "x", "text/csv", []byte("a")))
}
