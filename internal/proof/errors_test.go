package proof

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestStageOf(t *testing.T) {
	cause := errors.New("boom")
	cases := []struct {
		err  error
		want Stage
	}{
		{NewValidationError("bad %s", "input"), StageValidation},
		{NewBackendError(testNode, cause), StageBackend},
		{NewSerializationError("bad value"), StageSerialization},
		{errors.Wrap(NewBackendError(testNode, cause), "outer"), StageBackend},
		{cause, StageUnknown},
		{nil, StageUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StageOf(tc.err), "%v", tc.err)
	}
}

func TestBackendError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := errors.Wrap(NewBackendError(testNode, cause), "fetch")

	be, ok := IsBackend(err)
	assert.True(t, ok)
	assert.Equal(t, testNode, be.Endpoint)
	assert.True(t, errors.Is(err, cause))

	_, ok = IsValidation(err)
	assert.False(t, ok)
	_, ok = IsSerialization(err)
	assert.False(t, ok)
}

func TestBackendError_HidesEndpoint(t *testing.T) {
	node := "https://eth-mainnet.g.alchemy.com/v2/s3cr3t-key"
	err := NewBackendError(node, errors.Errorf(`Post "%s": dial tcp: i/o timeout`, node))

	msg := err.Error()
	assert.NotContains(t, msg, "s3cr3t-key")
	assert.Contains(t, msg, "https://eth-mainnet.g.alchemy.com")
	assert.Contains(t, msg, "backend failure: ")
}

func TestErrorPrefixes(t *testing.T) {
	assert.Equal(t, "invalid request: x", NewValidationError("x").Error())
	assert.Equal(t, "serialization failure: y", NewSerializationError("y").Error())
}
