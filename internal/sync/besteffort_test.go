package sync

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestBestEffort_SwallowsError(t *testing.T) {
	ran := false
	assert.NotPanics(t, func() {
		BestEffort(zap.NewNop(), "failing task", func() error {
			ran = true
			return errors.New("boom")
		})
	})
	assert.True(t, ran)
}

func TestBestEffort_SwallowsPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		BestEffort(zap.NewNop(), "panicking task", func() error {
			panic("boom")
		})
	})
}
