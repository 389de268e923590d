package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoteHTTPClientHasNoTimeout(t *testing.T) {
	assert.Zero(t, remoteHTTPClient().Timeout)
}
